package controller

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// swagger:model TaskRequest
type TaskRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Kind          string           `json:"kind"`
	Priority      string           `json:"priority"`
	DueDate       *time.Time       `json:"dueDate"`
	AssignedTo    []uint           `json:"assignedTo"`
	Attachments   []string         `json:"attachments"`
	TodoChecklist []model.TodoItem `json:"todoChecklist"`

	EssayQuestions          []string     `json:"essayQuestions"`
	MultipleChoiceQuestions []MCQRequest `json:"multipleChoiceQuestions"`
	Problems                []string     `json:"problem"`
}

type MCQRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

func (r *TaskRequest) toInput() service.CreateTaskInput {
	in := service.CreateTaskInput{
		Title:          r.Title,
		Description:    r.Description,
		Kind:           model.TaskKind(r.Kind),
		Priority:       model.Priority(r.Priority),
		DueDate:        r.DueDate,
		AssignedTo:     r.AssignedTo,
		Attachments:    r.Attachments,
		TodoChecklist:  r.TodoChecklist,
		EssayQuestions: r.EssayQuestions,
		Problems:       r.Problems,
	}
	for _, q := range r.MultipleChoiceQuestions {
		in.MultipleChoiceQuestions = append(in.MultipleChoiceQuestions, service.MCQInput{
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		})
	}
	return in
}

// CreateTask godoc
// @Summary Create a task
// @Description Creates a task of any kind. Problem tasks get one chat group per problem.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TaskRequest true "Task payload"
// @Success 201 {object} util.Response{data=model.Task}
// @Failure 400 {object} util.Response
// @Router /api/tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	var req TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	task, err := c.TaskService.Create(req.toInput(), claims.UserID)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, task)
}

// ListTasks godoc
// @Summary List tasks
// @Description Admins see every task; members see their assigned tasks. Filter with ?kind= and ?status=.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Task kind"
// @Param status query string false "Task status"
// @Success 200 {object} util.Response
// @Router /api/tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	kind := model.TaskKind(ctx.Query("kind"))
	if kind != "" {
		if _, err := model.ParseTaskKind(string(kind)); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	claims := util.GetUserFromContext(ctx)
	tasks, err := c.TaskService.List(kind, model.WorkStatus(ctx.Query("status")), claims.UserID, claims.Role)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// ListTasksByKind godoc
// @Summary List tasks of one kind
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Task kind"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/tasks/kind/{kind} [get]
func (c *TaskController) ListTasksByKind(ctx *gin.Context) {
	kind, err := model.ParseTaskKind(ctx.Param("kind"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	tasks, err := c.TaskService.List(kind, "", claims.UserID, claims.Role)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// GetTask godoc
// @Summary Get one task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response
// @Router /api/tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	task, err := c.TaskService.GetByID(id, claims.Role)
	if err != nil {
		c.respondTaskError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Param body body TaskRequest true "Fields to update"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response
// @Router /api/tasks/{id} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	var req TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.Update(id, req.toInput())
	if err != nil {
		c.respondTaskError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	if err := c.TaskService.Delete(id); err != nil {
		c.respondTaskError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Task deleted"})
}

// swagger:model TaskStatusRequest
type TaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTaskStatus godoc
// @Summary Update a task's status
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Param body body TaskStatusRequest true "New status"
// @Success 200 {object} util.Response{data=model.Task}
// @Router /api/tasks/{id}/status [put]
func (c *TaskController) UpdateTaskStatus(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	var req TaskStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.UpdateStatus(id, model.WorkStatus(req.Status))
	if err != nil {
		c.respondTaskError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// swagger:model TaskChecklistRequest
type TaskChecklistRequest struct {
	TodoChecklist []model.TodoItem `json:"todoChecklist" binding:"required"`
}

// UpdateTaskChecklist godoc
// @Summary Replace a task's checklist
// @Description Progress and status are recomputed from the completed fraction.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Param body body TaskChecklistRequest true "Checklist"
// @Success 200 {object} util.Response{data=model.Task}
// @Router /api/tasks/{id}/todo [put]
func (c *TaskController) UpdateTaskChecklist(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	var req TaskChecklistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.UpdateChecklist(id, req.TodoChecklist)
	if err != nil {
		c.respondTaskError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// Dashboard godoc
// @Summary Admin dashboard data
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/tasks/dashboard-data [get]
func (c *TaskController) Dashboard(ctx *gin.Context) {
	data, err := c.TaskService.GetDashboard(0)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, data)
}

// UserDashboard godoc
// @Summary Dashboard data scoped to the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/tasks/user-dashboard-data [get]
func (c *TaskController) UserDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	data, err := c.TaskService.GetDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, data)
}

func (c *TaskController) respondTaskError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrTaskNotFound):
		util.NotFound(ctx, "Task not found")
	case errors.Is(err, util.ErrTaskKindMismatch):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
