package controller

import (
	"encoding/json"
	"errors"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MindmapController struct {
	MindmapService *service.MindmapService
	Storage        *service.StorageService
}

func NewMindmapController(mindmapService *service.MindmapService, storage *service.StorageService) *MindmapController {
	return &MindmapController{MindmapService: mindmapService, Storage: storage}
}

// CreateTask godoc
// @Summary Create a mindmap task
// @Description Multipart form: title, instructions, description, priority, rubric (JSON array of {text}), and one file per rubric entry as rubricFile_<index>.
// @Tags mindmaps
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response{data=model.MindmapTask}
// @Failure 400 {object} util.Response
// @Router /api/mindmaps [post]
func (c *MindmapController) CreateTask(ctx *gin.Context) {
	in, ok := c.bindTaskForm(ctx)
	if !ok {
		return
	}
	if in.Instructions == "" {
		util.BadRequest(ctx, "instructions are required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	task, err := c.MindmapService.CreateTask(in, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

func (c *MindmapController) bindTaskForm(ctx *gin.Context) (service.MindmapTaskInput, bool) {
	in := service.MindmapTaskInput{
		Title:        ctx.PostForm("title"),
		Instructions: ctx.PostForm("instructions"),
		Description:  ctx.PostForm("description"),
	}
	if v := ctx.PostForm("priority"); v != "" {
		in.Priority = model.Priority(v)
	}

	if raw := ctx.PostForm("rubric"); raw != "" {
		var entries []struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			util.BadRequest(ctx, "invalid rubric payload")
			return in, false
		}
		// Non-nil even for an empty array, so "rubric": [] clears the set on
		// update while an absent field leaves it untouched.
		in.Rubric = make([]service.RubricInput, 0, len(entries))
		for i, e := range entries {
			entry := service.RubricInput{Text: e.Text}
			if fileHeader, err := ctx.FormFile("rubricFile_" + strconv.Itoa(i)); err == nil {
				url, err := storeUpload(ctx, c.Storage, fileHeader, []string{util.MimePDF})
				if err != nil {
					util.BadRequest(ctx, err.Error())
					return in, false
				}
				entry.File = url
			}
			in.Rubric = append(in.Rubric, entry)
		}
	}
	return in, true
}

// ListTasks godoc
// @Summary List mindmap tasks
// @Tags mindmaps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/mindmaps [get]
func (c *MindmapController) ListTasks(ctx *gin.Context) {
	tasks, err := c.MindmapService.ListTasks()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// GetTask godoc
// @Summary Get one mindmap task
// @Tags mindmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mindmap task id"
// @Success 200 {object} util.Response{data=model.MindmapTask}
// @Failure 404 {object} util.Response
// @Router /api/mindmaps/{id} [get]
func (c *MindmapController) GetTask(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mindmap task id")
		return
	}

	task, err := c.MindmapService.GetTask(id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// UpdateTask godoc
// @Summary Update a mindmap task
// @Tags mindmaps
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mindmap task id"
// @Success 200 {object} util.Response{data=model.MindmapTask}
// @Failure 404 {object} util.Response
// @Router /api/mindmaps/{id} [put]
func (c *MindmapController) UpdateTask(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mindmap task id")
		return
	}

	in, ok := c.bindTaskForm(ctx)
	if !ok {
		return
	}

	task, err := c.MindmapService.UpdateTask(ctx.Request.Context(), id, in)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// swagger:model MindmapStatusRequest
type MindmapStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update a mindmap task's status
// @Tags mindmaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mindmap task id"
// @Param body body MindmapStatusRequest true "New status"
// @Success 200 {object} util.Response{data=model.MindmapTask}
// @Failure 404 {object} util.Response
// @Router /api/mindmaps/{id}/status [put]
func (c *MindmapController) UpdateStatus(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mindmap task id")
		return
	}

	var req MindmapStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.MindmapService.UpdateStatus(id, model.WorkStatus(req.Status))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// DeleteTask godoc
// @Summary Delete a mindmap task and its stored files
// @Tags mindmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mindmap task id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/mindmaps/{id} [delete]
func (c *MindmapController) DeleteTask(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mindmap task id")
		return
	}

	if err := c.MindmapService.DeleteTask(ctx.Request.Context(), id); err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Mindmap task deleted"})
}

// Submit godoc
// @Summary Submit the answer PDF for a mindmap task
// @Tags mindmaps
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mindmap task id"
// @Param answerPdf formData file true "Answer PDF"
// @Success 201 {object} util.Response{data=model.MindmapSubmission}
// @Failure 409 {object} util.Response
// @Router /api/mindmaps/{id}/submissions [post]
func (c *MindmapController) Submit(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mindmap task id")
		return
	}

	fileHeader, err := ctx.FormFile("answerPdf")
	if err != nil {
		util.BadRequest(ctx, "answerPdf is required")
		return
	}
	url, err := storeUpload(ctx, c.Storage, fileHeader, []string{util.MimePDF})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	sub, err := c.MindmapService.Submit(id, claims.UserID, url)
	if err != nil {
		if errors.Is(err, util.ErrAlreadySubmitted) {
			util.Error(ctx, 409, "Mindmap already submitted")
		} else {
			c.respondError(ctx, err)
		}
		return
	}
	util.Created(ctx, sub)
}

// MySubmission godoc
// @Summary Get the caller's own submission for a mindmap task
// @Tags mindmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mindmap task id"
// @Success 200 {object} util.Response{data=model.MindmapSubmission}
// @Failure 404 {object} util.Response
// @Router /api/mindmaps/{id}/submissions/me [get]
func (c *MindmapController) MySubmission(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mindmap task id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	sub, err := c.MindmapService.GetSubmissionForUser(id, claims.UserID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// ListSubmissions godoc
// @Summary List submissions for a mindmap task
// @Tags mindmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mindmap task id"
// @Success 200 {object} util.Response
// @Router /api/mindmaps/{id}/submissions [get]
func (c *MindmapController) ListSubmissions(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid mindmap task id")
		return
	}

	subs, err := c.MindmapService.ListSubmissionsByTask(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// swagger:model MindmapGradeRequest
type MindmapGradeRequest struct {
	Score float64 `json:"score" binding:"required"`
}

// GradeSubmission godoc
// @Summary Score a mindmap submission
// @Tags mindmaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission id"
// @Param body body MindmapGradeRequest true "Score"
// @Success 200 {object} util.Response{data=model.MindmapSubmission}
// @Failure 404 {object} util.Response
// @Router /api/mindmaps/submissions/{id}/grade [put]
func (c *MindmapController) GradeSubmission(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	var req MindmapGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.MindmapService.GradeSubmission(id, req.Score)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

func (c *MindmapController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrTaskNotFound):
		util.NotFound(ctx, "Mindmap task not found")
	case errors.Is(err, util.ErrSubmissionNotFound):
		util.NotFound(ctx, "Submission not found")
	default:
		util.LogInternalError(ctx, err)
	}
}
