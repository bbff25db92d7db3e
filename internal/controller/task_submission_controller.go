package controller

import (
	"errors"
	"fmt"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaskSubmissionController struct {
	SubmissionService *service.TaskSubmissionService
	Storage           *service.StorageService
}

func NewTaskSubmissionController(subService *service.TaskSubmissionService, storage *service.StorageService) *TaskSubmissionController {
	return &TaskSubmissionController{SubmissionService: subService, Storage: storage}
}

// swagger:model SubmitRequest
type SubmitRequest struct {
	EssayAnswers          []AnswerRequest `json:"essayAnswers"`
	MultipleChoiceAnswers []AnswerRequest `json:"multipleChoiceAnswers"`
	ProblemAnswers        []AnswerRequest `json:"problemAnswer"`
}

type AnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

// Submit godoc
// @Summary Submit answers for a task
// @Description A learner submits at most once per task.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Param body body SubmitRequest true "Answers keyed by question id"
// @Success 201 {object} util.Response{data=model.TaskSubmission}
// @Failure 409 {object} util.Response
// @Router /api/tasks/{id}/submissions [post]
func (c *TaskSubmissionController) Submit(ctx *gin.Context) {
	taskID, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	in := service.SubmitInput{}
	for _, a := range req.EssayAnswers {
		in.EssayAnswers = append(in.EssayAnswers, service.AnswerInput{QuestionID: a.QuestionID, Answer: a.Answer})
	}
	for _, a := range req.MultipleChoiceAnswers {
		in.MultipleChoiceAnswers = append(in.MultipleChoiceAnswers, service.AnswerInput{QuestionID: a.QuestionID, Answer: a.Answer})
	}
	for _, a := range req.ProblemAnswers {
		in.ProblemAnswers = append(in.ProblemAnswers, service.AnswerInput{QuestionID: a.QuestionID, Answer: a.Answer})
	}

	claims := util.GetUserFromContext(ctx)
	sub, err := c.SubmissionService.Submit(taskID, claims.UserID, in)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTaskNotFound):
			util.NotFound(ctx, "Task not found")
		case errors.Is(err, util.ErrAlreadySubmitted):
			util.Error(ctx, 409, "Task already submitted")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, sub)
}

// MySubmission godoc
// @Summary Get the caller's submission for a task
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 200 {object} util.Response{data=model.TaskSubmission}
// @Failure 404 {object} util.Response
// @Router /api/tasks/{id}/submissions/me [get]
func (c *TaskSubmissionController) MySubmission(ctx *gin.Context) {
	taskID, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	sub, err := c.SubmissionService.GetByTaskAndUser(taskID, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx, "Submission not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, sub)
}

// ListByTask godoc
// @Summary List all submissions for a task
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 200 {object} util.Response
// @Router /api/tasks-admin/{id}/submissions [get]
func (c *TaskSubmissionController) ListByTask(ctx *gin.Context) {
	taskID, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	subs, err := c.SubmissionService.ListByTask(taskID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// ListByUser godoc
// @Summary List one user's submissions, optionally filtered by task kind
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Param kind query string false "Task kind"
// @Success 200 {object} util.Response
// @Router /api/users/{userId}/submissions [get]
func (c *TaskSubmissionController) ListByUser(ctx *gin.Context) {
	userID, err := pathID(ctx, "userId")
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	var subs []model.TaskSubmission
	if kindParam := ctx.Query("kind"); kindParam != "" {
		kind, err := model.ParseTaskKind(kindParam)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		subs, err = c.SubmissionService.ListByUserAndKind(userID, kind)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	} else {
		subs, err = c.SubmissionService.ListByUser(userID)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}
	util.Success(ctx, subs)
}

// Grade godoc
// @Summary Grade a submission
// @Description Multipart form: score, explanation, essay scores as essayScore_<answerId>, and an optional feedback PDF for LO/KBK tasks.
// @Tags submissions
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission id"
// @Success 200 {object} util.Response{data=model.TaskSubmission}
// @Failure 404 {object} util.Response
// @Router /api/submissions/{id}/grade [put]
func (c *TaskSubmissionController) Grade(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	in := service.GradeInput{
		Explanation: ctx.PostForm("explanation"),
		EssayScores: map[uint]float64{},
	}
	if v := ctx.PostForm("score"); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			util.BadRequest(ctx, "invalid score")
			return
		}
		in.Score = &score
	}
	if form, err := ctx.MultipartForm(); err == nil {
		for key, values := range form.Value {
			if len(values) == 0 {
				continue
			}
			var answerID uint
			if _, err := fmt.Sscanf(key, "essayScore_%d", &answerID); err != nil {
				continue
			}
			score, err := strconv.ParseFloat(values[0], 64)
			if err != nil {
				util.BadRequest(ctx, "invalid essay score for "+key)
				return
			}
			in.EssayScores[answerID] = score
		}
	}

	if fileHeader, err := ctx.FormFile("feedbackFile"); err == nil {
		url, err := storeUpload(ctx, c.Storage, fileHeader, util.UploadMimeTypes)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		in.FeedbackFile = url
	}

	sub, err := c.SubmissionService.Grade(id, in)
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx, "Submission not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, sub)
}
