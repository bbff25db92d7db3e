package controller

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SurveyController struct {
	SurveyService *service.SurveyService
}

func NewSurveyController(surveyService *service.SurveyService) *SurveyController {
	return &SurveyController{SurveyService: surveyService}
}

// swagger:model SurveyRequest
type SurveyRequest struct {
	Kind   string  `json:"typeSurvei" binding:"required"`
	Value  float64 `json:"nilai" binding:"required"`
	TaskID *uint   `json:"taskId"`
}

// CreateSurvey godoc
// @Summary Record a survey score for the caller
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SurveyRequest true "Survey payload"
// @Success 201 {object} util.Response{data=model.Survey}
// @Router /api/surveys [post]
func (c *SurveyController) CreateSurvey(ctx *gin.Context) {
	var req SurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	survey := &model.Survey{
		UserID: claims.UserID,
		Kind:   req.Kind,
		Value:  req.Value,
		TaskID: req.TaskID,
	}
	if err := c.SurveyService.Create(survey); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, survey)
}

// ListSurveys godoc
// @Summary List surveys, optionally filtered by kind
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Survey kind"
// @Success 200 {object} util.Response
// @Router /api/surveys [get]
func (c *SurveyController) ListSurveys(ctx *gin.Context) {
	surveys, err := c.SurveyService.List(ctx.Query("kind"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, surveys)
}

// ListUserSurveys godoc
// @Summary List one user's surveys
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Success 200 {object} util.Response
// @Router /api/users/{userId}/surveys [get]
func (c *SurveyController) ListUserSurveys(ctx *gin.Context) {
	userID, err := pathID(ctx, "userId")
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	surveys, err := c.SurveyService.ListByUser(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, surveys)
}

// swagger:model SurveyUpdateRequest
type SurveyUpdateRequest struct {
	Kind  string   `json:"typeSurvei"`
	Value *float64 `json:"nilai"`
}

// UpdateSurvey godoc
// @Summary Update a survey
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey id"
// @Param body body SurveyUpdateRequest true "Fields to update"
// @Success 200 {object} util.Response{data=model.Survey}
// @Failure 404 {object} util.Response
// @Router /api/surveys/{id} [put]
func (c *SurveyController) UpdateSurvey(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid survey id")
		return
	}

	var req SurveyUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	survey, err := c.SurveyService.Update(id, req.Kind, req.Value)
	if err != nil {
		if errors.Is(err, util.ErrSurveyNotFound) {
			util.NotFound(ctx, "Survey not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, survey)
}

// DeleteSurvey godoc
// @Summary Delete a survey
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Survey id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/surveys/{id} [delete]
func (c *SurveyController) DeleteSurvey(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid survey id")
		return
	}

	if err := c.SurveyService.Delete(id); err != nil {
		if errors.Is(err, util.ErrSurveyNotFound) {
			util.NotFound(ctx, "Survey not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": "Survey deleted"})
}
