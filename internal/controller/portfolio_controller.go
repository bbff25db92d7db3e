package controller

import (
	"errors"
	"fmt"
	"net/http"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PortfolioController struct {
	PortfolioService  *service.PortfolioService
	SubmissionService *service.TaskSubmissionService
	MindmapService    *service.MindmapService
	SurveyService     *service.SurveyService
	ContentService    *service.ContentService
}

func NewPortfolioController(
	portfolioService *service.PortfolioService,
	submissionService *service.TaskSubmissionService,
	mindmapService *service.MindmapService,
	surveyService *service.SurveyService,
	contentService *service.ContentService,
) *PortfolioController {
	return &PortfolioController{
		PortfolioService:  portfolioService,
		SubmissionService: submissionService,
		MindmapService:    mindmapService,
		SurveyService:     surveyService,
		ContentService:    contentService,
	}
}

// Data godoc
// @Summary Aggregate a learner's e-portfolio data as JSON
// @Tags portfolio
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Success 200 {object} util.Response
// @Router /api/eportfolio/{userId} [get]
func (c *PortfolioController) Data(ctx *gin.Context) {
	userID, err := pathID(ctx, "userId")
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	subs, err := c.SubmissionService.ListByUser(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	mindmaps, err := c.MindmapService.ListSubmissionsByUser(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	surveys, err := c.SurveyService.ListByUser(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	materials, err := c.ContentService.ListByType(model.ContentMaterial)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"userId":             userID,
		"taskSubmissions":    subs,
		"mindmapSubmissions": mindmaps,
		"surveys":            surveys,
		"contents":           materials,
	})
}

// Download godoc
// @Summary Export a learner's e-portfolio as a single PDF
// @Description Renders the report, appends feedback, rubric, and answer PDFs, and streams the merged document. Skipped attachments are listed in the X-Merge-Report header count.
// @Tags portfolio
// @Produce application/pdf
// @Security BearerAuth
// @Param userId path int true "User id"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /api/eportfolio/{userId}/download [get]
func (c *PortfolioController) Download(ctx *gin.Context) {
	userID, err := pathID(ctx, "userId")
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	result, err := c.PortfolioService.Export(ctx.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	skipped := 0
	for _, a := range result.Attachments {
		if !a.Merged {
			skipped++
		}
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	ctx.Header("X-Skipped-Attachments", fmt.Sprintf("%d", skipped))
	ctx.Data(http.StatusOK, "application/pdf", result.PDF)
}
