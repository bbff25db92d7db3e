package controller

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
	Storage        *service.StorageService
}

func NewContentController(contentService *service.ContentService, storage *service.StorageService) *ContentController {
	return &ContentController{ContentService: contentService, Storage: storage}
}

// CreateContent godoc
// @Summary Create learning material or a glossary entry
// @Description Multipart form: type (materi or glosarium), title or term, content, description, priority, plus uploaded files.
// @Tags content
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response{data=model.Content}
// @Failure 400 {object} util.Response
// @Router /api/content [post]
func (c *ContentController) CreateContent(ctx *gin.Context) {
	in := service.ContentInput{
		Type:        model.ContentType(ctx.PostForm("type")),
		Title:       ctx.PostForm("title"),
		Term:        ctx.PostForm("term"),
		Body:        ctx.PostForm("content"),
		Description: ctx.PostForm("description"),
		Priority:    model.Priority(ctx.PostForm("priority")),
	}

	if form, err := ctx.MultipartForm(); err == nil {
		for _, fileHeader := range form.File["files"] {
			url, err := storeUpload(ctx, c.Storage, fileHeader, util.UploadMimeTypes)
			if err != nil {
				util.BadRequest(ctx, err.Error())
				return
			}
			in.Files = append(in.Files, url)
		}
	}

	claims := util.GetUserFromContext(ctx)
	content, err := c.ContentService.Create(in, claims.UserID)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, content)
}

// ListContent godoc
// @Summary List content of one type
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param type path string true "Content type (materi or glosarium)"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/content/type/{type} [get]
func (c *ContentController) ListContent(ctx *gin.Context) {
	contents, err := c.ContentService.ListByType(model.ContentType(ctx.Param("type")))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, contents)
}

// GetContent godoc
// @Summary Get one content entry
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content id"
// @Success 200 {object} util.Response{data=model.Content}
// @Failure 404 {object} util.Response
// @Router /api/content/{id} [get]
func (c *ContentController) GetContent(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	content, err := c.ContentService.GetByID(id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// UpdateContent godoc
// @Summary Update a content entry
// @Tags content
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content id"
// @Success 200 {object} util.Response{data=model.Content}
// @Failure 404 {object} util.Response
// @Router /api/content/{id} [put]
func (c *ContentController) UpdateContent(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	in := service.ContentInput{
		Title:       ctx.PostForm("title"),
		Term:        ctx.PostForm("term"),
		Body:        ctx.PostForm("content"),
		Description: ctx.PostForm("description"),
		Priority:    model.Priority(ctx.PostForm("priority")),
	}
	if form, err := ctx.MultipartForm(); err == nil {
		for _, fileHeader := range form.File["files"] {
			url, err := storeUpload(ctx, c.Storage, fileHeader, util.UploadMimeTypes)
			if err != nil {
				util.BadRequest(ctx, err.Error())
				return
			}
			in.Files = append(in.Files, url)
		}
	}

	content, err := c.ContentService.Update(id, in)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// swagger:model ContentStatusRequest
type ContentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateContentStatus godoc
// @Summary Update a content entry's status
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content id"
// @Param body body ContentStatusRequest true "New status"
// @Success 200 {object} util.Response{data=model.Content}
// @Router /api/content/{id}/status [put]
func (c *ContentController) UpdateContentStatus(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	var req ContentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	content, err := c.ContentService.UpdateStatus(id, model.WorkStatus(req.Status))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// swagger:model RemoveFileRequest
type RemoveFileRequest struct {
	FileURL string `json:"fileUrl" binding:"required"`
}

// RemoveFile godoc
// @Summary Detach a stored file from a content entry
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content id"
// @Param body body RemoveFileRequest true "File URL"
// @Success 200 {object} util.Response{data=model.Content}
// @Router /api/content/{id}/files [delete]
func (c *ContentController) RemoveFile(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	var req RemoveFileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	content, err := c.ContentService.RemoveFile(ctx.Request.Context(), id, req.FileURL)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// DeleteContent godoc
// @Summary Delete a content entry
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/content/{id} [delete]
func (c *ContentController) DeleteContent(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	if err := c.ContentService.Delete(id); err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Content deleted"})
}

func (c *ContentController) respondError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrContentNotFound) {
		util.NotFound(ctx, "Content not found")
		return
	}
	util.LogInternalError(ctx, err)
}
