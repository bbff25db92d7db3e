package controller

import (
	"bytes"
	"io"
	"mime/multipart"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	Storage *service.StorageService
}

func NewUploadController(storage *service.StorageService) *UploadController {
	return &UploadController{Storage: storage}
}

// Upload godoc
// @Summary Upload a file
// @Description Accepts PDF, JPEG, and PNG. Returns the stored file's URL.
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/upload [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := storeUpload(ctx, c.Storage, fileHeader, util.UploadMimeTypes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, gin.H{"url": url})
}

// storeUpload sniffs the upload's MIME type against the allowlist and writes
// it to blob storage under a timestamped key.
func storeUpload(ctx *gin.Context, storage *service.StorageService, fileHeader *multipart.FileHeader, allowedTypes []string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	contentType, err := util.ValidateMimeType(bytes.NewReader(data), allowedTypes)
	if err != nil {
		return "", err
	}

	filename := util.UploadFilename(fileHeader.Filename)
	return storage.Upload(ctx.Request.Context(), filename, bytes.NewReader(data), int64(len(data)), contentType)
}
