package service

import (
	"context"
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ContentService struct {
	Repo    *repository.ContentRepository
	Storage *StorageService
}

func NewContentService(repo *repository.ContentRepository, storage *StorageService) *ContentService {
	return &ContentService{Repo: repo, Storage: storage}
}

type ContentInput struct {
	Type        model.ContentType
	Title       string
	Term        string
	Body        string
	Description string
	Priority    model.Priority
	Files       []string
}

// Create validates the variant's required field: learning material needs a
// title, a glossary entry needs a term.
func (s *ContentService) Create(in ContentInput, createdByID uint) (*model.Content, error) {
	if _, err := model.ParseContentType(string(in.Type)); err != nil {
		return nil, err
	}
	switch in.Type {
	case model.ContentMaterial:
		if in.Title == "" {
			return nil, errors.New("title is required for learning material")
		}
	case model.ContentGlossary:
		if in.Term == "" {
			return nil, errors.New("term is required for a glossary entry")
		}
	}

	content := &model.Content{
		Type:        in.Type,
		Title:       in.Title,
		Term:        in.Term,
		Body:        in.Body,
		Description: in.Description,
		Priority:    in.Priority,
		Files:       in.Files,
		CreatedByID: createdByID,
	}
	if content.Priority == "" {
		content.Priority = model.PriorityMedium
	}
	if err := s.Repo.Create(content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ContentService) GetByID(id uint) (*model.Content, error) {
	content, err := s.Repo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}
	return content, nil
}

func (s *ContentService) ListByType(t model.ContentType) ([]model.Content, error) {
	if _, err := model.ParseContentType(string(t)); err != nil {
		return nil, err
	}
	return s.Repo.FindByType(t)
}

func (s *ContentService) Update(id uint, in ContentInput) (*model.Content, error) {
	content, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		content.Title = in.Title
	}
	if in.Term != "" {
		content.Term = in.Term
	}
	if in.Body != "" {
		content.Body = in.Body
	}
	if in.Description != "" {
		content.Description = in.Description
	}
	if in.Priority != "" {
		content.Priority = in.Priority
	}
	if in.Files != nil {
		content.Files = in.Files
	}
	if err := s.Repo.Update(content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ContentService) UpdateStatus(id uint, status model.WorkStatus) (*model.Content, error) {
	content, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	content.Status = status
	if err := s.Repo.Update(content); err != nil {
		return nil, err
	}
	return content, nil
}

// RemoveFile detaches one stored file from the content row and deletes its
// blob. A missing blob is logged, not fatal.
func (s *ContentService) RemoveFile(ctx context.Context, id uint, fileURL string) (*model.Content, error) {
	content, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	files := content.Files[:0]
	found := false
	for _, f := range content.Files {
		if f == fileURL {
			found = true
			continue
		}
		files = append(files, f)
	}
	if !found {
		return nil, errors.New("file is not attached to this content")
	}
	content.Files = files

	if key, err := util.BlobKeyFromURL(fileURL); err == nil {
		if err := s.Storage.Delete(ctx, key); err != nil {
			logger.Log.Warn("Blob cleanup failed", zap.String("key", key), zap.Error(err))
		}
	}

	if err := s.Repo.Update(content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ContentService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
