package service

import (
	"context"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MindmapService struct {
	Repo    *repository.MindmapRepository
	Storage *StorageService
}

func NewMindmapService(repo *repository.MindmapRepository, storage *StorageService) *MindmapService {
	return &MindmapService{Repo: repo, Storage: storage}
}

type RubricInput struct {
	Text string
	File string
}

type MindmapTaskInput struct {
	Title        string
	Instructions string
	Description  string
	Priority     model.Priority
	Rubric       []RubricInput
}

func (s *MindmapService) CreateTask(in MindmapTaskInput, createdByID uint) (*model.MindmapTask, error) {
	task := &model.MindmapTask{
		Title:        in.Title,
		Instructions: in.Instructions,
		Description:  in.Description,
		Priority:     in.Priority,
		CreatedByID:  createdByID,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	task.Rubric = rubricRows(in.Rubric)
	if err := s.Repo.CreateTask(task); err != nil {
		return nil, err
	}
	return s.Repo.FindTaskByID(task.ID)
}

func (s *MindmapService) GetTask(id uint) (*model.MindmapTask, error) {
	task, err := s.Repo.FindTaskByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *MindmapService) ListTasks() ([]model.MindmapTask, error) {
	return s.Repo.FindAllTasks()
}

// UpdateTask patches scalar fields and, when the payload carries a rubric,
// replaces the stored entries wholesale. Reference files the replacement
// dropped are cleaned from storage, warn-only like the delete path.
func (s *MindmapService) UpdateTask(ctx context.Context, id uint, in MindmapTaskInput) (*model.MindmapTask, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		task.Title = in.Title
	}
	if in.Instructions != "" {
		task.Instructions = in.Instructions
	}
	if in.Description != "" {
		task.Description = in.Description
	}
	if in.Priority != "" {
		task.Priority = in.Priority
	}

	// The rubric is replaced through a dedicated repo call, so the scalar
	// save must not resave the stale preloaded rows.
	oldRubric := task.Rubric
	task.Rubric = nil
	if err := s.Repo.UpdateTask(task); err != nil {
		return nil, err
	}

	if in.Rubric != nil {
		entries := rubricRows(in.Rubric)
		if err := s.Repo.ReplaceRubric(id, entries); err != nil {
			return nil, err
		}
		for _, ref := range staleRubricFiles(oldRubric, entries) {
			s.deleteBlob(ctx, ref)
		}
	}
	return s.Repo.FindTaskByID(id)
}

// UpdateStatus moves a mindmap task between work states.
func (s *MindmapService) UpdateStatus(id uint, status model.WorkStatus) (*model.MindmapTask, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	task.ApplyStatus(status)
	if err := s.Repo.UpdateTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

func rubricRows(in []RubricInput) []model.RubricEntry {
	rows := make([]model.RubricEntry, 0, len(in))
	for i, r := range in {
		rows = append(rows, model.RubricEntry{Text: r.Text, File: r.File, Position: i})
	}
	return rows
}

// staleRubricFiles lists reference files present in the old rubric but absent
// from its replacement.
func staleRubricFiles(old, replacement []model.RubricEntry) []string {
	kept := make(map[string]bool, len(replacement))
	for _, e := range replacement {
		if e.File != "" {
			kept[e.File] = true
		}
	}
	var stale []string
	for _, e := range old {
		if e.File != "" && !kept[e.File] {
			stale = append(stale, e.File)
		}
	}
	return stale
}

// DeleteTask removes the task, its submissions, and every blob they point at.
// Blob deletion failures are logged and do not block the delete.
func (s *MindmapService) DeleteTask(ctx context.Context, id uint) error {
	task, err := s.GetTask(id)
	if err != nil {
		return err
	}

	subs, err := s.Repo.FindSubmissionsByTask(id)
	if err != nil {
		return err
	}

	for _, entry := range task.Rubric {
		s.deleteBlob(ctx, entry.File)
	}
	for _, sub := range subs {
		s.deleteBlob(ctx, sub.AnswerPDF)
	}

	return s.Repo.DeleteTask(id)
}

func (s *MindmapService) deleteBlob(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	key, err := util.BlobKeyFromURL(ref)
	if err != nil {
		logger.Log.Warn("Skipping blob cleanup for unresolvable reference", zap.String("ref", ref))
		return
	}
	if err := s.Storage.Delete(ctx, key); err != nil {
		logger.Log.Warn("Blob cleanup failed", zap.String("key", key), zap.Error(err))
	}
}

// Submit stores a learner's single answer PDF for a mindmap task.
func (s *MindmapService) Submit(taskID, userID uint, answerPDF string) (*model.MindmapSubmission, error) {
	if _, err := s.GetTask(taskID); err != nil {
		return nil, err
	}
	if _, err := s.Repo.FindSubmissionByTaskAndUser(taskID, userID); err == nil {
		return nil, util.ErrAlreadySubmitted
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	sub := &model.MindmapSubmission{
		TaskID:    taskID,
		UserID:    userID,
		AnswerPDF: answerPDF,
	}
	if err := s.Repo.CreateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *MindmapService) GetSubmission(id uint) (*model.MindmapSubmission, error) {
	sub, err := s.Repo.FindSubmissionByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// GetSubmissionForUser returns the learner's own submission for a task.
func (s *MindmapService) GetSubmissionForUser(taskID, userID uint) (*model.MindmapSubmission, error) {
	sub, err := s.Repo.FindSubmissionByTaskAndUser(taskID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *MindmapService) ListSubmissionsByTask(taskID uint) ([]model.MindmapSubmission, error) {
	return s.Repo.FindSubmissionsByTask(taskID)
}

func (s *MindmapService) ListSubmissionsByUser(userID uint) ([]model.MindmapSubmission, error) {
	return s.Repo.FindSubmissionsByUser(userID)
}

func (s *MindmapService) GradeSubmission(id uint, score float64) (*model.MindmapSubmission, error) {
	sub, err := s.GetSubmission(id)
	if err != nil {
		return nil, err
	}
	sub.Score = &score
	if err := s.Repo.UpdateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}
