package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type TaskSubmissionRepository struct {
	DB *gorm.DB
}

func NewTaskSubmissionRepository(db *gorm.DB) *TaskSubmissionRepository {
	return &TaskSubmissionRepository{DB: db}
}

func (r *TaskSubmissionRepository) Create(sub *model.TaskSubmission) error {
	return r.DB.Create(sub).Error
}

func (r *TaskSubmissionRepository) FindByID(id uint) (*model.TaskSubmission, error) {
	var sub model.TaskSubmission
	err := r.preloadAnswers(r.DB).Preload("User").First(&sub, id).Error
	return &sub, err
}

func (r *TaskSubmissionRepository) FindByTaskAndUser(taskID, userID uint) (*model.TaskSubmission, error) {
	var sub model.TaskSubmission
	err := r.preloadAnswers(r.DB).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&sub).Error
	return &sub, err
}

// FindByUser returns a learner's submissions in insertion order, each with its
// parent task and the task's question lists. The portfolio aggregator depends
// on this ordering staying stable across calls.
func (r *TaskSubmissionRepository) FindByUser(userID uint) ([]model.TaskSubmission, error) {
	var subs []model.TaskSubmission
	err := r.preloadAnswers(r.DB).
		Preload("Task").
		Preload("Task.EssayQuestions", orderByPosition).
		Preload("Task.MultipleChoiceQuestions", orderByPosition).
		Preload("Task.Problems", orderByPosition).
		Where("user_id = ?", userID).
		Order("id").
		Find(&subs).Error
	return subs, err
}

func (r *TaskSubmissionRepository) FindByTask(taskID uint) ([]model.TaskSubmission, error) {
	var subs []model.TaskSubmission
	err := r.preloadAnswers(r.DB).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("id").
		Find(&subs).Error
	return subs, err
}

func (r *TaskSubmissionRepository) FindByUserAndKind(userID uint, kind model.TaskKind) ([]model.TaskSubmission, error) {
	var subs []model.TaskSubmission
	err := r.preloadAnswers(r.DB).
		Preload("Task").
		Joins("JOIN tasks ON tasks.id = task_submissions.task_id").
		Where("task_submissions.user_id = ? AND tasks.kind = ?", userID, kind).
		Order("task_submissions.id").
		Find(&subs).Error
	return subs, err
}

func (r *TaskSubmissionRepository) Update(sub *model.TaskSubmission) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(sub).Error
}

func (r *TaskSubmissionRepository) preloadAnswers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("EssayAnswers").
		Preload("MultipleChoiceAnswers").
		Preload("ProblemAnswers")
}
