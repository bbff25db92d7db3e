package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type MindmapRepository struct {
	DB *gorm.DB
}

func NewMindmapRepository(db *gorm.DB) *MindmapRepository {
	return &MindmapRepository{DB: db}
}

func (r *MindmapRepository) CreateTask(task *model.MindmapTask) error {
	return r.DB.Create(task).Error
}

func (r *MindmapRepository) FindTaskByID(id uint) (*model.MindmapTask, error) {
	var task model.MindmapTask
	err := r.DB.Preload("Rubric", orderByPosition).First(&task, id).Error
	return &task, err
}

func (r *MindmapRepository) FindAllTasks() ([]model.MindmapTask, error) {
	var tasks []model.MindmapTask
	err := r.DB.Preload("Rubric", orderByPosition).Order("id").Find(&tasks).Error
	return tasks, err
}

func (r *MindmapRepository) UpdateTask(task *model.MindmapTask) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(task).Error
}

// ReplaceRubric swaps a task's rubric entry set in one transaction. An empty
// set just deletes the existing entries.
func (r *MindmapRepository) ReplaceRubric(taskID uint, entries []model.RubricEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mindmap_task_id = ?", taskID).Delete(&model.RubricEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].MindmapTaskID = taskID
		}
		return tx.Create(&entries).Error
	})
}

func (r *MindmapRepository) DeleteTask(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mindmap_task_id = ?", id).Delete(&model.RubricEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.MindmapSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.MindmapTask{}, id).Error
	})
}

func (r *MindmapRepository) CreateSubmission(sub *model.MindmapSubmission) error {
	return r.DB.Create(sub).Error
}

func (r *MindmapRepository) FindSubmissionByID(id uint) (*model.MindmapSubmission, error) {
	var sub model.MindmapSubmission
	err := r.DB.Preload("Task").Preload("User").First(&sub, id).Error
	return &sub, err
}

func (r *MindmapRepository) FindSubmissionByTaskAndUser(taskID, userID uint) (*model.MindmapSubmission, error) {
	var sub model.MindmapSubmission
	err := r.DB.Where("task_id = ? AND user_id = ?", taskID, userID).First(&sub).Error
	return &sub, err
}

// FindSubmissionsByUser returns a learner's mindmap submissions in insertion
// order, each with its parent task and rubric. Ordering matters to the
// portfolio aggregator.
func (r *MindmapRepository) FindSubmissionsByUser(userID uint) ([]model.MindmapSubmission, error) {
	var subs []model.MindmapSubmission
	err := r.DB.
		Preload("Task").
		Preload("Task.Rubric", orderByPosition).
		Where("user_id = ?", userID).
		Order("id").
		Find(&subs).Error
	return subs, err
}

func (r *MindmapRepository) FindSubmissionsByTask(taskID uint) ([]model.MindmapSubmission, error) {
	var subs []model.MindmapSubmission
	err := r.DB.Preload("User").Where("task_id = ?", taskID).Order("id").Find(&subs).Error
	return subs, err
}

func (r *MindmapRepository) UpdateSubmission(sub *model.MindmapSubmission) error {
	return r.DB.Save(sub).Error
}
