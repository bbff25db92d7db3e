package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(task *model.Task) error {
	return r.DB.Create(task).Error
}

func (r *TaskRepository) FindByID(id uint) (*model.Task, error) {
	var task model.Task
	err := r.DB.
		Preload("AssignedTo").
		Preload("EssayQuestions", orderByPosition).
		Preload("MultipleChoiceQuestions", orderByPosition).
		Preload("Problems", orderByPosition).
		First(&task, id).Error
	return &task, err
}

func (r *TaskRepository) FindAll(kind model.TaskKind, status model.WorkStatus) ([]model.Task, error) {
	q := r.DB.Preload("AssignedTo").Order("id")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []model.Task
	err := q.Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindByAssignee(userID uint, kind model.TaskKind) ([]model.Task, error) {
	q := r.DB.
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID).
		Preload("AssignedTo").
		Preload("EssayQuestions", orderByPosition).
		Preload("MultipleChoiceQuestions", orderByPosition).
		Preload("Problems", orderByPosition).
		Order("tasks.id")
	if kind != "" {
		q = q.Where("tasks.kind = ?", kind)
	}
	var tasks []model.Task
	err := q.Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Update(task *model.Task) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(task).Error
}

func (r *TaskRepository) ReplaceAssignees(task *model.Task, users []model.User) error {
	return r.DB.Model(task).Association("AssignedTo").Replace(users)
}

// ReplaceEssayQuestions swaps a task's essay question set in one transaction.
// An empty set just deletes the existing questions.
func (r *TaskRepository) ReplaceEssayQuestions(taskID uint, questions []model.EssayQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&model.EssayQuestion{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].TaskID = taskID
		}
		return tx.Create(&questions).Error
	})
}

func (r *TaskRepository) ReplaceMultipleChoiceQuestions(taskID uint, questions []model.MultipleChoiceQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&model.MultipleChoiceQuestion{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].TaskID = taskID
		}
		return tx.Create(&questions).Error
	})
}

func (r *TaskRepository) ReplaceProblems(taskID uint, problems []model.ProblemPrompt) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&model.ProblemPrompt{}).Error; err != nil {
			return err
		}
		if len(problems) == 0 {
			return nil
		}
		for i := range problems {
			problems[i].TaskID = taskID
		}
		return tx.Create(&problems).Error
	})
}

func (r *TaskRepository) UpdateProblemGroup(problemID string, groupID uint) error {
	return r.DB.Model(&model.ProblemPrompt{}).
		Where("id = ?", problemID).
		Update("group_id", groupID).Error
}

func (r *TaskRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Task{}, id).Error
}

// CountByStatus aggregates task counts per status, optionally scoped to one
// assignee. Used by the dashboards.
func (r *TaskRepository) CountByStatus(userID uint) (map[model.WorkStatus]int64, error) {
	type row struct {
		Status model.WorkStatus
		Count  int64
	}
	q := r.DB.Model(&model.Task{}).Select("status, COUNT(*) AS count").Group("status")
	if userID != 0 {
		q = q.Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
			Where("task_assignees.user_id = ?", userID)
	}
	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.WorkStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *TaskRepository) CountByPriority(userID uint) (map[model.Priority]int64, error) {
	type row struct {
		Priority model.Priority
		Count    int64
	}
	q := r.DB.Model(&model.Task{}).Select("priority, COUNT(*) AS count").Group("priority")
	if userID != 0 {
		q = q.Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
			Where("task_assignees.user_id = ?", userID)
	}
	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.Priority]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Priority] = rw.Count
	}
	return counts, nil
}

func (r *TaskRepository) CountOverdue(userID uint) (int64, error) {
	q := r.DB.Model(&model.Task{}).
		Where("status <> ? AND due_date IS NOT NULL AND due_date < NOW()", model.StatusCompleted)
	if userID != 0 {
		q = q.Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
			Where("task_assignees.user_id = ?", userID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *TaskRepository) FindRecent(userID uint, limit int) ([]model.Task, error) {
	q := r.DB.Order("tasks.created_at DESC").Limit(limit)
	if userID != 0 {
		q = q.Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
			Where("task_assignees.user_id = ?", userID)
	}
	var tasks []model.Task
	err := q.Find(&tasks).Error
	return tasks, err
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
