package model

import (
	"time"

	"gorm.io/datatypes"
)

// swagger:model MindmapTask
type MindmapTask struct {
	BaseModel
	Title        string     `gorm:"size:255" json:"title"`
	Instructions string     `gorm:"type:text;not null" json:"instructions"`
	Description  string     `gorm:"type:text" json:"description"`
	Priority     Priority   `gorm:"size:10;default:'Medium'" json:"priority"`
	Status       WorkStatus `gorm:"size:20;default:'Pending'" json:"status"`
	DueDate      *time.Time `json:"dueDate"`
	Progress     int        `gorm:"default:0" json:"progress"`

	Attachments   datatypes.JSONSlice[Attachment] `json:"attachments"`
	TodoChecklist datatypes.JSONSlice[TodoItem]   `json:"todoChecklist"`

	Rubric []RubricEntry `gorm:"foreignKey:MindmapTaskID" json:"rubric"`

	CreatedByID uint  `json:"createdById"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

func (MindmapTask) TableName() string {
	return "mindmap_tasks"
}

// ApplyStatus sets the status. Completing a task forces full progress and
// checks every checklist item.
func (t *MindmapTask) ApplyStatus(status WorkStatus) {
	t.Status = status
	if status != StatusCompleted {
		return
	}
	t.Progress = 100
	for i := range t.TodoChecklist {
		t.TodoChecklist[i].Completed = true
	}
}

// RubricEntry is one grading criterion on a mindmap task, optionally backed by
// a reference document in blob storage.
// swagger:model RubricEntry
type RubricEntry struct {
	BaseModel
	MindmapTaskID uint   `gorm:"index" json:"mindmapTaskId"`
	Text          string `gorm:"type:text" json:"text"`
	File          string `gorm:"size:512" json:"file"`
	Position      int    `json:"position"`
}

// MindmapSubmission is a learner's single uploaded answer PDF for a mindmap
// task.
// swagger:model MindmapSubmission
type MindmapSubmission struct {
	BaseModel
	TaskID uint         `gorm:"uniqueIndex:idx_mindmap_task_user;not null" json:"taskId"`
	Task   *MindmapTask `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID uint         `gorm:"uniqueIndex:idx_mindmap_task_user;not null" json:"userId"`
	User   *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`

	AnswerPDF string   `gorm:"size:512;not null" json:"answerPdf"`
	Score     *float64 `json:"score"`
}

func (MindmapSubmission) TableName() string {
	return "mindmap_submissions"
}
