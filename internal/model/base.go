package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UUIDBase is used for rows addressed by a stable string identifier, such as
// questions that answers reference by id.
// swagger:model
type UUIDBase struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *UUIDBase) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type WorkStatus string

const (
	StatusPending    WorkStatus = "Pending"
	StatusInProgress WorkStatus = "In Progress"
	StatusCompleted  WorkStatus = "Completed"
)

// TodoItem is a checklist entry embedded in tasks and contents.
type TodoItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Attachment is a named link embedded in tasks and contents.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
