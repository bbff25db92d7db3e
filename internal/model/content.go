package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// ContentType discriminates the two content variants: learning material
// (requires a title) and glossary entry (requires a term).
type ContentType string

const (
	ContentMaterial ContentType = "materi"
	ContentGlossary ContentType = "glosarium"
)

func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentMaterial, ContentGlossary:
		return ContentType(s), nil
	}
	return "", fmt.Errorf("invalid content type %q", s)
}

// swagger:model Content
type Content struct {
	BaseModel
	Type        ContentType `gorm:"size:20;index;not null" json:"type"`
	Title       string      `gorm:"size:255" json:"title,omitempty"`
	Term        string      `gorm:"size:255" json:"term,omitempty"`
	Body        string      `gorm:"column:content;type:text;not null" json:"content"`
	Description string      `gorm:"type:text" json:"description"`
	Priority    Priority    `gorm:"size:10;default:'Medium'" json:"priority"`
	Status      WorkStatus  `gorm:"size:20;default:'Pending'" json:"status"`
	DueDate     *time.Time  `json:"dueDate"`

	AssignedTo    []User                          `gorm:"many2many:content_assignees" json:"assignedTo"`
	Attachments   datatypes.JSONSlice[Attachment] `json:"attachments"`
	TodoChecklist datatypes.JSONSlice[TodoItem]   `json:"todoChecklist"`
	Files         datatypes.JSONSlice[string]     `json:"files"`

	CreatedByID uint  `json:"createdById"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

func (Content) TableName() string {
	return "contents"
}
