package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// TaskKind is the closed set of task variants. The wire values match the
// path segments the API has always used.
type TaskKind string

const (
	TaskRegular    TaskKind = "regular"
	TaskPretest    TaskKind = "pretest"
	TaskPosttest   TaskKind = "postest"
	TaskProblem    TaskKind = "problem"
	TaskReflection TaskKind = "refleksi"
	TaskLO         TaskKind = "lo"
	TaskKBK        TaskKind = "kbk"
)

// ParseTaskKind validates a kind coming in from a route or payload.
func ParseTaskKind(s string) (TaskKind, error) {
	switch TaskKind(s) {
	case TaskRegular, TaskPretest, TaskPosttest, TaskProblem, TaskReflection, TaskLO, TaskKBK:
		return TaskKind(s), nil
	}
	return "", fmt.Errorf("invalid task kind %q", s)
}

// GradedByTotalScore reports whether a kind is graded with a single score
// plus explanation and feedback file, instead of per-question scores.
func (k TaskKind) GradedByTotalScore() bool {
	return k == TaskLO || k == TaskKBK
}

// swagger:model Task
type Task struct {
	BaseModel
	Title       string     `gorm:"size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Kind        TaskKind   `gorm:"size:20;index;default:'regular'" json:"kind"`
	Priority    Priority   `gorm:"size:10;default:'Medium'" json:"priority"`
	Status      WorkStatus `gorm:"size:20;default:'Pending'" json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	Progress    int        `gorm:"default:0" json:"progress"`

	AssignedTo  []User `gorm:"many2many:task_assignees" json:"assignedTo"`
	CreatedByID uint   `json:"createdById"`
	CreatedBy   *User  `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`

	Attachments   datatypes.JSONSlice[string]   `json:"attachments"`
	TodoChecklist datatypes.JSONSlice[TodoItem] `json:"todoChecklist"`

	EssayQuestions          []EssayQuestion          `gorm:"foreignKey:TaskID" json:"essayQuestions"`
	MultipleChoiceQuestions []MultipleChoiceQuestion `gorm:"foreignKey:TaskID" json:"multipleChoiceQuestions"`
	Problems                []ProblemPrompt          `gorm:"foreignKey:TaskID" json:"problem"`
}

func (Task) TableName() string {
	return "tasks"
}

// ApplyStatus sets the status. Completing a task forces full progress and
// checks every checklist item.
func (t *Task) ApplyStatus(status WorkStatus) {
	t.Status = status
	if status != StatusCompleted {
		return
	}
	t.Progress = 100
	for i := range t.TodoChecklist {
		t.TodoChecklist[i].Completed = true
	}
}

// CompletedTodoCount counts checked checklist items.
func (t *Task) CompletedTodoCount() int {
	n := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			n++
		}
	}
	return n
}

// swagger:model EssayQuestion
type EssayQuestion struct {
	UUIDBase
	TaskID   uint   `gorm:"index" json:"taskId"`
	Question string `gorm:"type:text" json:"question"`
	Position int    `json:"position"`
}

// swagger:model MultipleChoiceQuestion
type MultipleChoiceQuestion struct {
	UUIDBase
	TaskID   uint                        `gorm:"index" json:"taskId"`
	Question string                      `gorm:"type:text" json:"question"`
	Options  datatypes.JSONSlice[string] `json:"options"`
	// Answer is the correct option. Stripped from responses and from storage
	// for LO/KBK tasks, which have no single correct answer.
	Answer   string `gorm:"size:255" json:"answer,omitempty"`
	Position int    `json:"position"`
}

// ProblemPrompt is one group-problem statement on a problem task. Each prompt
// gets its own discussion group when the task is created.
// swagger:model ProblemPrompt
type ProblemPrompt struct {
	UUIDBase
	TaskID   uint   `gorm:"index" json:"taskId"`
	Problem  string `gorm:"type:text" json:"problem"`
	GroupID  *uint  `json:"groupId"`
	Position int    `json:"position"`
}
