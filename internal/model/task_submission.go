package model

import "time"

// TaskSubmission is a learner's answer set for one task. A learner submits at
// most once per task, enforced by the composite unique index.
// swagger:model TaskSubmission
type TaskSubmission struct {
	BaseModel
	TaskID uint  `gorm:"uniqueIndex:idx_submission_task_user;not null" json:"taskId"`
	Task   *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID uint  `gorm:"uniqueIndex:idx_submission_task_user;not null" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	EssayAnswers          []EssayAnswer          `gorm:"foreignKey:SubmissionID" json:"essayAnswers"`
	MultipleChoiceAnswers []MultipleChoiceAnswer `gorm:"foreignKey:SubmissionID" json:"multipleChoiceAnswers"`
	ProblemAnswers        []ProblemAnswer        `gorm:"foreignKey:SubmissionID" json:"problemAnswer"`

	// Score is nil until the submission has been graded. Ungraded
	// submissions are excluded from averages, not counted as zero.
	Score        *float64  `json:"score"`
	Explanation  string    `gorm:"type:text" json:"explanation"`
	FeedbackFile string    `gorm:"size:512" json:"feedbackFile"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

func (TaskSubmission) TableName() string {
	return "task_submissions"
}

// swagger:model EssayAnswer
type EssayAnswer struct {
	BaseModel
	SubmissionID uint     `gorm:"index" json:"submissionId"`
	QuestionID   string   `gorm:"size:36;index" json:"questionId"`
	Answer       string   `gorm:"type:text" json:"answer"`
	Score        *float64 `json:"score"`
}

// swagger:model MultipleChoiceAnswer
type MultipleChoiceAnswer struct {
	BaseModel
	SubmissionID   uint   `gorm:"index" json:"submissionId"`
	QuestionID     string `gorm:"size:36;index" json:"questionId"`
	SelectedOption string `gorm:"size:255" json:"selectedOption"`
}

// swagger:model ProblemAnswer
type ProblemAnswer struct {
	BaseModel
	SubmissionID uint   `gorm:"index" json:"submissionId"`
	QuestionID   string `gorm:"size:36;index" json:"questionId"`
	Answer       string `gorm:"type:text" json:"problem"`
	GroupID      *uint  `json:"groupId"`
}
