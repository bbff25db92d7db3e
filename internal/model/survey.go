package model

// Survey is one per-user survey score, optionally tied to a task.
// swagger:model Survey
type Survey struct {
	BaseModel
	UserID uint    `gorm:"index;not null" json:"userId"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Kind   string  `gorm:"size:50;not null" json:"typeSurvei"`
	Value  float64 `gorm:"not null" json:"nilai"`
	TaskID *uint   `json:"taskId"`
}

func (Survey) TableName() string {
	return "surveys"
}
