package model

import "time"

type UserRole string

const (
	Admin  UserRole = "admin"
	Member UserRole = "member"
)

// swagger:model User
type User struct {
	BaseModel
	Name            string   `gorm:"size:100" json:"name"`
	NIM             string   `gorm:"size:50" json:"nim"`
	Offering        string   `gorm:"size:100" json:"offering"`
	Email           string   `gorm:"size:100;unique;not null" json:"email"`
	Username        string   `gorm:"size:100;unique;not null" json:"username"`
	Password        string   `gorm:"size:100;not null" json:"-"`
	ProfileImageURL string   `gorm:"size:255" json:"profileImageUrl"`
	Role            UserRole `gorm:"type:enum('admin','member');default:'member'" json:"role"`
	Institution     string   `gorm:"size:255" json:"institution"`

	ResetPasswordToken   string     `gorm:"size:64;index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
