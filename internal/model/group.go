package model

// Group is a discussion room. Problem tasks create one per problem prompt.
// swagger:model Group
type Group struct {
	BaseModel
	Name       string `gorm:"size:255;not null" json:"name"`
	Members    []User `gorm:"many2many:group_members" json:"members"`
	GroupImage string `gorm:"size:512" json:"groupImage"`
	TaskID     *uint  `json:"taskId"`
	ProblemID  string `gorm:"size:36;index" json:"problemId"`
}

func (Group) TableName() string {
	return "groups"
}

// swagger:model GroupMessage
type GroupMessage struct {
	BaseModel
	GroupID  uint   `gorm:"index;not null" json:"groupId"`
	SenderID uint   `gorm:"not null" json:"senderId"`
	Sender   *User  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Message  string `gorm:"type:text" json:"message"`
	Image    string `gorm:"size:512" json:"image"`
}

func (GroupMessage) TableName() string {
	return "group_messages"
}
