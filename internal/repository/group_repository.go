package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(group *model.Group) error {
	return r.DB.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.Preload("Members").First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) FindAll() ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.Preload("Members").Order("id").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) FindByMember(userID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Preload("Members").
		Order("groups.id").
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var n int64
	err := r.DB.Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *GroupRepository) Update(group *model.Group) error {
	return r.DB.Save(group).Error
}

func (r *GroupRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, id).Error
	})
}

func (r *GroupRepository) CreateMessage(msg *model.GroupMessage) error {
	return r.DB.Create(msg).Error
}

func (r *GroupRepository) FindMessages(groupID uint) ([]model.GroupMessage, error) {
	var msgs []model.GroupMessage
	err := r.DB.Preload("Sender").
		Where("group_id = ?", groupID).
		Order("id").
		Find(&msgs).Error
	return msgs, err
}
