package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Create(content *model.Content) error {
	return r.DB.Create(content).Error
}

func (r *ContentRepository) FindByID(id uint) (*model.Content, error) {
	var content model.Content
	err := r.DB.Preload("AssignedTo").First(&content, id).Error
	return &content, err
}

func (r *ContentRepository) FindByType(t model.ContentType) ([]model.Content, error) {
	var contents []model.Content
	err := r.DB.Preload("AssignedTo").
		Where("type = ?", t).
		Order("id").
		Find(&contents).Error
	return contents, err
}

func (r *ContentRepository) Update(content *model.Content) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(content).Error
}

func (r *ContentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Content{}, id).Error
}
