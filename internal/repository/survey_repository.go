package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type SurveyRepository struct {
	DB *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{DB: db}
}

func (r *SurveyRepository) Create(survey *model.Survey) error {
	return r.DB.Create(survey).Error
}

func (r *SurveyRepository) FindByID(id uint) (*model.Survey, error) {
	var survey model.Survey
	err := r.DB.Preload("User").First(&survey, id).Error
	return &survey, err
}

func (r *SurveyRepository) FindAll(kind string) ([]model.Survey, error) {
	q := r.DB.Preload("User").Order("id")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var surveys []model.Survey
	err := q.Find(&surveys).Error
	return surveys, err
}

func (r *SurveyRepository) FindByUser(userID uint) ([]model.Survey, error) {
	var surveys []model.Survey
	err := r.DB.Where("user_id = ?", userID).Order("id").Find(&surveys).Error
	return surveys, err
}

func (r *SurveyRepository) Update(survey *model.Survey) error {
	return r.DB.Save(survey).Error
}

func (r *SurveyRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Survey{}, id).Error
}
