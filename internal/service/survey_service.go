package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type SurveyService struct {
	Repo *repository.SurveyRepository
}

func NewSurveyService(repo *repository.SurveyRepository) *SurveyService {
	return &SurveyService{Repo: repo}
}

func (s *SurveyService) Create(survey *model.Survey) error {
	return s.Repo.Create(survey)
}

func (s *SurveyService) GetByID(id uint) (*model.Survey, error) {
	survey, err := s.Repo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSurveyNotFound
		}
		return nil, err
	}
	return survey, nil
}

func (s *SurveyService) List(kind string) ([]model.Survey, error) {
	return s.Repo.FindAll(kind)
}

func (s *SurveyService) ListByUser(userID uint) ([]model.Survey, error) {
	return s.Repo.FindByUser(userID)
}

func (s *SurveyService) Update(id uint, kind string, value *float64) (*model.Survey, error) {
	survey, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if kind != "" {
		survey.Kind = kind
	}
	if value != nil {
		survey.Value = *value
	}
	if err := s.Repo.Update(survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *SurveyService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
