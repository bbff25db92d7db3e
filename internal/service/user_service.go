package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	TaskRepo *repository.TaskRepository
}

func NewUserService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository) *UserService {
	return &UserService{UserRepo: userRepo, TaskRepo: taskRepo}
}

// MemberWithTaskCounts is a member plus their per-status task tallies.
type MemberWithTaskCounts struct {
	model.User
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// ListMembers returns all member accounts with how many of their assigned
// tasks sit in each status.
func (s *UserService) ListMembers() ([]MemberWithTaskCounts, error) {
	users, err := s.UserRepo.FindByRole(model.Member)
	if err != nil {
		return nil, err
	}

	members := make([]MemberWithTaskCounts, 0, len(users))
	for _, u := range users {
		counts, err := s.TaskRepo.CountByStatus(u.ID)
		if err != nil {
			return nil, err
		}
		members = append(members, MemberWithTaskCounts{
			User:            u,
			PendingTasks:    counts[model.StatusPending],
			InProgressTasks: counts[model.StatusInProgress],
			CompletedTasks:  counts[model.StatusCompleted],
		})
	}
	return members, nil
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(id uint, updates map[string]interface{}) (*model.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["name"].(string); ok {
		user.Name = v
	}
	if v, ok := updates["nim"].(string); ok {
		user.NIM = v
	}
	if v, ok := updates["offering"].(string); ok {
		user.Offering = v
	}
	if v, ok := updates["institution"].(string); ok {
		user.Institution = v
	}
	if v, ok := updates["profileImageUrl"].(string); ok {
		user.ProfileImageURL = v
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.UserRepo.Delete(id)
}
