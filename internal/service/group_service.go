package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type GroupService struct {
	Repo     *repository.GroupRepository
	UserRepo *repository.UserRepository
}

func NewGroupService(repo *repository.GroupRepository, userRepo *repository.UserRepository) *GroupService {
	return &GroupService{Repo: repo, UserRepo: userRepo}
}

func (s *GroupService) GetByID(id uint) (*model.Group, error) {
	group, err := s.Repo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

// List returns every group for admins, or only the caller's groups for
// members.
func (s *GroupService) List(userID uint, role model.UserRole) ([]model.Group, error) {
	if role == model.Admin {
		return s.Repo.FindAll()
	}
	return s.Repo.FindByMember(userID)
}

func (s *GroupService) IsMember(groupID, userID uint) (bool, error) {
	return s.Repo.IsMember(groupID, userID)
}

func (s *GroupService) Messages(groupID uint) ([]model.GroupMessage, error) {
	if _, err := s.GetByID(groupID); err != nil {
		return nil, err
	}
	return s.Repo.FindMessages(groupID)
}

// SaveMessage persists a chat message and returns it with the sender loaded.
func (s *GroupService) SaveMessage(groupID, senderID uint, text, image string) (*model.GroupMessage, error) {
	msg := &model.GroupMessage{
		GroupID:  groupID,
		SenderID: senderID,
		Message:  text,
		Image:    image,
	}
	if err := s.Repo.CreateMessage(msg); err != nil {
		return nil, err
	}
	sender, err := s.UserRepo.FindByID(senderID)
	if err == nil {
		msg.Sender = sender
	}
	return msg, nil
}

func (s *GroupService) Update(id uint, name, groupImage string) (*model.Group, error) {
	group, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		group.Name = name
	}
	if groupImage != "" {
		group.GroupImage = groupImage
	}
	if err := s.Repo.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
