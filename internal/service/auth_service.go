package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/mailer"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = 15 * time.Minute

type AuthService struct {
	UserRepo *repository.UserRepository
	Mailer   mailer.Mailer
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, m mailer.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Mailer:   m,
		Cfg:      cfg,
	}
}

// Register creates an account. Supplying the admin invite token promotes the
// account to admin; otherwise it is a member.
func (s *AuthService) Register(user *model.User, inviteToken string) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	user.Role = model.Member
	if inviteToken != "" && inviteToken == s.Cfg.JWT.AdminInviteToken {
		user.Role = model.Admin
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil
	}
	return user
}

func (s *AuthService) UpdateProfile(userID uint, name, profileImageURL string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if name != "" {
		user.Name = name
	}
	if profileImageURL != "" {
		user.ProfileImageURL = profileImageURL
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword issues a one-time reset token: the raw token goes out by
// mail, only its SHA-256 hash is stored, and it expires after 15 minutes.
// An unknown email is reported to the caller as not found.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := hex.EncodeToString(raw)

	hash := sha256.Sum256([]byte(token))
	expires := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = hex.EncodeToString(hash[:])
	user.ResetPasswordExpires = &expires
	if err := s.UserRepo.Update(user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.Cfg.Mail.ResetPasswordOrigin, token)
	return s.Mailer.Send(mailer.Message{
		To:      user.Email,
		Subject: "Password Reset Request",
		HTML: fmt.Sprintf(
			"<p>You requested a password reset.</p><p><a href=%q>Reset your password</a> within 15 minutes.</p>",
			resetURL),
		Text: "Reset your password within 15 minutes: " + resetURL,
	})
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	hash := sha256.Sum256([]byte(token))
	user, err := s.UserRepo.FindByResetToken(hex.EncodeToString(hash[:]))
	if err != nil {
		return util.ErrResetTokenInvalid
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	return s.UserRepo.Update(user)
}
