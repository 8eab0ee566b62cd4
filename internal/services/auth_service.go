// internal/services/auth_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/config"
	"github.com/demotrack/demotrack-backend/internal/models"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	activity *ActivityService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, activity *ActivityService) *AuthService {
	return &AuthService{db: db, cfg: cfg, activity: activity}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Member    *models.TeamMember `json:"member"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

// Login authenticates an active team member and issues a JWT. Inactive
// members are refused even with correct credentials.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var member models.TeamMember
	if err := s.db.Where("email = ?", email).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("invalid email or password")
		}
		return nil, apperrors.Store(err)
	}

	if err := member.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Validation("invalid email or password")
	}
	if member.Status != models.MemberStatusActive {
		return nil, apperrors.PolicyViolation("account is deactivated")
	}

	token, err := utils.GenerateJWT(member.ID, member.Email, string(member.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.Store(err)
	}

	now := time.Now()
	if err := s.db.Model(&member).Update("last_login_at", now).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	member.LastLoginAt = &now

	s.activity.Recordf("Login", member.Email, "TeamMember", &member.ID,
		"%s logged in", member.FullName())

	return &LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(s.cfg.JWT.AccessTokenTTL) * time.Hour),
		Member:    &member,
	}, nil
}

// Me returns the authenticated member's profile.
func (s *AuthService) Me(userID uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := s.db.First(&member, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("team member")
		}
		return nil, apperrors.Store(err)
	}
	return &member, nil
}

func (s *AuthService) ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	member, err := s.Me(userID)
	if err != nil {
		return err
	}

	if err := member.CheckPassword(req.CurrentPassword); err != nil {
		return apperrors.Validation("current password is incorrect")
	}

	if err := member.SetPassword(req.NewPassword); err != nil {
		return apperrors.Store(err)
	}
	if err := s.db.Model(member).Update("password_hash", member.PasswordHash).Error; err != nil {
		return apperrors.Store(err)
	}

	s.activity.Recordf("Change Password", member.Email, "TeamMember", &member.ID,
		"%s changed their password", member.FullName())

	return nil
}
