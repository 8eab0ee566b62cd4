// internal/services/team_service.go
package services

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/models"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

// TeamService manages team members: the people who can log in and be
// responsible for loans.
type TeamService struct {
	db       *gorm.DB
	activity *ActivityService
	storage  *StorageService
}

func NewTeamService(db *gorm.DB, activity *ActivityService, storage *StorageService) *TeamService {
	return &TeamService{db: db, activity: activity, storage: storage}
}

type CreateMemberRequest struct {
	FirstName string          `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string          `json:"last_name" validate:"required,min=1,max=100"`
	Email     string          `json:"email" validate:"required,email"`
	Role      models.TeamRole `json:"role" validate:"omitempty,oneof=member admin"`
	Password  string          `json:"password" validate:"omitempty,strong_password"`
}

type UpdateMemberRequest struct {
	FirstName *string              `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string              `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email     *string              `json:"email" validate:"omitempty,email"`
	Role      *models.TeamRole     `json:"role" validate:"omitempty,oneof=member admin"`
	Status    *models.MemberStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CreatedMember carries the generated password back to the caller exactly
// once, when no password was supplied on creation.
type CreatedMember struct {
	Member            *models.TeamMember `json:"member"`
	TemporaryPassword string             `json:"temporary_password,omitempty"`
}

func (s *TeamService) CreateMember(actorEmail string, req *CreateMemberRequest) (*CreatedMember, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&models.TeamMember{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if count > 0 {
		return nil, apperrors.Duplicate("a team member with email %s already exists", email)
	}

	role := req.Role
	if role == "" {
		role = models.TeamRoleMember
	}

	password := req.Password
	tempPassword := ""
	if password == "" {
		generated, err := utils.GenerateTemporaryPassword()
		if err != nil {
			return nil, apperrors.Store(err)
		}
		tempPassword = generated
		password = generated
	}

	member := &models.TeamMember{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Role:      role,
		Status:    models.MemberStatusActive,
	}
	if err := member.SetPassword(password); err != nil {
		return nil, apperrors.Store(err)
	}

	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	s.activity.Recordf("Create Member", actorEmail, "TeamMember", &member.ID,
		"Added team member %s (%s)", member.FullName(), member.Email)

	return &CreatedMember{Member: member, TemporaryPassword: tempPassword}, nil
}

func (s *TeamService) GetMember(id uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("team member")
		}
		return nil, apperrors.Store(err)
	}
	return &member, nil
}

func (s *TeamService) UpdateMember(id uuid.UUID, actorEmail string, req *UpdateMemberRequest) (*models.TeamMember, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	member, err := s.GetMember(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != member.Email {
			var count int64
			if err := s.db.Model(&models.TeamMember{}).
				Where("email = ? AND id != ?", email, id).
				Count(&count).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			if count > 0 {
				return nil, apperrors.Duplicate("a team member with email %s already exists", email)
			}
			updates["email"] = email
		}
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(member).Updates(updates).Error; err != nil {
			return nil, apperrors.Store(err)
		}
	}

	s.activity.Recordf("Update Member", actorEmail, "TeamMember", &member.ID,
		"Updated team member %s", member.FullName())

	return s.GetMember(id)
}

// DeactivateMember flags a member inactive instead of deleting, so loan
// history keeps a resolvable responsible.
func (s *TeamService) DeactivateMember(id uuid.UUID, actorEmail string) error {
	member, err := s.GetMember(id)
	if err != nil {
		return err
	}
	if member.Status == models.MemberStatusInactive {
		return apperrors.InvalidState("%s is already inactive", member.Email)
	}

	if err := s.db.Model(member).Update("status", models.MemberStatusInactive).Error; err != nil {
		return apperrors.Store(err)
	}

	s.activity.Recordf("Deactivate Member", actorEmail, "TeamMember", &member.ID,
		"Deactivated team member %s", member.FullName())

	return nil
}

func (s *TeamService) ListMembers(params utils.PaginationParams) ([]models.TeamMember, int64, error) {
	query := s.db.Model(&models.TeamMember{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Store(err)
	}

	var members []models.TeamMember
	query = query.Order("last_name ASC, first_name ASC")
	if err := utils.ApplyPagination(query, params).Find(&members).Error; err != nil {
		return nil, 0, apperrors.Store(err)
	}
	return members, total, nil
}

// ActiveMembers lists the members eligible as loan responsibles.
func (s *TeamService) ActiveMembers() ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := s.db.
		Where("status = ?", models.MemberStatusActive).
		Order("last_name ASC, first_name ASC").
		Find(&members).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return members, nil
}

// ResetPassword issues a fresh temporary password for a member.
func (s *TeamService) ResetPassword(id uuid.UUID, actorEmail string) (string, error) {
	member, err := s.GetMember(id)
	if err != nil {
		return "", err
	}

	tempPassword, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return "", apperrors.Store(err)
	}
	if err := member.SetPassword(tempPassword); err != nil {
		return "", apperrors.Store(err)
	}
	if err := s.db.Model(member).Update("password_hash", member.PasswordHash).Error; err != nil {
		return "", apperrors.Store(err)
	}

	s.activity.Recordf("Reset Password", actorEmail, "TeamMember", &member.ID,
		"Reset password for %s", member.Email)

	return tempPassword, nil
}

// UploadPhoto stores a member photo and records its URL on the member.
func (s *TeamService) UploadPhoto(id uuid.UUID, actorEmail string, file multipart.File, header *multipart.FileHeader) (*models.TeamMember, error) {
	member, err := s.GetMember(id)
	if err != nil {
		return nil, err
	}

	// Resolve the key of the photo being replaced before any write: a
	// gorm column update assigns the new value onto the model in memory.
	oldPhotoKey := s.storage.KeyFromURL(member.PhotoURL)

	result, err := s.storage.UploadFile(file, header, s.storage.AvatarUploadOptions())
	if err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}

	if err := s.db.Model(member).Update("photo_url", result.URL).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	if oldPhotoKey != "" && oldPhotoKey != result.Key {
		if err := s.storage.DeleteFile(oldPhotoKey); err != nil {
			logrus.WithError(err).WithField("key", oldPhotoKey).Warn("Failed to delete replaced member photo")
		}
	}
	member.PhotoURL = result.URL

	s.activity.Recordf("Upload Photo", actorEmail, "TeamMember", &member.ID,
		"Updated photo for %s", member.Email)

	return member, nil
}
