// internal/services/activity_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/models"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

// ActivityService is the audit sink. Record never blocks the caller and
// never returns an error: a failed audit write is logged and swallowed, it
// must not roll back or fail the operation that triggered it.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

func (s *ActivityService) Record(action, details, userEmail, entityType string, entityID *uuid.UUID) {
	entry := &models.ActivityLog{
		Action:     action,
		Details:    details,
		UserEmail:  userEmail,
		EntityType: entityType,
		EntityID:   entityID,
	}

	go func() {
		if err := s.db.Create(entry).Error; err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"action":      action,
				"entity_type": entityType,
			}).Error("Failed to write activity log")
		}
	}()
}

// Recordf is Record with a formatted details string.
func (s *ActivityService) Recordf(action, userEmail, entityType string, entityID *uuid.UUID, format string, args ...interface{}) {
	s.Record(action, fmt.Sprintf(format, args...), userEmail, entityType, entityID)
}

func (s *ActivityService) List(params utils.PaginationParams) ([]models.ActivityLog, int64, error) {
	query := s.db.Model(&models.ActivityLog{})

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("details ILIKE ? OR action ILIKE ? OR user_email ILIKE ?", searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Store(err)
	}

	allowedSortFields := []string{"created_at", "action", "user_email"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var logs []models.ActivityLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, apperrors.Store(err)
	}

	return logs, total, nil
}

// ListAll returns up to limit entries for export, oldest first.
func (s *ActivityService) ListAll(limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	if err := s.db.Order("created_at ASC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return logs, nil
}
