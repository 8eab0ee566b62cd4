// internal/models/activity_log.go
package models

import (
	"github.com/google/uuid"
)

// ActivityLog is an append-only audit record. Entries are never updated or
// deleted, and writing one is always best-effort from the caller's view.
type ActivityLog struct {
	BaseModel
	Action     string     `json:"action" gorm:"size:100;not null;index"`
	Details    string     `json:"details" gorm:"type:text"`
	UserEmail  string     `json:"user_email" gorm:"size:255;index"`
	EntityType string     `json:"entity_type" gorm:"size:50;index"`
	EntityID   *uuid.UUID `json:"entity_id" gorm:"type:uuid;index"`
}
