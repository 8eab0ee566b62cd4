// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate generates ids in the application so rows do not depend on a
// database-side uuid function.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type TeamRole string

const (
	TeamRoleMember TeamRole = "member"
	TeamRoleAdmin  TeamRole = "admin"
)

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

type LoanStatus string

const (
	LoanStatusOut      LoanStatus = "out"
	LoanStatusSample   LoanStatus = "sample"
	LoanStatusReturned LoanStatus = "returned"
)

type CaseType string

const (
	CaseTypeCLIQ     CaseType = "CLIQ System"
	CaseTypeAperio   CaseType = "Aperio Kit"
	CaseTypeSMARTair CaseType = "SMARTair Package"
	CaseTypeYale     CaseType = "Yale Kit"
	CaseTypeCustom   CaseType = "Custom"
)
