// internal/services/democase_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/config"
	"github.com/demotrack/demotrack-backend/internal/inventory"
	"github.com/demotrack/demotrack-backend/internal/models"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

// DemoCaseService manages demo cases and their membership.
type DemoCaseService struct {
	db       *gorm.DB
	cfg      *config.Config
	activity *ActivityService
}

func NewDemoCaseService(db *gorm.DB, cfg *config.Config, activity *ActivityService) *DemoCaseService {
	return &DemoCaseService{db: db, cfg: cfg, activity: activity}
}

type CreateDemoCaseRequest struct {
	CaseName     string          `json:"case_name" validate:"required,min=2,max=255"`
	CaseType     models.CaseType `json:"case_type" validate:"required"`
	Description  string          `json:"description"`
	BaseLocation string          `json:"base_location" validate:"max=255"`
	BaseAddress  string          `json:"base_address" validate:"max=255"`
}

type UpdateDemoCaseRequest struct {
	CaseName     *string          `json:"case_name" validate:"omitempty,min=2,max=255"`
	CaseType     *models.CaseType `json:"case_type"`
	Description  *string          `json:"description"`
	BaseLocation *string          `json:"base_location" validate:"omitempty,max=255"`
	BaseAddress  *string          `json:"base_address" validate:"omitempty,max=255"`
}

// DemoCaseView is a case together with its derived lending state.
type DemoCaseView struct {
	models.DemoCase
	Status          inventory.CaseStatus `json:"status"`
	CurrentLocation inventory.Location   `json:"current_location"`
	MemberCount     int                  `json:"member_count"`
}

func (s *DemoCaseService) CreateCase(actorEmail string, req *CreateDemoCaseRequest) (*models.DemoCase, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	var count int64
	if err := s.db.Model(&models.DemoCase{}).
		Where("LOWER(case_name) = LOWER(?)", req.CaseName).
		Count(&count).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if count > 0 {
		return nil, apperrors.Duplicate("demo case %s already exists", req.CaseName)
	}

	demoCase := &models.DemoCase{
		CaseName:     req.CaseName,
		CaseType:     req.CaseType,
		Description:  req.Description,
		BaseLocation: req.BaseLocation,
		BaseAddress:  req.BaseAddress,
	}
	if err := s.db.Create(demoCase).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	s.activity.Recordf("Create Case", actorEmail, "DemoCase", &demoCase.ID,
		"Created demo case %s (%s)", demoCase.CaseName, demoCase.CaseType)

	return demoCase, nil
}

func (s *DemoCaseService) GetCase(id uuid.UUID) (*models.DemoCase, error) {
	var demoCase models.DemoCase
	if err := s.db.Preload("Products").First(&demoCase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("demo case")
		}
		return nil, apperrors.Store(err)
	}
	return &demoCase, nil
}

func (s *DemoCaseService) UpdateCase(id uuid.UUID, actorEmail string, req *UpdateDemoCaseRequest) (*models.DemoCase, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	var demoCase models.DemoCase
	if err := s.db.First(&demoCase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("demo case")
		}
		return nil, apperrors.Store(err)
	}

	updates := make(map[string]interface{})
	if req.CaseName != nil && *req.CaseName != demoCase.CaseName {
		var count int64
		if err := s.db.Model(&models.DemoCase{}).
			Where("LOWER(case_name) = LOWER(?) AND id != ?", *req.CaseName, id).
			Count(&count).Error; err != nil {
			return nil, apperrors.Store(err)
		}
		if count > 0 {
			return nil, apperrors.Duplicate("demo case %s already exists", *req.CaseName)
		}
		updates["case_name"] = *req.CaseName
	}
	if req.CaseType != nil {
		updates["case_type"] = *req.CaseType
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.BaseLocation != nil {
		updates["base_location"] = *req.BaseLocation
	}
	if req.BaseAddress != nil {
		updates["base_address"] = *req.BaseAddress
	}

	if len(updates) > 0 {
		if err := s.db.Model(&demoCase).Updates(updates).Error; err != nil {
			return nil, apperrors.Store(err)
		}
	}

	s.activity.Recordf("Update Case", actorEmail, "DemoCase", &demoCase.ID,
		"Updated demo case %s", demoCase.CaseName)

	return s.GetCase(id)
}

// DeleteCase removes a demo case. Members must all be at the office: a case
// with any member on active loan cannot be deleted. Members are kept as
// standalone products with their case membership cleared.
func (s *DemoCaseService) DeleteCase(id uuid.UUID, actorEmail string) error {
	var demoCase models.DemoCase
	if err := s.db.First(&demoCase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("demo case")
		}
		return apperrors.Store(err)
	}

	var memberIDs []uuid.UUID
	if err := s.db.Model(&models.Product{}).
		Where("demo_case_id = ?", id).
		Pluck("id", &memberIDs).Error; err != nil {
		return apperrors.Store(err)
	}

	if len(memberIDs) > 0 {
		var onLoan int64
		if err := s.db.Model(&models.Loan{}).
			Where("product_id IN ? AND status IN ?", memberIDs,
				[]models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample}).
			Count(&onLoan).Error; err != nil {
			return apperrors.Store(err)
		}
		if onLoan > 0 {
			return apperrors.InvalidState("cannot delete %s: %d loan(s) still active on its products", demoCase.CaseName, onLoan)
		}

		if err := s.db.Model(&models.Product{}).
			Where("demo_case_id = ?", id).
			Updates(map[string]interface{}{
				"belongs_to_case": false,
				"demo_case_id":    nil,
			}).Error; err != nil {
			return apperrors.Store(err)
		}
	}

	if err := s.db.Delete(&demoCase).Error; err != nil {
		return apperrors.Store(err)
	}

	s.activity.Recordf("Delete Case", actorEmail, "DemoCase", &demoCase.ID,
		"Deleted demo case %s (%d products kept as standalone)", demoCase.CaseName, len(memberIDs))

	return nil
}

// ListCases returns every demo case with its derived status and location.
func (s *DemoCaseService) ListCases() ([]DemoCaseView, error) {
	var cases []models.DemoCase
	if err := s.db.Order("case_name ASC").Limit(s.cfg.Lending.FetchLimit).Find(&cases).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	var products []models.Product
	if err := s.db.Limit(s.cfg.Lending.FetchLimit).Find(&products).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	var activeLoans []models.Loan
	if err := s.db.
		Where("status IN ?", []models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample}).
		Limit(s.cfg.Lending.FetchLimit).
		Find(&activeLoans).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	views := make([]DemoCaseView, 0, len(cases))
	for _, demoCase := range cases {
		members := 0
		for _, p := range products {
			if p.DemoCaseID != nil && *p.DemoCaseID == demoCase.ID {
				members++
			}
		}
		status := inventory.ComputeCaseStatus(demoCase.ID, products, activeLoans)
		views = append(views, DemoCaseView{
			DemoCase:        demoCase,
			Status:          status,
			CurrentLocation: inventory.CurrentLocation(demoCase, status),
			MemberCount:     members,
		})
	}
	return views, nil
}

// AssignProduct puts a product into a case; a nil caseID removes it.
func (s *DemoCaseService) AssignProduct(productID uuid.UUID, caseID *uuid.UUID, actorEmail string) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Store(err)
	}

	updates := map[string]interface{}{
		"belongs_to_case": caseID != nil,
		"demo_case_id":    caseID,
	}
	if caseID != nil {
		var demoCase models.DemoCase
		if err := s.db.First(&demoCase, *caseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("demo case")
			}
			return nil, apperrors.Store(err)
		}
		s.activity.Recordf("Assign To Case", actorEmail, "Product", &product.ID,
			"Assigned %s to case %s", product.ArticleReference, demoCase.CaseName)
	} else {
		s.activity.Recordf("Remove From Case", actorEmail, "Product", &product.ID,
			"Removed %s from its case", product.ArticleReference)
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return &product, nil
}
