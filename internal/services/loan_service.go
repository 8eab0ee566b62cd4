// internal/services/loan_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/config"
	"github.com/demotrack/demotrack-backend/internal/inventory"
	"github.com/demotrack/demotrack-backend/internal/models"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

// LoanService manages the lending lifecycle: creating loans against
// availability, returning them, and the bulk case operations.
type LoanService struct {
	db       *gorm.DB
	cfg      *config.Config
	activity *ActivityService
}

func NewLoanService(db *gorm.DB, cfg *config.Config, activity *ActivityService) *LoanService {
	return &LoanService{db: db, cfg: cfg, activity: activity}
}

type LendRequest struct {
	CustomerName       string     `json:"customer_name" validate:"required,min=2,max=255"`
	CustomerAddress    string     `json:"customer_address" validate:"max=255"`
	ResponsibleEmail   string     `json:"responsible_email" validate:"required,email"`
	IsSample           bool       `json:"is_sample"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	Notes              string     `json:"notes"`
}

// BulkCaseResult reports a bulk lend or return outcome per product.
type BulkCaseResult struct {
	Succeeded []models.Loan     `json:"succeeded"`
	Failed    []BulkCaseFailure `json:"failed,omitempty"`
}

type BulkCaseFailure struct {
	ProductID        uuid.UUID `json:"product_id"`
	ArticleReference string    `json:"article_reference,omitempty"`
	Reason           string    `json:"reason"`
}

// CreateLoan lends one unit of a product. The product's article reference,
// description and kit name are copied onto the loan so the record survives
// later product edits.
func (s *LoanService) CreateLoan(productID uuid.UUID, actorEmail string, req *LendRequest) (*models.Loan, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Store(err)
	}

	if product.BelongsToCase && !product.CanLendSeparately {
		return nil, apperrors.PolicyViolation("%s belongs to a demo case and cannot be lent separately", product.ArticleReference)
	}

	products, activeLoans, err := s.collections()
	if err != nil {
		return nil, err
	}
	avail := inventory.Compute(product, products, activeLoans)
	if avail.HasIndividualItems {
		// A split article is lent through its items, never through the
		// article id itself.
		return nil, apperrors.InvalidState("%s is tracked as individual items, lend a specific item", product.ArticleReference)
	}
	if avail.Available <= 0 {
		return nil, apperrors.OutOfStock("%s has no available units", product.ArticleReference)
	}

	responsibleName, err := s.resolveResponsible(req.ResponsibleEmail)
	if err != nil {
		return nil, err
	}

	loan := s.buildLoan(&product, actorEmail, responsibleName, req, product.KitName)
	if err := s.db.Create(loan).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	s.activity.Recordf("Lend", actorEmail, "Loan", &loan.ID,
		"Lent %s to %s (responsible: %s)", product.ArticleReference, req.CustomerName, responsibleName)

	return loan, nil
}

// ReturnLoan closes an active loan with today's date.
func (s *LoanService) ReturnLoan(loanID uuid.UUID, actorEmail string) (*models.Loan, error) {
	var loan models.Loan
	if err := s.db.First(&loan, loanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("loan")
		}
		return nil, apperrors.Store(err)
	}

	if !loan.IsActive() {
		return nil, apperrors.InvalidState("loan for %s is already returned", loan.ProductArticle)
	}

	today := dateOnly(time.Now())
	updates := map[string]interface{}{
		"status":             models.LoanStatusReturned,
		"actual_return_date": today,
	}
	if err := s.db.Model(&loan).Updates(updates).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	s.activity.Recordf("Return", actorEmail, "Loan", &loan.ID,
		"Returned %s from %s", loan.ProductArticle, loan.CustomerName)

	return &loan, nil
}

// BulkLendCase lends the selected members of a demo case to one customer in
// a single pass. Each loan gets the case name as its kit name. Members that
// turn out unavailable are skipped and reported, not treated as a failure of
// the whole batch.
func (s *LoanService) BulkLendCase(caseID uuid.UUID, selectedProductIDs []uuid.UUID, actorEmail string, req *LendRequest) (*BulkCaseResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}
	if len(selectedProductIDs) == 0 {
		return nil, apperrors.Validation("no products selected")
	}

	var demoCase models.DemoCase
	if err := s.db.First(&demoCase, caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("demo case")
		}
		return nil, apperrors.Store(err)
	}

	responsibleName, err := s.resolveResponsible(req.ResponsibleEmail)
	if err != nil {
		return nil, err
	}

	products, activeLoans, err := s.collections()
	if err != nil {
		return nil, err
	}
	productByID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	result := &BulkCaseResult{}
	for _, productID := range selectedProductIDs {
		product, ok := productByID[productID]
		if !ok {
			result.Failed = append(result.Failed, BulkCaseFailure{ProductID: productID, Reason: "product not found"})
			continue
		}
		if !product.BelongsToCase || product.DemoCaseID == nil || *product.DemoCaseID != caseID {
			result.Failed = append(result.Failed, BulkCaseFailure{
				ProductID:        productID,
				ArticleReference: product.ArticleReference,
				Reason:           "product is not a member of this case",
			})
			continue
		}

		// Availability is recomputed against the loans created earlier in
		// this same batch, so a case holding two units of the same child
		// article cannot be lent three times.
		avail := inventory.Compute(product, products, activeLoans)
		if avail.HasIndividualItems {
			result.Failed = append(result.Failed, BulkCaseFailure{
				ProductID:        productID,
				ArticleReference: product.ArticleReference,
				Reason:           "article is tracked as individual items, lend a specific item",
			})
			continue
		}
		if avail.Available <= 0 {
			result.Failed = append(result.Failed, BulkCaseFailure{
				ProductID:        productID,
				ArticleReference: product.ArticleReference,
				Reason:           "no available units",
			})
			continue
		}

		loan := s.buildLoan(&product, actorEmail, responsibleName, req, demoCase.CaseName)
		if err := s.db.Create(loan).Error; err != nil {
			result.Failed = append(result.Failed, BulkCaseFailure{
				ProductID:        productID,
				ArticleReference: product.ArticleReference,
				Reason:           err.Error(),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, *loan)
		activeLoans = append(activeLoans, *loan)
	}

	s.activity.Recordf("Lend Case", actorEmail, "DemoCase", &demoCase.ID,
		"Lent case %s to %s (%d items, %d skipped)",
		demoCase.CaseName, req.CustomerName, len(result.Succeeded), len(result.Failed))

	return result, nil
}

// BulkReturnCase returns every loan of a loan group. Loans are returned
// independently; one failure does not abort the rest.
func (s *LoanService) BulkReturnCase(loanIDs []uuid.UUID, actorEmail string) (*BulkCaseResult, error) {
	if len(loanIDs) == 0 {
		return nil, apperrors.Validation("no loans selected")
	}

	result := &BulkCaseResult{}
	for _, loanID := range loanIDs {
		loan, err := s.ReturnLoan(loanID, actorEmail)
		if err != nil {
			result.Failed = append(result.Failed, BulkCaseFailure{ProductID: loanID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, *loan)
	}
	return result, nil
}

// GroupedActiveLoans returns the active loans partitioned into case groups
// and standalone loans.
func (s *LoanService) GroupedActiveLoans() ([]inventory.LoanGroup, []models.Loan, error) {
	products, activeLoans, err := s.collections()
	if err != nil {
		return nil, nil, err
	}
	var cases []models.DemoCase
	if err := s.db.Limit(s.cfg.Lending.FetchLimit).Find(&cases).Error; err != nil {
		return nil, nil, apperrors.Store(err)
	}
	groups, standalone := inventory.GroupActiveLoans(activeLoans, products, cases)
	return groups, standalone, nil
}

// FixDemoCaseData back-fills the kit name onto loans that were grouped by
// the case-membership fallback. Running it twice is harmless: repaired loans
// carry a kit name and no longer match the fallback.
func (s *LoanService) FixDemoCaseData(actorEmail string) (int, error) {
	groups, _, err := s.GroupedActiveLoans()
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, group := range groups {
		if !group.NeedsDataFix {
			continue
		}
		for _, loan := range group.Loans {
			if loan.KitName != "" {
				continue
			}
			if err := s.db.Model(&models.Loan{}).Where("id = ?", loan.ID).
				Update("kit_name", group.CaseName).Error; err != nil {
				return fixed, apperrors.Store(err)
			}
			fixed++
		}
	}

	if fixed > 0 {
		s.activity.Recordf("Fix Case Data", actorEmail, "Loan", nil,
			"Back-filled kit name on %d loan(s)", fixed)
	}
	return fixed, nil
}

// ListLoans returns loans filtered by status ("active", "returned", "out",
// "sample", "overdue" or empty for all) and optionally by responsible email.
func (s *LoanService) ListLoans(status, responsibleEmail string, params utils.PaginationParams) ([]models.Loan, int64, error) {
	query := s.db.Model(&models.Loan{})

	switch status {
	case "":
	case "active":
		query = query.Where("status IN ?", []models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample})
	case "overdue":
		query = query.Where("status = ? AND expected_return_date < ?", models.LoanStatusOut, dateOnly(time.Now()))
	case string(models.LoanStatusOut), string(models.LoanStatusSample), string(models.LoanStatusReturned):
		query = query.Where("status = ?", status)
	default:
		return nil, 0, apperrors.Validation("unknown status filter %q", status)
	}

	if responsibleEmail != "" {
		query = query.Where("responsible_email = ?", responsibleEmail)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("customer_name ILIKE ? OR product_article ILIKE ? OR kit_name ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Store(err)
	}

	var loans []models.Loan
	query = query.Order("lent_date DESC, created_at DESC")
	if err := utils.ApplyPagination(query, params).Find(&loans).Error; err != nil {
		return nil, 0, apperrors.Store(err)
	}
	return loans, total, nil
}

// DashboardStats summarizes the lending state for the landing view.
type DashboardStats struct {
	TotalProducts  int64         `json:"total_products"`
	ActiveLoans    int64         `json:"active_loans"`
	SamplesOut     int64         `json:"samples_out"`
	OverdueLoans   []models.Loan `json:"overdue_loans"`
	MyActiveLoans  []models.Loan `json:"my_active_loans"`
	TotalDemoCases int64         `json:"total_demo_cases"`
}

func (s *LoanService) DashboardStats(userEmail string) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Product{}).
		Where("is_individual_item = ?", false).
		Count(&stats.TotalProducts).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if err := s.db.Model(&models.DemoCase{}).Count(&stats.TotalDemoCases).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if err := s.db.Model(&models.Loan{}).
		Where("status IN ?", []models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample}).
		Count(&stats.ActiveLoans).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if err := s.db.Model(&models.Loan{}).
		Where("status = ?", models.LoanStatusSample).
		Count(&stats.SamplesOut).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	if err := s.db.
		Where("status = ? AND expected_return_date < ?", models.LoanStatusOut, dateOnly(time.Now())).
		Order("expected_return_date ASC").
		Find(&stats.OverdueLoans).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	if userEmail != "" {
		if err := s.db.
			Where("responsible_email = ? AND status IN ?", userEmail,
				[]models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample}).
			Order("lent_date DESC").
			Find(&stats.MyActiveLoans).Error; err != nil {
			return nil, apperrors.Store(err)
		}
	}

	return stats, nil
}

func (s *LoanService) buildLoan(product *models.Product, actorEmail, responsibleName string, req *LendRequest, kitName string) *models.Loan {
	status := models.LoanStatusOut
	var expectedReturn *time.Time
	if req.IsSample {
		// Samples stay out until the customer decides; no return date.
		status = models.LoanStatusSample
	} else if req.ExpectedReturnDate != nil {
		d := dateOnly(*req.ExpectedReturnDate)
		expectedReturn = &d
	} else {
		d := dateOnly(time.Now().AddDate(0, 0, 7*s.cfg.Lending.DefaultLoanWeeks))
		expectedReturn = &d
	}

	return &models.Loan{
		ProductID:          product.ID,
		ProductArticle:     product.ArticleReference,
		ProductDescription: product.Description,
		CustomerName:       req.CustomerName,
		CustomerAddress:    req.CustomerAddress,
		ResponsibleEmail:   req.ResponsibleEmail,
		ResponsibleName:    responsibleName,
		LentByEmail:        actorEmail,
		LentDate:           dateOnly(time.Now()),
		ExpectedReturnDate: expectedReturn,
		Status:             status,
		Notes:              req.Notes,
		KitName:            kitName,
	}
}

// resolveResponsible maps an email to an active team member's display name.
func (s *LoanService) resolveResponsible(email string) (string, error) {
	var member models.TeamMember
	err := s.db.Where("email = ? AND status = ?", email, models.MemberStatusActive).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.Validation("%s is not an active team member", email)
		}
		return "", apperrors.Store(err)
	}
	return member.FullName(), nil
}

func (s *LoanService) collections() ([]models.Product, []models.Loan, error) {
	var products []models.Product
	if err := s.db.Limit(s.cfg.Lending.FetchLimit).Find(&products).Error; err != nil {
		return nil, nil, apperrors.Store(err)
	}
	var loans []models.Loan
	if err := s.db.
		Where("status IN ?", []models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample}).
		Limit(s.cfg.Lending.FetchLimit).
		Find(&loans).Error; err != nil {
		return nil, nil, apperrors.Store(err)
	}
	return products, loans, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
