// internal/services/product_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/inventory"
	"github.com/demotrack/demotrack-backend/internal/models"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

type ProductService struct {
	db       *gorm.DB
	activity *ActivityService
}

type CreateProductRequest struct {
	ArticleReference  string           `json:"article_reference" validate:"required,max=100"`
	Brand             string           `json:"brand,omitempty" validate:"max=100"`
	Description       string           `json:"description" validate:"required"`
	Quantity          int              `json:"quantity" validate:"min=0"`
	DeclaredValue     *decimal.Decimal `json:"declared_value,omitempty"`
	BelongsToCase     bool             `json:"belongs_to_case"`
	DemoCaseID        *uuid.UUID       `json:"demo_case_id,omitempty"`
	CanLendSeparately *bool            `json:"can_lend_separately,omitempty"`
	KitName           string           `json:"kit_name,omitempty"`
}

type UpdateProductRequest struct {
	ArticleReference  string           `json:"article_reference,omitempty" validate:"omitempty,max=100"`
	Brand             *string          `json:"brand,omitempty"`
	Description       string           `json:"description,omitempty"`
	Quantity          *int             `json:"quantity,omitempty" validate:"omitempty,min=0"`
	DeclaredValue     *decimal.Decimal `json:"declared_value,omitempty"`
	BelongsToCase     *bool            `json:"belongs_to_case,omitempty"`
	DemoCaseID        *uuid.UUID       `json:"demo_case_id,omitempty"`
	CanLendSeparately *bool            `json:"can_lend_separately,omitempty"`
	KitName           *string          `json:"kit_name,omitempty"`
}

// ProductWithAvailability decorates a product with its derived availability
// for list views.
type ProductWithAvailability struct {
	models.Product
	Availability inventory.Availability `json:"availability"`
}

func NewProductService(db *gorm.DB, activity *ActivityService) *ProductService {
	return &ProductService{db: db, activity: activity}
}

func (s *ProductService) CreateProduct(actorEmail string, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	// Duplicate pre-check on article reference, article level only
	var existingCount int64
	if err := s.db.Model(&models.Product{}).
		Where("article_reference = ? AND is_individual_item = ?", req.ArticleReference, false).
		Count(&existingCount).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if existingCount > 0 {
		return nil, apperrors.Duplicate("a product with reference %q already exists", req.ArticleReference)
	}

	product := &models.Product{
		ArticleReference:  req.ArticleReference,
		Brand:             req.Brand,
		Description:       req.Description,
		Quantity:          req.Quantity,
		BelongsToCase:     req.BelongsToCase,
		DemoCaseID:        req.DemoCaseID,
		CanLendSeparately: true,
		KitName:           req.KitName,
	}
	if req.DeclaredValue != nil {
		product.DeclaredValue = *req.DeclaredValue
	}
	if req.CanLendSeparately != nil {
		product.CanLendSeparately = *req.CanLendSeparately
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	s.activity.Recordf("Create Product", actorEmail, "Product", &product.ID,
		"Created %s (%s), qty %d", product.ArticleReference, product.Description, product.Quantity)

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("DemoCase").Preload("Items").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Store(err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, actorEmail string, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.ValidationMessage(err))
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Store(err)
	}

	updates := make(map[string]interface{})
	if req.ArticleReference != "" && req.ArticleReference != product.ArticleReference {
		var count int64
		if err := s.db.Model(&models.Product{}).
			Where("article_reference = ? AND is_individual_item = ? AND id <> ?", req.ArticleReference, false, id).
			Count(&count).Error; err != nil {
			return nil, apperrors.Store(err)
		}
		if count > 0 {
			return nil, apperrors.Duplicate("a product with reference %q already exists", req.ArticleReference)
		}
		updates["article_reference"] = req.ArticleReference
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Quantity != nil {
		// An article that has been split keeps quantity pinned to 0.
		if s.hasChildItems(id) {
			return nil, apperrors.InvalidState("quantity of a split article is derived from its items; merge first")
		}
		updates["quantity"] = *req.Quantity
	}
	if req.DeclaredValue != nil {
		updates["declared_value"] = *req.DeclaredValue
	}
	if req.BelongsToCase != nil {
		updates["belongs_to_case"] = *req.BelongsToCase
		if !*req.BelongsToCase {
			updates["demo_case_id"] = nil
		}
	}
	if req.DemoCaseID != nil {
		updates["demo_case_id"] = *req.DemoCaseID
		updates["belongs_to_case"] = true
	}
	if req.CanLendSeparately != nil {
		updates["can_lend_separately"] = *req.CanLendSeparately
	}
	if req.KitName != nil {
		updates["kit_name"] = *req.KitName
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, apperrors.Store(err)
		}
	}

	s.activity.Recordf("Update Product", actorEmail, "Product", &product.ID,
		"Updated %s", product.ArticleReference)

	if err := s.db.First(&product, id).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return &product, nil
}

func (s *ProductService) DeleteProduct(id uuid.UUID, actorEmail string) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("product")
		}
		return apperrors.Store(err)
	}

	var activeLoans int64
	if err := s.db.Model(&models.Loan{}).
		Where("product_id = ? AND status IN ?", id, []models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample}).
		Count(&activeLoans).Error; err != nil {
		return apperrors.Store(err)
	}
	if activeLoans > 0 {
		return apperrors.InvalidState("cannot delete %s: it has %d active loan(s)", product.ArticleReference, activeLoans)
	}

	// Individual items must go before their parent article.
	if s.hasChildItems(id) {
		return apperrors.InvalidState("cannot delete %s: merge its individual items back first", product.ArticleReference)
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return apperrors.Store(err)
	}

	s.activity.Recordf("Delete Product", actorEmail, "Product", &product.ID,
		"Deleted %s (%s)", product.ArticleReference, product.Description)

	return nil
}

func (s *ProductService) hasChildItems(articleID uuid.UUID) bool {
	var count int64
	s.db.Model(&models.Product{}).
		Where("parent_article_id = ? AND is_individual_item = ?", articleID, true).
		Count(&count)
	return count > 0
}

// GetAvailability recomputes the availability of one product from fresh
// collections. Never cached across writes.
func (s *ProductService) GetAvailability(id uuid.UUID) (*inventory.Availability, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	products, activeLoans, err := s.FetchCollections()
	if err != nil {
		return nil, err
	}

	avail := inventory.Compute(*product, products, activeLoans)
	return &avail, nil
}

// FetchCollections loads the read model the pure inventory computations run
// over: all products and all active loans.
func (s *ProductService) FetchCollections() ([]models.Product, []models.Loan, error) {
	var products []models.Product
	if err := s.db.Order("article_reference ASC").Find(&products).Error; err != nil {
		return nil, nil, apperrors.Store(err)
	}

	var loans []models.Loan
	if err := s.db.
		Where("status IN ?", []models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample}).
		Find(&loans).Error; err != nil {
		return nil, nil, apperrors.Store(err)
	}

	return products, loans, nil
}

func (s *ProductService) SearchProducts(params utils.PaginationParams) ([]ProductWithAvailability, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where(
			"article_reference ILIKE ? OR description ILIKE ? OR brand ILIKE ? OR kit_name ILIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Store(err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "article_reference", "brand", "quantity"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, apperrors.Store(err)
	}

	allProducts, activeLoans, err := s.FetchCollections()
	if err != nil {
		return nil, 0, err
	}

	result := make([]ProductWithAvailability, 0, len(products))
	for _, p := range products {
		result = append(result, ProductWithAvailability{
			Product:      p,
			Availability: inventory.Compute(p, allProducts, activeLoans),
		})
	}

	return result, total, nil
}

// GroupedInventory is the case-grouped inventory view: per-case product
// groups plus standalone products, availability computed fresh.
func (s *ProductService) GroupedInventory() ([]inventory.CaseProductGroup, []models.Product, error) {
	products, activeLoans, err := s.FetchCollections()
	if err != nil {
		return nil, nil, err
	}

	var cases []models.DemoCase
	if err := s.db.Order("case_name ASC").Find(&cases).Error; err != nil {
		return nil, nil, apperrors.Store(err)
	}

	groups, ungrouped := inventory.GroupProductsByCase(products, cases, activeLoans)
	return groups, ungrouped, nil
}

// UpdateSerialNumber sets the serial number of one individual item. Serial
// numbers live on items only, never on articles.
func (s *ProductService) UpdateSerialNumber(itemID uuid.UUID, serialNumber, actorEmail string) (*models.Product, error) {
	var item models.Product
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Store(err)
	}

	if !item.IsIndividualItem {
		return nil, apperrors.InvalidState("serial numbers can only be set on individual items")
	}

	if err := s.db.Model(&item).Update("serial_number", serialNumber).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	s.activity.Recordf("Update Serial Number", actorEmail, "Product", &item.ID,
		"Set serial number of %s to %s", displayName(&item), serialNumber)

	return &item, nil
}

func displayName(p *models.Product) string {
	if p.ItemIdentifier != "" {
		return p.ItemIdentifier
	}
	return p.ArticleReference
}
