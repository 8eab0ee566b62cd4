// internal/services/item_tracking_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/inventory"
	"github.com/demotrack/demotrack-backend/internal/models"
)

// ItemTrackingService toggles a product between article-level quantity
// tracking and per-unit serialized tracking.
type ItemTrackingService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewItemTrackingService(db *gorm.DB, activity *ActivityService) *ItemTrackingService {
	return &ItemTrackingService{db: db, activity: activity}
}

// SplitToItems converts an article into individually serialized items, one
// per unit of quantity. Item identifiers are REF-001, REF-002, ... and stay
// immutable afterwards. The article's own quantity drops to 0 once all items
// exist; if any item creation fails, the ones already created are removed
// again and the article is left untouched.
func (s *ItemTrackingService) SplitToItems(articleID uuid.UUID, actorEmail string) ([]models.Product, error) {
	var article models.Product
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Store(err)
	}

	if article.IsIndividualItem {
		return nil, apperrors.InvalidState("%s is already an individual item", article.ArticleReference)
	}
	if article.Quantity <= 1 {
		return nil, apperrors.Validation("splitting requires a quantity greater than 1")
	}

	var existing int64
	if err := s.db.Model(&models.Product{}).
		Where("parent_article_id = ? AND is_individual_item = ?", articleID, true).
		Count(&existing).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if existing > 0 {
		return nil, apperrors.InvalidState("%s already has individual items", article.ArticleReference)
	}

	identifiers := inventory.ItemIdentifiers(article.ArticleReference, article.Quantity)
	parentID := article.ID
	var created []models.Product

	for _, identifier := range identifiers {
		item := models.Product{
			ArticleReference:  article.ArticleReference,
			Brand:             article.Brand,
			Description:       article.Description,
			Quantity:          1,
			DeclaredValue:     article.DeclaredValue,
			IsIndividualItem:  true,
			ParentArticleID:   &parentID,
			ItemIdentifier:    identifier,
			BelongsToCase:     article.BelongsToCase,
			DemoCaseID:        article.DemoCaseID,
			CanLendSeparately: article.CanLendSeparately,
			KitName:           article.KitName,
		}
		if err := s.db.Create(&item).Error; err != nil {
			s.rollbackItems(created)
			return nil, apperrors.Store(err)
		}
		created = append(created, item)
	}

	if err := s.db.Model(&article).Update("quantity", 0).Error; err != nil {
		s.rollbackItems(created)
		return nil, apperrors.Store(err)
	}

	s.activity.Recordf("Split To Items", actorEmail, "Product", &article.ID,
		"Split %s into %d individual items", article.ArticleReference, len(created))

	return created, nil
}

// MergeToArticle deletes all individual items of an article and restores the
// article's quantity to their count. Items carrying an active loan block the
// merge: removing them would leave their loans dangling.
func (s *ItemTrackingService) MergeToArticle(articleID uuid.UUID, actorEmail string) (*models.Product, error) {
	var article models.Product
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Store(err)
	}

	var children []models.Product
	if err := s.db.
		Where("parent_article_id = ? AND is_individual_item = ?", articleID, true).
		Find(&children).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if len(children) == 0 {
		return nil, apperrors.InvalidState("%s has no individual items to merge", article.ArticleReference)
	}

	childIDs := make([]uuid.UUID, 0, len(children))
	for _, c := range children {
		childIDs = append(childIDs, c.ID)
	}

	var onLoan int64
	if err := s.db.Model(&models.Loan{}).
		Where("product_id IN ? AND status IN ?", childIDs, []models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample}).
		Count(&onLoan).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if onLoan > 0 {
		return nil, apperrors.InvalidState("cannot merge %s: %d item(s) are on active loan", article.ArticleReference, onLoan)
	}

	if err := s.db.Where("id IN ?", childIDs).Delete(&models.Product{}).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	if err := s.db.Model(&article).Update("quantity", len(children)).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	s.activity.Recordf("Merge To Article", actorEmail, "Product", &article.ID,
		"Merged %d individual items back into %s", len(children), article.ArticleReference)

	if err := s.db.First(&article, articleID).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return &article, nil
}

// rollbackItems is the split's compensation step. A failed cleanup leaves
// residue in the store; nothing more can be done without transactions, so
// it is logged for manual repair.
func (s *ItemTrackingService) rollbackItems(items []models.Product) {
	for _, item := range items {
		if err := s.db.Unscoped().Delete(&models.Product{}, item.ID).Error; err != nil {
			logrus.WithError(err).WithField("item_identifier", item.ItemIdentifier).
				Error("Failed to clean up item after aborted split")
		}
	}
}
