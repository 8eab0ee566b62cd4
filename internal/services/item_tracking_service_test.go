// internal/services/item_tracking_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/models"
)

func TestSplitMergeRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewItemTrackingService(db, NewActivityService(db))
	article := seedProduct(t, db, &models.Product{
		ArticleReference:  "AP-H100",
		Brand:             "Aperio",
		Quantity:          3,
		CanLendSeparately: true,
	})

	items, err := svc.SplitToItems(article.ID, "jane@demotrack.local")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "AP-H100-001", items[0].ItemIdentifier)
	assert.Equal(t, "AP-H100-002", items[1].ItemIdentifier)
	assert.Equal(t, "AP-H100-003", items[2].ItemIdentifier)
	for _, item := range items {
		assert.True(t, item.IsIndividualItem)
		assert.Equal(t, 1, item.Quantity)
		assert.Equal(t, "Aperio", item.Brand)
	}

	var stored models.Product
	require.NoError(t, db.First(&stored, article.ID).Error)
	assert.Equal(t, 0, stored.Quantity)

	merged, err := svc.MergeToArticle(article.ID, "jane@demotrack.local")
	require.NoError(t, err)
	assert.Equal(t, 3, merged.Quantity)

	var remaining int64
	require.NoError(t, db.Model(&models.Product{}).
		Where("parent_article_id = ?", article.ID).
		Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestSplitRequiresQuantityAboveOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewItemTrackingService(db, NewActivityService(db))
	article := seedProduct(t, db, &models.Product{
		ArticleReference: "SA-SGL",
		Quantity:         1,
	})

	_, err := svc.SplitToItems(article.ID, "jane@demotrack.local")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.Code(err))
}

func TestSplitTwiceInvalidState(t *testing.T) {
	db := newTestDB(t)
	svc := NewItemTrackingService(db, NewActivityService(db))
	article := seedProduct(t, db, &models.Product{
		ArticleReference: "CL-K200",
		Quantity:         2,
	})

	_, err := svc.SplitToItems(article.ID, "jane@demotrack.local")
	require.NoError(t, err)

	_, err = svc.SplitToItems(article.ID, "jane@demotrack.local")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.Code(err))
}

func TestMergeRefusesItemsOnActiveLoan(t *testing.T) {
	db := newTestDB(t)
	activity := NewActivityService(db)
	svc := NewItemTrackingService(db, activity)
	loans := NewLoanService(db, testConfig(), activity)
	member := seedMember(t, db, "jane@demotrack.local")
	article := seedProduct(t, db, &models.Product{
		ArticleReference:  "YA-D400",
		Quantity:          2,
		CanLendSeparately: true,
	})

	items, err := svc.SplitToItems(article.ID, member.Email)
	require.NoError(t, err)

	_, err = loans.CreateLoan(items[1].ID, member.Email, lendRequest(member.Email))
	require.NoError(t, err)

	_, err = svc.MergeToArticle(article.ID, member.Email)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.Code(err))

	// Items survive the refused merge.
	var remaining int64
	require.NoError(t, db.Model(&models.Product{}).
		Where("parent_article_id = ?", article.ID).
		Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}
