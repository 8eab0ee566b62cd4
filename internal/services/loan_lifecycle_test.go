// internal/services/loan_lifecycle_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/models"
)

func TestCreateLoanSecondFailsOutOfStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoanService(db, testConfig(), NewActivityService(db))
	member := seedMember(t, db, "jane@demotrack.local")
	product := seedProduct(t, db, &models.Product{
		ArticleReference:  "AP-H100",
		Description:       "Aperio Handle",
		Quantity:          1,
		CanLendSeparately: true,
	})

	first, err := svc.CreateLoan(product.ID, member.Email, lendRequest(member.Email))
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusOut, first.Status)
	assert.Equal(t, "AP-H100", first.ProductArticle)

	_, err = svc.CreateLoan(product.ID, member.Email, lendRequest(member.Email))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeOutOfStock, apperrors.Code(err))
}

func TestReturnLoanTwiceInvalidState(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoanService(db, testConfig(), NewActivityService(db))
	member := seedMember(t, db, "jane@demotrack.local")
	product := seedProduct(t, db, &models.Product{
		ArticleReference:  "CL-K200",
		Quantity:          2,
		CanLendSeparately: true,
	})

	loan, err := svc.CreateLoan(product.ID, member.Email, lendRequest(member.Email))
	require.NoError(t, err)

	returned, err := svc.ReturnLoan(loan.ID, member.Email)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusReturned, returned.Status)

	var stored models.Loan
	require.NoError(t, db.First(&stored, loan.ID).Error)
	require.NotNil(t, stored.ActualReturnDate)
	firstReturnDate := *stored.ActualReturnDate

	_, err = svc.ReturnLoan(loan.ID, member.Email)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.Code(err))

	require.NoError(t, db.First(&stored, loan.ID).Error)
	require.NotNil(t, stored.ActualReturnDate)
	assert.True(t, stored.ActualReturnDate.Equal(firstReturnDate))
}

func TestReturnLoanFreesAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoanService(db, testConfig(), NewActivityService(db))
	member := seedMember(t, db, "jane@demotrack.local")
	product := seedProduct(t, db, &models.Product{
		ArticleReference:  "SA-300",
		Quantity:          1,
		CanLendSeparately: true,
	})

	loan, err := svc.CreateLoan(product.ID, member.Email, lendRequest(member.Email))
	require.NoError(t, err)
	_, err = svc.ReturnLoan(loan.ID, member.Email)
	require.NoError(t, err)

	_, err = svc.CreateLoan(product.ID, member.Email, lendRequest(member.Email))
	assert.NoError(t, err)
}

func TestCreateLoanCaseBoundPolicyViolation(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoanService(db, testConfig(), NewActivityService(db))
	member := seedMember(t, db, "jane@demotrack.local")

	demoCase := &models.DemoCase{CaseName: "CLIQ Kit", CaseType: models.CaseTypeCLIQ}
	require.NoError(t, db.Create(demoCase).Error)
	product := seedProduct(t, db, &models.Product{
		ArticleReference:  "CL-CYL-01",
		Quantity:          5,
		BelongsToCase:     true,
		DemoCaseID:        &demoCase.ID,
		CanLendSeparately: false,
	})

	_, err := svc.CreateLoan(product.ID, member.Email, lendRequest(member.Email))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePolicyViolation, apperrors.Code(err))
}

func TestCreateLoanRejectsSplitArticle(t *testing.T) {
	db := newTestDB(t)
	activity := NewActivityService(db)
	loans := NewLoanService(db, testConfig(), activity)
	tracking := NewItemTrackingService(db, activity)
	member := seedMember(t, db, "jane@demotrack.local")
	article := seedProduct(t, db, &models.Product{
		ArticleReference:  "YA-D400",
		Quantity:          2,
		CanLendSeparately: true,
	})

	items, err := tracking.SplitToItems(article.ID, member.Email)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// The article itself is no longer lendable; loans against its id would
	// never deduct from the items.
	_, err = loans.CreateLoan(article.ID, member.Email, lendRequest(member.Email))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.Code(err))

	// A specific item still is.
	loan, err := loans.CreateLoan(items[0].ID, member.Email, lendRequest(member.Email))
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, loan.ProductID)
}

func TestBulkLendCaseReportsSplitArticle(t *testing.T) {
	db := newTestDB(t)
	activity := NewActivityService(db)
	loans := NewLoanService(db, testConfig(), activity)
	tracking := NewItemTrackingService(db, activity)
	member := seedMember(t, db, "jane@demotrack.local")

	demoCase := &models.DemoCase{CaseName: "Aperio Kit", CaseType: models.CaseTypeAperio}
	require.NoError(t, db.Create(demoCase).Error)
	article := seedProduct(t, db, &models.Product{
		ArticleReference:  "AP-R100",
		Quantity:          2,
		BelongsToCase:     true,
		DemoCaseID:        &demoCase.ID,
		CanLendSeparately: true,
	})
	plain := seedProduct(t, db, &models.Product{
		ArticleReference: "AP-P200",
		Quantity:         1,
		BelongsToCase:    true,
		DemoCaseID:       &demoCase.ID,
	})

	_, err := tracking.SplitToItems(article.ID, member.Email)
	require.NoError(t, err)

	result, err := loans.BulkLendCase(demoCase.ID,
		[]uuid.UUID{article.ID, plain.ID}, member.Email, lendRequest(member.Email))
	require.NoError(t, err)

	require.Len(t, result.Succeeded, 1)
	assert.Equal(t, plain.ID, result.Succeeded[0].ProductID)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, article.ID, result.Failed[0].ProductID)
}
