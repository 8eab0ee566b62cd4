// internal/services/loan_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demotrack/demotrack-backend/internal/config"
	"github.com/demotrack/demotrack-backend/internal/models"
)

func testLoanService() *LoanService {
	cfg := &config.Config{}
	cfg.Lending.DefaultLoanWeeks = 2
	cfg.Lending.FetchLimit = 500
	return &LoanService{cfg: cfg}
}

func testProduct() *models.Product {
	p := &models.Product{
		ArticleReference: "AP-H100-BK",
		Description:      "Aperio Handle",
		KitName:          "Starter Kit",
	}
	p.ID = uuid.New()
	return p
}

func TestBuildLoanSnapshotsProductFields(t *testing.T) {
	s := testLoanService()
	product := testProduct()

	loan := s.buildLoan(product, "jane@demotrack.local", "John Smith", &LendRequest{
		CustomerName:     "Acme Corp",
		ResponsibleEmail: "john@demotrack.local",
	}, product.KitName)

	assert.Equal(t, product.ID, loan.ProductID)
	assert.Equal(t, "AP-H100-BK", loan.ProductArticle)
	assert.Equal(t, "Aperio Handle", loan.ProductDescription)
	assert.Equal(t, "Starter Kit", loan.KitName)
	assert.Equal(t, "John Smith", loan.ResponsibleName)
	assert.Equal(t, "jane@demotrack.local", loan.LentByEmail)
	assert.Equal(t, models.LoanStatusOut, loan.Status)
}

func TestBuildLoanDefaultReturnDate(t *testing.T) {
	s := testLoanService()

	loan := s.buildLoan(testProduct(), "jane@demotrack.local", "John Smith", &LendRequest{
		CustomerName:     "Acme Corp",
		ResponsibleEmail: "john@demotrack.local",
	}, "")

	require.NotNil(t, loan.ExpectedReturnDate)
	expected := dateOnly(time.Now().AddDate(0, 0, 14))
	assert.True(t, loan.ExpectedReturnDate.Equal(expected),
		"expected %v, got %v", expected, loan.ExpectedReturnDate)
	assert.True(t, loan.LentDate.Equal(dateOnly(time.Now())))
}

func TestBuildLoanExplicitReturnDateIsTruncated(t *testing.T) {
	s := testLoanService()
	due := time.Date(2026, 9, 15, 17, 45, 12, 0, time.UTC)

	loan := s.buildLoan(testProduct(), "jane@demotrack.local", "John Smith", &LendRequest{
		CustomerName:       "Acme Corp",
		ResponsibleEmail:   "john@demotrack.local",
		ExpectedReturnDate: &due,
	}, "")

	require.NotNil(t, loan.ExpectedReturnDate)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *loan.ExpectedReturnDate)
}

func TestBuildLoanSampleHasNoReturnDate(t *testing.T) {
	s := testLoanService()
	due := time.Now().AddDate(0, 0, 30)

	loan := s.buildLoan(testProduct(), "jane@demotrack.local", "John Smith", &LendRequest{
		CustomerName:       "Acme Corp",
		ResponsibleEmail:   "john@demotrack.local",
		IsSample:           true,
		ExpectedReturnDate: &due,
	}, "")

	assert.Equal(t, models.LoanStatusSample, loan.Status)
	assert.Nil(t, loan.ExpectedReturnDate)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2026, 8, 31, 23, 59, 59, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), dateOnly(ts))
}
