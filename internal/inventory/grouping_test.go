package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demotrack/demotrack-backend/internal/models"
)

func newCase(name string) models.DemoCase {
	return models.DemoCase{
		BaseModel: models.BaseModel{ID: uuid.New()},
		CaseName:  name,
		CaseType:  models.CaseTypeCustom,
	}
}

func newCaseProduct(ref string, demoCase models.DemoCase) models.Product {
	caseID := demoCase.ID
	return models.Product{
		BaseModel:        models.BaseModel{ID: uuid.New()},
		ArticleReference: ref,
		Quantity:         1,
		BelongsToCase:    true,
		DemoCaseID:       &caseID,
	}
}

func TestGroupActiveLoansByKitName(t *testing.T) {
	loans := []models.Loan{
		{BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: uuid.New(), Status: models.LoanStatusOut, KitName: "Kit A", CustomerName: "Acme"},
		{BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: uuid.New(), Status: models.LoanStatusOut, KitName: "Kit A", CustomerName: "Acme"},
		{BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: uuid.New(), Status: models.LoanStatusOut, KitName: "Kit A", CustomerName: "Globex"},
	}

	groups, standalone := GroupActiveLoans(loans, nil, nil)
	require.Len(t, groups, 2, "same kit lent to two customers is two groups")
	assert.Empty(t, standalone)
	assert.Len(t, groups[0].Loans, 2)
	assert.False(t, groups[0].NeedsDataFix)
}

func TestGroupActiveLoansFallbackMarksDataFix(t *testing.T) {
	kitA := newCase("Kit A")
	product := newCaseProduct("AP-1", kitA)

	withKit := models.Loan{
		BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: uuid.New(),
		Status: models.LoanStatusOut, KitName: "Kit A", CustomerName: "Acme",
	}
	withoutKit := models.Loan{
		BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: product.ID,
		Status: models.LoanStatusOut, CustomerName: "Acme",
	}

	groups, standalone := GroupActiveLoans(
		[]models.Loan{withKit, withoutKit},
		[]models.Product{product},
		[]models.DemoCase{kitA},
	)

	require.Len(t, groups, 1)
	assert.Empty(t, standalone)
	assert.Equal(t, "Kit A", groups[0].CaseName)
	assert.Len(t, groups[0].Loans, 2)
	assert.True(t, groups[0].NeedsDataFix)

	// After the repair back-fills kit_name, the same data is clean.
	withoutKit.KitName = "Kit A"
	groups, _ = GroupActiveLoans(
		[]models.Loan{withKit, withoutKit},
		[]models.Product{product},
		[]models.DemoCase{kitA},
	)
	require.Len(t, groups, 1)
	assert.False(t, groups[0].NeedsDataFix)
}

func TestGroupActiveLoansStandalone(t *testing.T) {
	plain := models.Product{BaseModel: models.BaseModel{ID: uuid.New()}, ArticleReference: "X-1", Quantity: 1}
	loan := models.Loan{
		BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: plain.ID,
		Status: models.LoanStatusOut, CustomerName: "Acme",
	}
	returned := models.Loan{
		BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: plain.ID,
		Status: models.LoanStatusReturned, CustomerName: "Acme", KitName: "Kit A",
	}

	groups, standalone := GroupActiveLoans([]models.Loan{loan, returned}, []models.Product{plain}, nil)
	assert.Empty(t, groups, "returned loans never group")
	require.Len(t, standalone, 1)
	assert.Equal(t, loan.ID, standalone[0].ID)
}

func TestComputeCaseStatus(t *testing.T) {
	kitA := newCase("Kit A")
	p1 := newCaseProduct("P1", kitA)
	p2 := newCaseProduct("P2", kitA)
	products := []models.Product{p1, p2}

	t.Run("empty", func(t *testing.T) {
		status := ComputeCaseStatus(uuid.New(), products, nil)
		assert.Equal(t, CaseStatusEmpty, status.Status)
	})

	t.Run("complete", func(t *testing.T) {
		status := ComputeCaseStatus(kitA.ID, products, nil)
		assert.Equal(t, CaseStatusComplete, status.Status)
		assert.Equal(t, 2, status.Available)
		assert.Equal(t, 2, status.Total)
	})

	t.Run("incomplete", func(t *testing.T) {
		loans := []models.Loan{{BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: p1.ID, Status: models.LoanStatusOut, CustomerName: "Acme"}}
		status := ComputeCaseStatus(kitA.ID, products, loans)
		assert.Equal(t, CaseStatusIncomplete, status.Status)
		assert.Equal(t, 1, status.Available)
		assert.Equal(t, 2, status.Total)
	})

	t.Run("allout", func(t *testing.T) {
		loans := []models.Loan{
			{BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: p1.ID, Status: models.LoanStatusOut, CustomerName: "Acme"},
			{BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: p2.ID, Status: models.LoanStatusSample, CustomerName: "Acme"},
		}
		status := ComputeCaseStatus(kitA.ID, products, loans)
		assert.Equal(t, CaseStatusAllOut, status.Status)
		assert.Equal(t, 0, status.Available)
	})
}

func TestCurrentLocation(t *testing.T) {
	kitA := newCase("Kit A")
	kitA.BaseLocation = "Brussels HQ"
	kitA.BaseAddress = "Rue de la Loi 1"
	p1 := newCaseProduct("P1", kitA)
	p2 := newCaseProduct("P2", kitA)
	products := []models.Product{p1, p2}

	t.Run("office when complete", func(t *testing.T) {
		loc := CurrentLocation(kitA, ComputeCaseStatus(kitA.ID, products, nil))
		assert.Equal(t, "office", loc.Type)
		assert.Equal(t, "Brussels HQ", loc.Label)
	})

	t.Run("single customer when all out", func(t *testing.T) {
		loans := []models.Loan{
			{ProductID: p1.ID, Status: models.LoanStatusOut, CustomerName: "Acme", CustomerAddress: "Main St 5"},
			{ProductID: p2.ID, Status: models.LoanStatusOut, CustomerName: "Acme", CustomerAddress: "Main St 5"},
		}
		loc := CurrentLocation(kitA, ComputeCaseStatus(kitA.ID, products, loans))
		assert.Equal(t, "customer", loc.Type)
		assert.Equal(t, "Acme", loc.Label)
		assert.Equal(t, "Main St 5", loc.Address)
	})

	t.Run("split when partial", func(t *testing.T) {
		loans := []models.Loan{{ProductID: p1.ID, Status: models.LoanStatusOut, CustomerName: "Acme"}}
		loc := CurrentLocation(kitA, ComputeCaseStatus(kitA.ID, products, loans))
		assert.Equal(t, "split", loc.Type)
		assert.Contains(t, loc.Label, "Office (1)")
		assert.Equal(t, []string{"Acme"}, loc.Customers)
	})
}

func TestGroupProductsByCase(t *testing.T) {
	kitA := newCase("Kit A")
	p1 := newCaseProduct("P1", kitA)
	p2 := newCaseProduct("P2", kitA)
	loose := models.Product{BaseModel: models.BaseModel{ID: uuid.New()}, ArticleReference: "L-1", Quantity: 2}
	products := []models.Product{p1, p2, loose}

	loans := []models.Loan{{ProductID: p1.ID, Status: models.LoanStatusOut, CustomerName: "Acme"}}

	groups, ungrouped := GroupProductsByCase(products, []models.DemoCase{kitA}, loans)
	require.Len(t, groups, 1)
	assert.Equal(t, "Kit A", groups[0].Case.CaseName)
	assert.Equal(t, 2, groups[0].TotalItems)
	assert.Equal(t, 1, groups[0].AvailableItems)
	require.Len(t, ungrouped, 1)
	assert.Equal(t, "L-1", ungrouped[0].ArticleReference)
}
