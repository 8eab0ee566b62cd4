package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/demotrack/demotrack-backend/internal/models"
)

func newArticle(ref string, qty int) models.Product {
	return models.Product{
		BaseModel:        models.BaseModel{ID: uuid.New()},
		ArticleReference: ref,
		Quantity:         qty,
	}
}

func newChildItem(parent models.Product, seq int) models.Product {
	parentID := parent.ID
	return models.Product{
		BaseModel:        models.BaseModel{ID: uuid.New()},
		ArticleReference: parent.ArticleReference,
		Quantity:         1,
		IsIndividualItem: true,
		ParentArticleID:  &parentID,
		ItemIdentifier:   ItemIdentifiers(parent.ArticleReference, seq)[seq-1],
	}
}

func newActiveLoan(productID uuid.UUID, status models.LoanStatus) models.Loan {
	return models.Loan{
		BaseModel: models.BaseModel{ID: uuid.New()},
		ProductID: productID,
		Status:    status,
	}
}

func TestComputePlainArticle(t *testing.T) {
	article := newArticle("AP-H100", 3)
	products := []models.Product{article}

	avail := Compute(article, products, nil)
	assert.Equal(t, Availability{Available: 3, Total: 3}, avail)

	loan := newActiveLoan(article.ID, models.LoanStatusOut)
	avail = Compute(article, products, []models.Loan{loan})
	assert.Equal(t, Availability{Available: 2, Total: 3}, avail)

	// Returned loans no longer deduct.
	loan.Status = models.LoanStatusReturned
	avail = Compute(article, products, ActiveLoans([]models.Loan{loan}))
	assert.Equal(t, Availability{Available: 3, Total: 3}, avail)
}

func TestComputeSampleLoansDeduct(t *testing.T) {
	article := newArticle("AP-H100", 2)
	products := []models.Product{article}
	loans := []models.Loan{newActiveLoan(article.ID, models.LoanStatusSample)}

	avail := Compute(article, products, loans)
	assert.Equal(t, 1, avail.Available)
}

func TestComputeSplitArticle(t *testing.T) {
	article := newArticle("AP-H100", 3)
	child1 := newChildItem(article, 1)
	child2 := newChildItem(article, 2)
	child3 := newChildItem(article, 3)
	article.Quantity = 0
	products := []models.Product{article, child1, child2, child3}

	avail := Compute(article, products, nil)
	assert.Equal(t, Availability{Available: 3, Total: 3, HasIndividualItems: true}, avail)

	// Lending one child drops the article-level availability.
	loans := []models.Loan{newActiveLoan(child2.ID, models.LoanStatusOut)}
	avail = Compute(article, products, loans)
	assert.Equal(t, Availability{Available: 2, Total: 3, HasIndividualItems: true}, avail)

	// The child itself reports 0 of 1.
	childAvail := Compute(child2, products, loans)
	assert.Equal(t, Availability{Available: 0, Total: 1}, childAvail)
}

func TestComputeSplitArticleCountsArticleLevelLoans(t *testing.T) {
	// Loans recorded against the split article's own id must deduct just
	// like loans on its items, or the article could be lent without limit.
	article := newArticle("AP-H100", 2)
	child1 := newChildItem(article, 1)
	child2 := newChildItem(article, 2)
	article.Quantity = 0
	products := []models.Product{article, child1, child2}

	loans := []models.Loan{
		newActiveLoan(article.ID, models.LoanStatusOut),
		newActiveLoan(article.ID, models.LoanStatusOut),
		newActiveLoan(article.ID, models.LoanStatusOut),
	}
	avail := Compute(article, products, loans)
	assert.Equal(t, Availability{Available: -1, Total: 2, HasIndividualItems: true}, avail)

	// Mixed article-level and item-level loans both count.
	loans = []models.Loan{
		newActiveLoan(article.ID, models.LoanStatusOut),
		newActiveLoan(child1.ID, models.LoanStatusOut),
	}
	avail = Compute(article, products, loans)
	assert.Equal(t, Availability{Available: 0, Total: 2, HasIndividualItems: true}, avail)
}

func TestComputeConservation(t *testing.T) {
	// available + active loans on children == child count, whatever is lent.
	article := newArticle("CLIQ-K5", 4)
	products := []models.Product{article}
	var children []models.Product
	for i := 1; i <= 4; i++ {
		c := newChildItem(article, i)
		children = append(children, c)
		products = append(products, c)
	}
	article.Quantity = 0

	for lent := 0; lent <= 4; lent++ {
		var loans []models.Loan
		for i := 0; i < lent; i++ {
			loans = append(loans, newActiveLoan(children[i].ID, models.LoanStatusOut))
		}
		avail := Compute(article, products, loans)
		assert.Equal(t, 4, avail.Total)
		assert.Equal(t, 4, avail.Available+lent)
	}
}

func TestComputeNegativeOnCorruptData(t *testing.T) {
	article := newArticle("AP-H100", 1)
	products := []models.Product{article}
	loans := []models.Loan{
		newActiveLoan(article.ID, models.LoanStatusOut),
		newActiveLoan(article.ID, models.LoanStatusOut),
	}

	avail := Compute(article, products, loans)
	assert.Equal(t, -1, avail.Available, "raw signed value must expose over-lending")
}

func TestItemIdentifiers(t *testing.T) {
	ids := ItemIdentifiers("AP-H100", 3)
	assert.Equal(t, []string{"AP-H100-001", "AP-H100-002", "AP-H100-003"}, ids)

	ids = ItemIdentifiers("REF", 12)
	assert.Len(t, ids, 12)
	assert.Equal(t, "REF-012", ids[11])
}
