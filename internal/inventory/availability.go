// internal/inventory/availability.go
package inventory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/demotrack/demotrack-backend/internal/models"
)

// Availability is the derived free/total capacity of a product. It is
// recomputed from the current collections on every read and never stored.
// Available can go negative when the store holds more active loans than
// capacity; callers clamp for display, audits want the raw value.
type Availability struct {
	Available          int  `json:"available"`
	Total              int  `json:"total"`
	HasIndividualItems bool `json:"has_individual_items"`
}

// ActiveLoans keeps only loans that still deduct from availability.
func ActiveLoans(loans []models.Loan) []models.Loan {
	active := make([]models.Loan, 0, len(loans))
	for _, l := range loans {
		if l.IsActive() {
			active = append(active, l)
		}
	}
	return active
}

// ChildItems returns the individual items split off from the given article.
func ChildItems(articleID uuid.UUID, products []models.Product) []models.Product {
	var children []models.Product
	for _, p := range products {
		if p.IsIndividualItem && p.ParentArticleID != nil && *p.ParentArticleID == articleID {
			children = append(children, p)
		}
	}
	return children
}

func countLoansFor(productID uuid.UUID, activeLoans []models.Loan) int {
	n := 0
	for _, l := range activeLoans {
		if l.ProductID == productID {
			n++
		}
	}
	return n
}

// Compute derives the availability of a product from the full product and
// active-loan collections.
//
// An individual item has capacity Quantity (1 by construction). An article
// that has been split sums its children and ignores its own Quantity field,
// which the split operation pins to 0. A plain article uses its Quantity.
func Compute(product models.Product, products []models.Product, activeLoans []models.Loan) Availability {
	if product.IsIndividualItem {
		return Availability{
			Available: product.Quantity - countLoansFor(product.ID, activeLoans),
			Total:     product.Quantity,
		}
	}

	children := ChildItems(product.ID, products)
	if len(children) > 0 {
		available := 0
		for _, child := range children {
			available += 1 - countLoansFor(child.ID, activeLoans)
		}
		// Loans recorded against the article id itself still deduct, so
		// stale article-level loans cannot inflate availability.
		available -= countLoansFor(product.ID, activeLoans)
		return Availability{
			Available:          available,
			Total:              len(children),
			HasIndividualItems: true,
		}
	}

	return Availability{
		Available: product.Quantity - countLoansFor(product.ID, activeLoans),
		Total:     product.Quantity,
	}
}

// ItemIdentifiers builds the stable labels assigned when an article is split
// into n individual items: REF-001, REF-002, ...
func ItemIdentifiers(articleReference string, n int) []string {
	identifiers := make([]string, n)
	for i := 0; i < n; i++ {
		identifiers[i] = fmt.Sprintf("%s-%03d", articleReference, i+1)
	}
	return identifiers
}
