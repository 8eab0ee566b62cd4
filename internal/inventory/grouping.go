// internal/inventory/grouping.go
package inventory

import (
	"github.com/google/uuid"

	"github.com/demotrack/demotrack-backend/internal/models"
)

// LoanGroup collects the active loans of one demo case lent to one customer,
// for bulk display and bulk return.
type LoanGroup struct {
	CaseName        string        `json:"case_name"`
	CustomerName    string        `json:"customer_name"`
	CustomerAddress string        `json:"customer_address,omitempty"`
	Loans           []models.Loan `json:"loans"`
	NeedsDataFix    bool          `json:"needs_data_fix"`
}

// GroupActiveLoans partitions active loans into case groups and standalone
// loans using a two-tier match:
//
//  1. a non-empty KitName on the loan groups by (kit_name, customer) and is
//     authoritative;
//  2. otherwise, if the loan's product belongs to a resolvable demo case, the
//     loan groups by (case_name, customer) and the group is marked
//     NeedsDataFix, since the loan's own KitName should have been set.
//
// Loans matching neither tier are returned as standalone.
func GroupActiveLoans(loans []models.Loan, products []models.Product, cases []models.DemoCase) ([]LoanGroup, []models.Loan) {
	productByID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}
	caseByID := make(map[uuid.UUID]models.DemoCase, len(cases))
	for _, c := range cases {
		caseByID[c.ID] = c
	}

	type key struct {
		caseName string
		customer string
	}
	groupIdx := make(map[key]int)
	var groups []LoanGroup
	var standalone []models.Loan

	add := func(k key, loan models.Loan, needsFix bool) {
		idx, ok := groupIdx[k]
		if !ok {
			groups = append(groups, LoanGroup{
				CaseName:        k.caseName,
				CustomerName:    k.customer,
				CustomerAddress: loan.CustomerAddress,
			})
			idx = len(groups) - 1
			groupIdx[k] = idx
		}
		g := &groups[idx]
		g.Loans = append(g.Loans, loan)
		if needsFix {
			g.NeedsDataFix = true
		}
		if g.CustomerAddress == "" {
			g.CustomerAddress = loan.CustomerAddress
		}
	}

	for _, loan := range loans {
		if !loan.IsActive() {
			continue
		}

		if loan.KitName != "" {
			add(key{loan.KitName, loan.CustomerName}, loan, false)
			continue
		}

		if product, ok := productByID[loan.ProductID]; ok && product.BelongsToCase && product.DemoCaseID != nil {
			if demoCase, ok := caseByID[*product.DemoCaseID]; ok {
				add(key{demoCase.CaseName, loan.CustomerName}, loan, true)
				continue
			}
		}

		standalone = append(standalone, loan)
	}

	return groups, standalone
}
