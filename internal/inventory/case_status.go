// internal/inventory/case_status.go
package inventory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/demotrack/demotrack-backend/internal/models"
)

type CaseInventoryStatus string

const (
	CaseStatusEmpty      CaseInventoryStatus = "empty"
	CaseStatusComplete   CaseInventoryStatus = "complete"
	CaseStatusAllOut     CaseInventoryStatus = "allout"
	CaseStatusIncomplete CaseInventoryStatus = "incomplete"
)

// CaseStatus is the derived three-way (plus empty) classification of a demo
// case's member products. A member counts as available when no active loan
// references it.
type CaseStatus struct {
	Status    CaseInventoryStatus `json:"status"`
	Available int                 `json:"available"`
	Total     int                 `json:"total"`
	Loans     []models.Loan       `json:"loans,omitempty"`
}

// ComputeCaseStatus classifies a demo case from the member products and the
// active loans touching them.
func ComputeCaseStatus(caseID uuid.UUID, products []models.Product, activeLoans []models.Loan) CaseStatus {
	var members []models.Product
	for _, p := range products {
		if p.DemoCaseID != nil && *p.DemoCaseID == caseID {
			members = append(members, p)
		}
	}
	if len(members) == 0 {
		return CaseStatus{Status: CaseStatusEmpty}
	}

	available := 0
	var caseLoans []models.Loan
	for _, member := range members {
		memberLoans := loansFor(member.ID, activeLoans)
		if len(memberLoans) == 0 {
			available++
		} else {
			caseLoans = append(caseLoans, memberLoans...)
		}
	}

	status := CaseStatus{Available: available, Total: len(members)}
	switch {
	case available == len(members):
		status.Status = CaseStatusComplete
	case available == 0:
		status.Status = CaseStatusAllOut
		status.Loans = caseLoans
	default:
		status.Status = CaseStatusIncomplete
		status.Loans = caseLoans
	}
	return status
}

func loansFor(productID uuid.UUID, activeLoans []models.Loan) []models.Loan {
	var out []models.Loan
	for _, l := range activeLoans {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out
}

// Location describes where a demo case currently sits, derived from its
// status: at the office, at a single customer, or split between both.
type Location struct {
	Type      string   `json:"type"`
	Label     string   `json:"label"`
	Address   string   `json:"address,omitempty"`
	Customers []string `json:"customers,omitempty"`
}

func CurrentLocation(demoCase models.DemoCase, status CaseStatus) Location {
	if status.Status == CaseStatusComplete || status.Status == CaseStatusEmpty {
		label := demoCase.BaseLocation
		if label == "" {
			label = "Office"
		}
		return Location{Type: "office", Label: label, Address: demoCase.BaseAddress}
	}

	customers := uniqueCustomers(status.Loans)

	if status.Status == CaseStatusAllOut && len(customers) == 1 {
		loan := status.Loans[0]
		return Location{
			Type:    "customer",
			Label:   loan.CustomerName,
			Address: loan.CustomerAddress,
		}
	}

	return Location{
		Type: "split",
		Label: fmt.Sprintf("Split: Office (%d), %s (%d)",
			status.Available, strings.Join(customers, ", "), status.Total-status.Available),
		Customers: customers,
	}
}

func uniqueCustomers(loans []models.Loan) []string {
	seen := make(map[string]bool)
	var customers []string
	for _, l := range loans {
		if !seen[l.CustomerName] {
			seen[l.CustomerName] = true
			customers = append(customers, l.CustomerName)
		}
	}
	return customers
}

// CaseProductGroup is the inventory view of one demo case: its member
// products with aggregate capacity and availability.
type CaseProductGroup struct {
	Case           models.DemoCase  `json:"case"`
	Products       []models.Product `json:"products"`
	TotalItems     int              `json:"total_items"`
	AvailableItems int              `json:"available_items"`
}

// GroupProductsByCase splits the product list into per-case groups and
// products that do not belong to any case. Availability per member is
// computed fresh with the engine.
func GroupProductsByCase(products []models.Product, cases []models.DemoCase, activeLoans []models.Loan) ([]CaseProductGroup, []models.Product) {
	caseByID := make(map[uuid.UUID]models.DemoCase, len(cases))
	for _, c := range cases {
		caseByID[c.ID] = c
	}

	groupIdx := make(map[uuid.UUID]int)
	var groups []CaseProductGroup
	var ungrouped []models.Product

	for _, product := range products {
		// Individual items are represented through their parent article's
		// aggregate; listing them as well would double-count capacity.
		if product.IsIndividualItem {
			continue
		}
		if !product.BelongsToCase || product.DemoCaseID == nil {
			ungrouped = append(ungrouped, product)
			continue
		}

		caseID := *product.DemoCaseID
		idx, ok := groupIdx[caseID]
		if !ok {
			demoCase, found := caseByID[caseID]
			if !found {
				demoCase = models.DemoCase{CaseName: "Unknown Case"}
			}
			groups = append(groups, CaseProductGroup{Case: demoCase})
			idx = len(groups) - 1
			groupIdx[caseID] = idx
		}

		avail := Compute(product, products, activeLoans)
		g := &groups[idx]
		g.Products = append(g.Products, product)
		g.TotalItems += avail.Total
		g.AvailableItems += avail.Available
	}

	return groups, ungrouped
}
