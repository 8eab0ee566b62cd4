// internal/models/loan.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Loan is one lending transaction for exactly one product unit.
// ProductArticle, ProductDescription and KitName are snapshots taken when the
// loan is created; they intentionally go stale if the product is edited later.
type Loan struct {
	BaseModel
	ProductID          uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductArticle     string     `json:"product_article" gorm:"size:100"`
	ProductDescription string     `json:"product_description" gorm:"type:text"`
	CustomerName       string     `json:"customer_name" gorm:"size:255;not null;index"`
	CustomerAddress    string     `json:"customer_address,omitempty" gorm:"size:255"`
	ResponsibleEmail   string     `json:"responsible_email" gorm:"size:255;index"`
	ResponsibleName    string     `json:"responsible_name" gorm:"size:255"`
	LentByEmail        string     `json:"lent_by_email" gorm:"size:255"`
	LentDate           time.Time  `json:"lent_date" gorm:"type:date;not null"`
	ExpectedReturnDate *time.Time `json:"expected_return_date" gorm:"type:date"`
	ActualReturnDate   *time.Time `json:"actual_return_date" gorm:"type:date"`
	Status             LoanStatus `json:"status" gorm:"type:varchar(20);default:'out';index"`
	Notes              string     `json:"notes,omitempty" gorm:"type:text"`
	KitName            string     `json:"kit_name,omitempty" gorm:"size:255;index"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// IsActive reports whether the loan still deducts from availability.
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusOut || l.Status == LoanStatusSample
}

// IsOverdue reports whether the loan is past its expected return date.
// Samples have no expected return and are never overdue.
func (l *Loan) IsOverdue(now time.Time) bool {
	if l.Status != LoanStatusOut || l.ExpectedReturnDate == nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return l.ExpectedReturnDate.Before(today)
}
