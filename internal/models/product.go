// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is either an article tracked by aggregate quantity or, when
// IsIndividualItem is set, a single serialized unit belonging to a parent
// article. An article that has been split into individual items keeps
// Quantity == 0; its capacity is the number of child items.
type Product struct {
	BaseModel
	ArticleReference  string          `json:"article_reference" gorm:"size:100;not null;index"`
	Brand             string          `json:"brand" gorm:"size:100"`
	Description       string          `json:"description" gorm:"type:text"`
	Quantity          int             `json:"quantity" gorm:"default:0"`
	DeclaredValue     decimal.Decimal `json:"declared_value" gorm:"type:decimal(10,2);default:0"`
	IsIndividualItem  bool            `json:"is_individual_item" gorm:"default:false;index"`
	ParentArticleID   *uuid.UUID      `json:"parent_article_id" gorm:"type:uuid;index"`
	ItemIdentifier    string          `json:"item_identifier,omitempty" gorm:"size:120"`
	SerialNumber      string          `json:"serial_number,omitempty" gorm:"size:120"`
	BelongsToCase     bool            `json:"belongs_to_case" gorm:"default:false"`
	DemoCaseID        *uuid.UUID      `json:"demo_case_id" gorm:"type:uuid;index"`
	CanLendSeparately bool            `json:"can_lend_separately" gorm:"default:true"`
	KitName           string          `json:"kit_name,omitempty" gorm:"size:255"`

	// Relationships
	ParentArticle *Product  `json:"parent_article,omitempty" gorm:"foreignKey:ParentArticleID"`
	Items         []Product `json:"items,omitempty" gorm:"foreignKey:ParentArticleID"`
	DemoCase      *DemoCase `json:"demo_case,omitempty" gorm:"foreignKey:DemoCaseID"`
	Loans         []Loan    `json:"loans,omitempty" gorm:"foreignKey:ProductID"`
}
