// internal/models/demo_case.go
package models

// DemoCase is a named kit of products staged and usually lent together.
// Membership is held on the product side (Product.DemoCaseID).
type DemoCase struct {
	BaseModel
	CaseName     string   `json:"case_name" gorm:"size:255;not null;index"`
	CaseType     CaseType `json:"case_type" gorm:"type:varchar(50);default:'Custom'"`
	Description  string   `json:"description" gorm:"type:text"`
	BaseLocation string   `json:"base_location" gorm:"size:255"`
	BaseAddress  string   `json:"base_address" gorm:"size:255"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:DemoCaseID"`
}
