// internal/services/import_service.go
package services

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/models"
)

// ImportService bulk-creates products from pasted spreadsheet text.
type ImportService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewImportService(db *gorm.DB, activity *ActivityService) *ImportService {
	return &ImportService{db: db, activity: activity}
}

// ImportRow is one parsed line of pasted text. Column order is
// article reference, brand, description, case name (optional) and
// quantity (optional, defaults to 1).
type ImportRow struct {
	ArticleReference string `json:"article_reference"`
	Brand            string `json:"brand"`
	Description      string `json:"description"`
	CaseName         string `json:"case_name"`
	Quantity         int    `json:"quantity"`
}

// ImportPreview shows what an import would do before it runs.
type ImportPreview struct {
	Rows         []ImportRow `json:"rows"`
	NewCaseNames []string    `json:"new_case_names"`
}

// ImportResult reports what an import did.
type ImportResult struct {
	ProductsCreated int      `json:"products_created"`
	CasesCreated    []string `json:"cases_created"`
	SkippedLines    int      `json:"skipped_lines"`
}

// ParseImport splits pasted text into rows. Lines are split on tab when one
// is present, otherwise on comma; lines with fewer than three columns are
// dropped.
func ParseImport(text string) []ImportRow {
	var rows []ImportRow
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		var parts []string
		if strings.Contains(line, "\t") {
			parts = strings.Split(line, "\t")
		} else {
			parts = strings.Split(line, ",")
		}
		if len(parts) < 3 {
			continue
		}

		row := ImportRow{
			ArticleReference: strings.TrimSpace(parts[0]),
			Brand:            strings.TrimSpace(parts[1]),
			Description:      strings.TrimSpace(parts[2]),
			Quantity:         1,
		}
		if len(parts) > 3 {
			row.CaseName = strings.TrimSpace(parts[3])
		}
		if len(parts) > 4 {
			if qty, err := strconv.Atoi(strings.TrimSpace(parts[4])); err == nil && qty > 0 {
				row.Quantity = qty
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Preview parses the text and reports which referenced demo cases do not
// exist yet. Case name matching is case-insensitive.
func (s *ImportService) Preview(text string) (*ImportPreview, error) {
	rows := ParseImport(text)

	existing, err := s.existingCaseNames()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var newNames []string
	for _, row := range rows {
		if row.CaseName == "" {
			continue
		}
		lower := strings.ToLower(row.CaseName)
		if existing[lower] != uuid.Nil || seen[lower] {
			continue
		}
		seen[lower] = true
		newNames = append(newNames, row.CaseName)
	}

	return &ImportPreview{Rows: rows, NewCaseNames: newNames}, nil
}

// Import parses the text, creates any missing demo cases, and creates one
// product per valid row linked to its case.
func (s *ImportService) Import(text, actorEmail string) (*ImportResult, error) {
	rows := ParseImport(text)

	var valid []ImportRow
	skipped := 0
	for _, row := range rows {
		if row.ArticleReference == "" || row.Quantity <= 0 {
			skipped++
			continue
		}
		valid = append(valid, row)
	}
	if len(valid) == 0 {
		return nil, apperrors.Validation("no importable rows found")
	}

	caseIDs, err := s.existingCaseNames()
	if err != nil {
		return nil, err
	}

	var casesCreated []string
	for _, row := range valid {
		if row.CaseName == "" {
			continue
		}
		lower := strings.ToLower(row.CaseName)
		if caseIDs[lower] != uuid.Nil {
			continue
		}
		demoCase := models.DemoCase{
			CaseName:    row.CaseName,
			CaseType:    models.CaseTypeCustom,
			Description: "Auto-created from import",
		}
		if err := s.db.Create(&demoCase).Error; err != nil {
			return nil, apperrors.Store(err)
		}
		caseIDs[lower] = demoCase.ID
		casesCreated = append(casesCreated, row.CaseName)
	}

	created := 0
	for _, row := range valid {
		product := models.Product{
			ArticleReference:  row.ArticleReference,
			Brand:             row.Brand,
			Description:       row.Description,
			Quantity:          row.Quantity,
			BelongsToCase:     row.CaseName != "",
			CanLendSeparately: true,
		}
		if row.CaseName != "" {
			if id := caseIDs[strings.ToLower(row.CaseName)]; id != uuid.Nil {
				caseID := id
				product.DemoCaseID = &caseID
			}
		}
		if err := s.db.Create(&product).Error; err != nil {
			return nil, apperrors.Store(err)
		}
		created++
	}

	details := "Imported " + strconv.Itoa(created) + " products"
	if len(casesCreated) > 0 {
		details += " and created " + strconv.Itoa(len(casesCreated)) + " demo cases"
	}
	s.activity.Record("Bulk Import", details, actorEmail, "Product", nil)

	return &ImportResult{
		ProductsCreated: created,
		CasesCreated:    casesCreated,
		SkippedLines:    skipped,
	}, nil
}

func (s *ImportService) existingCaseNames() (map[string]uuid.UUID, error) {
	var cases []models.DemoCase
	if err := s.db.Find(&cases).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	byName := make(map[string]uuid.UUID, len(cases))
	for _, c := range cases {
		byName[strings.ToLower(c.CaseName)] = c.ID
	}
	return byName, nil
}
