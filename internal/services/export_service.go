// internal/services/export_service.go
package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/apperrors"
	"github.com/demotrack/demotrack-backend/internal/config"
	"github.com/demotrack/demotrack-backend/internal/inventory"
	"github.com/demotrack/demotrack-backend/internal/models"
)

// ExportService renders the activity trail as CSV and the inventory as an
// Excel workbook.
type ExportService struct {
	db       *gorm.DB
	cfg      *config.Config
	activity *ActivityService
}

func NewExportService(db *gorm.DB, cfg *config.Config, activity *ActivityService) *ExportService {
	return &ExportService{db: db, cfg: cfg, activity: activity}
}

const activityTimeLayout = "2006-01-02 15:04:05"

// ActivityCSV renders the activity log oldest-first with the columns
// Date, User, Action, Details. The date is unquoted; the remaining columns
// are quoted, with inner quotes doubled in the details column.
func (s *ExportService) ActivityCSV(limit int) (string, error) {
	logs, err := s.activity.ListAll(limit)
	if err != nil {
		return "", err
	}
	return renderActivityCSV(logs), nil
}

func renderActivityCSV(logs []models.ActivityLog) string {
	var b strings.Builder
	b.WriteString("Date,User,Action,Details")
	for _, log := range logs {
		user := log.UserEmail
		if user == "" {
			user = "System"
		}
		b.WriteString("\n")
		b.WriteString(log.CreatedAt.Format(activityTimeLayout))
		b.WriteString(fmt.Sprintf(`,"%s","%s","%s"`,
			user, log.Action, strings.ReplaceAll(log.Details, `"`, `""`)))
	}
	return b.String()
}

// ActivityCSVFilename names the download after the current day.
func (s *ExportService) ActivityCSVFilename(now time.Time) string {
	return fmt.Sprintf("activity_log_%s.csv", now.Format("20060102"))
}

// InventoryXLSX renders every non-individual product with its computed
// availability and case assignment into a single-sheet workbook.
func (s *ExportService) InventoryXLSX() ([]byte, string, error) {
	var products []models.Product
	if err := s.db.Limit(s.cfg.Lending.FetchLimit).Find(&products).Error; err != nil {
		return nil, "", apperrors.Store(err)
	}
	var activeLoans []models.Loan
	if err := s.db.
		Where("status IN ?", []models.LoanStatus{models.LoanStatusOut, models.LoanStatusSample}).
		Limit(s.cfg.Lending.FetchLimit).
		Find(&activeLoans).Error; err != nil {
		return nil, "", apperrors.Store(err)
	}
	var cases []models.DemoCase
	if err := s.db.Find(&cases).Error; err != nil {
		return nil, "", apperrors.Store(err)
	}
	caseNames := make(map[string]string, len(cases))
	for _, c := range cases {
		caseNames[c.ID.String()] = c.CaseName
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"article_reference",
		"brand",
		"description",
		"quantity",
		"available",
		"declared_value",
		"demo_case",
		"kit_name",
		"individually_tracked",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, product := range products {
		if product.IsIndividualItem {
			continue
		}

		avail := inventory.Compute(product, products, activeLoans)

		caseName := ""
		if product.DemoCaseID != nil {
			caseName = caseNames[product.DemoCaseID.String()]
		}

		excelRow := []interface{}{
			product.ArticleReference,
			product.Brand,
			product.Description,
			avail.Total,
			avail.Available,
			product.DeclaredValue.String(),
			caseName,
			product.KitName,
			avail.HasIndividualItems,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, "", fmt.Errorf("failed to address row %d: %w", row, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, "", fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}
