// internal/services/import_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImportTabSeparated(t *testing.T) {
	text := "AP-H100-BK\tAperio\tHandle\tDemo Kit A\t2\nYAL-L1\tYale\tSmart Lock\t\t3"

	rows := ParseImport(text)

	assert.Len(t, rows, 2)
	assert.Equal(t, "AP-H100-BK", rows[0].ArticleReference)
	assert.Equal(t, "Aperio", rows[0].Brand)
	assert.Equal(t, "Handle", rows[0].Description)
	assert.Equal(t, "Demo Kit A", rows[0].CaseName)
	assert.Equal(t, 2, rows[0].Quantity)

	assert.Equal(t, "YAL-L1", rows[1].ArticleReference)
	assert.Equal(t, "", rows[1].CaseName)
	assert.Equal(t, 3, rows[1].Quantity)
}

func TestParseImportCommaFallback(t *testing.T) {
	rows := ParseImport("CLIQ-C10,CLIQ,Cylinder,,5")

	assert.Len(t, rows, 1)
	assert.Equal(t, "CLIQ-C10", rows[0].ArticleReference)
	assert.Equal(t, "CLIQ", rows[0].Brand)
	assert.Equal(t, "Cylinder", rows[0].Description)
	assert.Equal(t, 5, rows[0].Quantity)
}

func TestParseImportDropsShortLines(t *testing.T) {
	text := "AP-H100-BK\tAperio\tHandle\nonly-one-column\ntwo\tcolumns"

	rows := ParseImport(text)

	assert.Len(t, rows, 1)
	assert.Equal(t, "AP-H100-BK", rows[0].ArticleReference)
}

func TestParseImportQuantityDefaultsToOne(t *testing.T) {
	rows := ParseImport("AP-H100-BK\tAperio\tHandle\tDemo Kit A")
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Quantity)

	// Garbage quantity also falls back to 1
	rows = ParseImport("AP-H100-BK\tAperio\tHandle\tDemo Kit A\tabc")
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Quantity)
}

func TestParseImportTrimsWhitespace(t *testing.T) {
	rows := ParseImport("  AP-H100-BK \t Aperio \t Handle \t Kit \t 2 ")

	assert.Len(t, rows, 1)
	assert.Equal(t, "AP-H100-BK", rows[0].ArticleReference)
	assert.Equal(t, "Aperio", rows[0].Brand)
	assert.Equal(t, "Kit", rows[0].CaseName)
	assert.Equal(t, 2, rows[0].Quantity)
}
