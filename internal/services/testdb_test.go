// internal/services/testdb_test.go
package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/demotrack/demotrack-backend/internal/config"
	"github.com/demotrack/demotrack-backend/internal/models"
)

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.TeamMember{},
		&models.DemoCase{},
		&models.Product{},
		&models.Loan{},
		&models.ActivityLog{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		JWT:    config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1},
		Lending: config.LendingConfig{
			DefaultLoanWeeks: 2,
			FetchLimit:       1000,
		},
	}
}

func seedMember(t *testing.T, db *gorm.DB, email string) *models.TeamMember {
	t.Helper()

	member := &models.TeamMember{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Role:      models.TeamRoleMember,
		Status:    models.MemberStatusActive,
	}
	require.NoError(t, member.SetPassword("Lend1ng!demo"))
	require.NoError(t, db.Create(member).Error)
	return member
}

func seedProduct(t *testing.T, db *gorm.DB, product *models.Product) *models.Product {
	t.Helper()
	require.NoError(t, db.Create(product).Error)
	return product
}

func lendRequest(responsibleEmail string) *LendRequest {
	return &LendRequest{
		CustomerName:     "Acme Corp",
		ResponsibleEmail: responsibleEmail,
	}
}
