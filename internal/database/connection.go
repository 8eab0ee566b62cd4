// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/demotrack/demotrack-backend/internal/config"
	"github.com/demotrack/demotrack-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.TeamMember{},
		&models.DemoCase{},
		&models.Product{},
		&models.Loan{},
		&models.ActivityLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Team member indexes
		"CREATE INDEX IF NOT EXISTS idx_team_members_email ON team_members(email)",
		"CREATE INDEX IF NOT EXISTS idx_team_members_role_status ON team_members(role, status)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_article_reference ON products(article_reference)",
		"CREATE INDEX IF NOT EXISTS idx_products_parent_article ON products(parent_article_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_demo_case ON products(demo_case_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_individual ON products(is_individual_item)",

		// Loan indexes
		"CREATE INDEX IF NOT EXISTS idx_loans_product_status ON loans(product_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_loans_customer ON loans(customer_name)",
		"CREATE INDEX IF NOT EXISTS idx_loans_responsible ON loans(responsible_email)",
		"CREATE INDEX IF NOT EXISTS idx_loans_kit_name ON loans(kit_name)",
		"CREATE INDEX IF NOT EXISTS idx_loans_expected_return ON loans(expected_return_date)",

		// Demo case indexes
		"CREATE INDEX IF NOT EXISTS idx_demo_cases_name ON demo_cases(case_name)",

		// Activity log indexes
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_action ON activity_logs(action)",
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_user ON activity_logs(user_email)",
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_entity ON activity_logs(entity_type, entity_id)",
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_created ON activity_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var adminCount int64
	db.Model(&models.TeamMember{}).Where("role = ?", models.TeamRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.TeamMember{
			FirstName: "System",
			LastName:  "Administrator",
			Email:     "admin@demotrack.local",
			Role:      models.TeamRoleAdmin,
			Status:    models.MemberStatusActive,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin team member: %w", err)
		}

		log.Println("Default admin team member created successfully")
	}

	return nil
}
