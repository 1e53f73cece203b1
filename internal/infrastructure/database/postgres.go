package database

import (
	"fmt"
	"log"

	"github.com/sangkips/oscr-register/internal/config"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// versionIndexes keep at most one open and one unbounded-past version per
// natural key.
var versionIndexes = []struct {
	table string
	key   string
}{
	{"sales_items", "kind, name"},
	{"offers", "kind, item_name"},
	{"users", "name"},
	{"vat_classes", "name"},
	{"tax_infos", "usage"},
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Versioned catalog and tax entities
		&entity.SalesItem{},
		&entity.Offer{},
		&entity.VATClass{},
		&entity.TaxInfo{},
		&entity.User{},

		// Bills
		&entity.Bill{},
		&entity.BillItem{},
		&entity.BillItemOffer{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, idx := range versionIndexes {
		stmts := []string{
			fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS uq_%s_open ON %s (%s) WHERE valid_to IS NULL", idx.table, idx.table, idx.key),
			fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS uq_%s_unbounded ON %s (%s) WHERE valid_from IS NULL", idx.table, idx.table, idx.key),
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create version index on %s: %w", idx.table, err)
			}
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
