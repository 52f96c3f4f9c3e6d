package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wnt/elwcore/internal/config"
	"github.com/wnt/elwcore/internal/models"
)

func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	)

	// Configure GORM with optimized settings
	gormConfig := &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: true, // Prepare statement for better performance
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	// Set connection pool limits
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Migrate database schema
	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies the schema. It is exported so tests can run the same
// migration against an in-memory database.
func Migrate(db *gorm.DB) error {
	// Migrate models
	if err := db.AutoMigrate(
		&models.VaultBalance{},
		&models.PresaleSummary{},
		&models.PurchaseRecord{},
		&models.MemberClaim{},
		&models.RewardClaim{},
		&models.MiningPool{},
		&models.MinerPosition{},
		&models.ActionRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Add composite indexes for common query patterns
	db.Exec("CREATE INDEX IF NOT EXISTS idx_purchases_state_unlock ON purchase_records(state, unlock_time)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_actions_kind_status ON action_records(kind, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_positions_currency ON miner_positions(currency)")

	return nil
}
