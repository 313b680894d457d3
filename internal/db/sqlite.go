package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rental-app-go/internal/domain/billing"
	"rental-app-go/internal/domain/contract"
	"rental-app-go/internal/domain/notification"
	"rental-app-go/internal/domain/property"
	"rental-app-go/internal/domain/repair"
	"rental-app-go/internal/domain/team"
	"rental-app-go/internal/domain/user"
	"rental-app-go/internal/domain/verification"
	"rental-app-go/internal/domain/viewing"
	"rental-app-go/pkg/logger"
)

// NewSQLite opens a pure-Go SQLite database. ":memory:" keeps everything in
// a single connection so that all callers see the same database.
func NewSQLite(path string, log logger.Logger) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	log.Info("db: connected", "driver", "sqlite", "path", path)
	return gormDB, nil
}

func models() []any {
	return []any{
		&property.Property{},
		&user.Profile{},
		&contract.Contract{},
		&billing.Payment{},
		&viewing.Appointment{},
		&repair.Order{},
		&team.Member{},
		&verification.Verification{},
		&notification.Notification{},
		&notification.OutboxEvent{},
	}
}

// AutoMigrate creates the schema from the gorm models. Used for SQLite,
// where the postgres migration files do not apply.
func AutoMigrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, statement := range partialIndexes {
		if err := gormDB.Exec(statement).Error; err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}
	return nil
}

// partialIndexes mirror the filtered indexes of the postgres migrations,
// which struct tags cannot express.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_team_members_current ON team_members (landlord_id, member_id) WHERE status <> 'removed'`,
}
