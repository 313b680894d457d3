package db

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"rental-app-go/migrations"
)

// ErrNoMigrations is returned when the migration source holds no .sql files.
var ErrNoMigrations = errors.New("no migration files found")

// Migrate applies the embedded postgres migrations.
func Migrate(gormDB *gorm.DB) error {
	return MigrateFS(gormDB, migrations.Files)
}

// MigrateFS applies every not yet recorded .sql file at the root of files,
// in name order. Each file and its schema_migrations row commit together.
func MigrateFS(gormDB *gorm.DB, files fs.FS) error {
	names, err := migrationNames(files)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return ErrNoMigrations
	}

	if err := ensureSchemaMigrations(gormDB); err != nil {
		return err
	}

	for _, name := range names {
		applied, err := isMigrationApplied(gormDB, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		contents, err := fs.ReadFile(files, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := strings.TrimSpace(string(contents))

		err = gormDB.Transaction(func(tx *gorm.DB) error {
			if statements != "" {
				if err := tx.Exec(statements).Error; err != nil {
					return err
				}
			}
			return tx.Exec("INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)", name, time.Now().UTC()).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

func migrationNames(files fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func ensureSchemaMigrations(gormDB *gorm.DB) error {
	return gormDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error
}

func isMigrationApplied(gormDB *gorm.DB, name string) (bool, error) {
	var count int64
	if err := gormDB.Raw("SELECT COUNT(1) FROM schema_migrations WHERE filename = ?", name).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
