// Package dbtest opens throwaway SQLite databases for repository tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	"rental-app-go/pkg/logger"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := database.NewSQLite(":memory:", logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}
