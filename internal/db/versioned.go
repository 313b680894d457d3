package db

import (
	"context"

	"gorm.io/gorm"

	"rental-app-go/internal/domain/lifecycle"
)

// UpdateVersioned writes every column of model when the stored row still has
// expectedVersion. model must carry its primary key and the incremented
// version. A stale or missing row yields lifecycle.ErrConflict.
func UpdateVersioned(ctx context.Context, base *gorm.DB, model any, expectedVersion int) error {
	result := Conn(ctx, base).
		Model(model).
		Where("version = ?", expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lifecycle.ErrConflict
	}
	return nil
}
