package verification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	domain "rental-app-go/internal/domain/verification"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, verification *domain.Verification) error {
	return database.Conn(ctx, r.db).Create(verification).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Verification, error) {
	var verification domain.Verification
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&verification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVerificationNotFound
		}
		return nil, err
	}
	return &verification, nil
}

func (r *PostgresRepository) Latest(ctx context.Context, userID string, kind domain.Kind) (*domain.Verification, error) {
	query := database.Conn(ctx, r.db).Where("user_id = ?", userID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var verification domain.Verification
	err := query.Order("created_at desc").First(&verification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrVerificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *PostgresRepository) ListPending(ctx context.Context, limit int) ([]domain.Verification, error) {
	query := database.Conn(ctx, r.db).
		Where("status = ?", domain.StatusPending).
		Order("created_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var verifications []domain.Verification
	if err := query.Find(&verifications).Error; err != nil {
		return nil, err
	}
	return verifications, nil
}

func (r *PostgresRepository) Update(ctx context.Context, verification *domain.Verification, expectedVersion int) error {
	return database.UpdateVersioned(ctx, r.db, verification, expectedVersion)
}
