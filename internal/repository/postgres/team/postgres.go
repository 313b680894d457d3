package team

import (
	"context"
	"errors"

	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	domain "rental-app-go/internal/domain/team"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, member *domain.Member) error {
	return database.Conn(ctx, r.db).Create(member).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	var member domain.Member
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) FindCurrent(ctx context.Context, landlordID, memberID string) (*domain.Member, error) {
	var member domain.Member
	err := database.Conn(ctx, r.db).
		Where("landlord_id = ? AND member_id = ? AND status <> ?", landlordID, memberID, domain.StatusRemoved).
		Order("created_at desc").
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListByLandlord(ctx context.Context, landlordID string) ([]domain.Member, error) {
	var members []domain.Member
	if err := database.Conn(ctx, r.db).
		Where("landlord_id = ? AND status <> ?", landlordID, domain.StatusRemoved).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) ListByMember(ctx context.Context, memberID string) ([]domain.Member, error) {
	var members []domain.Member
	if err := database.Conn(ctx, r.db).
		Where("member_id = ?", memberID).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) Update(ctx context.Context, member *domain.Member, expectedVersion int) error {
	return database.UpdateVersioned(ctx, r.db, member, expectedVersion)
}
