package analytics

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	database "rental-app-go/internal/db"
	analyticsdomain "rental-app-go/internal/domain/analytics"
	billingdomain "rental-app-go/internal/domain/billing"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Totals(ctx context.Context, landlordID string, filter analyticsdomain.IncomeFilter) (analyticsdomain.Totals, error) {
	where, args := buildPaymentWhere(landlordID, filter.From, filter.To, filter.PropertyIDs)
	query := "SELECT " +
		"COALESCE(SUM(CASE WHEN p.status = ? THEN p.amount ELSE 0 END), 0) AS collected, " +
		"COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS collected_count, " +
		"COALESCE(SUM(CASE WHEN p.status = ? THEN p.amount ELSE 0 END), 0) AS awaiting, " +
		"COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS awaiting_count, " +
		"COALESCE(SUM(CASE WHEN p.status = ? THEN p.amount ELSE 0 END), 0) AS outstanding, " +
		"COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS outstanding_count " +
		"FROM payments p WHERE " + where

	statusArgs := []interface{}{
		billingdomain.StatusConfirmed, billingdomain.StatusConfirmed,
		billingdomain.StatusPaid, billingdomain.StatusPaid,
		billingdomain.StatusPending, billingdomain.StatusPending,
	}

	var totals analyticsdomain.Totals
	if err := database.Conn(ctx, r.db).Raw(query, append(statusArgs, args...)...).Scan(&totals).Error; err != nil {
		return analyticsdomain.Totals{}, err
	}
	return totals, nil
}

// Entries returns the bills in range; the domain buckets them by month so
// the query stays portable across Postgres and SQLite.
func (r *PostgresRepository) Entries(ctx context.Context, landlordID string, filter analyticsdomain.IncomeFilter) ([]analyticsdomain.Entry, error) {
	where, args := buildPaymentWhere(landlordID, filter.From, filter.To, filter.PropertyIDs)

	var rows []struct {
		DueDate time.Time `gorm:"column:due_date"`
		Amount  float64   `gorm:"column:amount"`
		Status  string    `gorm:"column:status"`
	}
	query := "SELECT p.due_date, p.amount, p.status FROM payments p WHERE " + where + " ORDER BY p.due_date"
	if err := database.Conn(ctx, r.db).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]analyticsdomain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, analyticsdomain.Entry{DueDate: row.DueDate, Amount: row.Amount, Status: row.Status})
	}
	return entries, nil
}

func (r *PostgresRepository) TopProperties(ctx context.Context, landlordID string, filter analyticsdomain.TopPropertiesFilter) ([]analyticsdomain.PropertyRow, int64, error) {
	readLimit := filter.DBReadLimit
	if readLimit <= 0 {
		readLimit = 1000
	}
	responseCount := filter.ResponseCount
	if responseCount <= 0 {
		responseCount = 5
	}

	countQuery := "SELECT COUNT(*) AS records_read FROM (SELECT 1 FROM payments p WHERE p.landlord_id = ? AND p.status = ? AND p.due_date >= ? AND p.due_date <= ? ORDER BY p.due_date DESC LIMIT ?) limited_payments"
	var countRow struct {
		RecordsRead int64 `gorm:"column:records_read"`
	}
	if err := database.Conn(ctx, r.db).Raw(countQuery, landlordID, billingdomain.StatusConfirmed, filter.From, filter.To, readLimit).Scan(&countRow).Error; err != nil {
		return nil, 0, err
	}

	query := "WITH limited_payments AS (" +
		"SELECT p.property_id, p.amount FROM payments p WHERE p.landlord_id = ? AND p.status = ? AND p.due_date >= ? AND p.due_date <= ? ORDER BY p.due_date DESC LIMIT ?" +
		") SELECT lp.property_id AS property_id, COALESCE(SUM(lp.amount), 0) AS collected, COUNT(*) AS count " +
		"FROM limited_payments lp " +
		"GROUP BY lp.property_id " +
		"ORDER BY collected DESC, count DESC " +
		"LIMIT ?"

	var rows []analyticsdomain.PropertyRow
	if err := database.Conn(ctx, r.db).Raw(query, landlordID, billingdomain.StatusConfirmed, filter.From, filter.To, readLimit, responseCount).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, countRow.RecordsRead, nil
}

func buildPaymentWhere(landlordID string, from, to time.Time, propertyIDs []string) (string, []interface{}) {
	conditions := []string{"p.landlord_id = ?", "p.due_date >= ?", "p.due_date <= ?"}
	args := []interface{}{landlordID, from, to}

	if len(propertyIDs) > 0 {
		conditions = append(conditions, "p.property_id IN (?)")
		args = append(args, propertyIDs)
	}

	return strings.Join(conditions, " AND "), args
}
