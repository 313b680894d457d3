package analytics

import "context"

type Repository interface {
	Totals(ctx context.Context, landlordID string, filter IncomeFilter) (Totals, error)
	Entries(ctx context.Context, landlordID string, filter IncomeFilter) ([]Entry, error)
	// TopProperties ranks properties by confirmed income and reports how
	// many confirmed bills were read to build the ranking.
	TopProperties(ctx context.Context, landlordID string, filter TopPropertiesFilter) ([]PropertyRow, int64, error)
}
