package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-app-go/internal/domain/lifecycle"
)

type fakeAnalyticsRepo struct {
	totals                   map[string]Totals
	entries                  []Entry
	topPropertiesRows        []PropertyRow
	topPropertiesRecordsRead int64
	topPropertiesCalls       int
}

func (f *fakeAnalyticsRepo) Totals(ctx context.Context, landlordID string, filter IncomeFilter) (Totals, error) {
	key := lifecycle.FormatDate(filter.From) + "_" + lifecycle.FormatDate(filter.To)
	return f.totals[key], nil
}

func (f *fakeAnalyticsRepo) Entries(ctx context.Context, landlordID string, filter IncomeFilter) ([]Entry, error) {
	return f.entries, nil
}

func (f *fakeAnalyticsRepo) TopProperties(ctx context.Context, landlordID string, filter TopPropertiesFilter) ([]PropertyRow, int64, error) {
	f.topPropertiesCalls++
	rows := make([]PropertyRow, len(f.topPropertiesRows))
	copy(rows, f.topPropertiesRows)
	return rows, f.topPropertiesRecordsRead, nil
}

type titles map[string]string

func (t titles) PropertyTitle(_ context.Context, id string) string { return t[id] }

func (t titles) DisplayName(context.Context, string) string { return "" }

func day(value string) time.Time {
	parsed, err := lifecycle.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestSummaryCollectionRate(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		totals: map[string]Totals{
			"2026-01-01_2026-03-31": {Collected: 6000, CollectedCount: 2, AwaitingAmount: 1000, AwaitingCount: 1, OutstandingTotal: 1000, OutstandingCount: 1},
		},
	}
	svc := NewService(repo, nil)

	result, err := svc.Summary(context.Background(), "landlord-1", IncomeFilter{From: day("2026-01-01"), To: day("2026-03-31")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CollectionRate != 0.75 {
		t.Fatalf("expected rate 0.75, got %v", result.CollectionRate)
	}
	if result.OutstandingCount != 1 {
		t.Fatalf("expected 1 outstanding bill, got %d", result.OutstandingCount)
	}
}

func TestSummaryRejectsInvertedRange(t *testing.T) {
	svc := NewService(&fakeAnalyticsRepo{}, nil)

	_, err := svc.Summary(context.Background(), "landlord-1", IncomeFilter{From: day("2026-03-01"), To: day("2026-01-01")})
	if !errors.Is(err, lifecycle.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMonthlyFillsEmptyMonths(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		entries: []Entry{
			{DueDate: day("2026-01-05"), Amount: 3000, Status: "confirmed"},
			{DueDate: day("2026-03-05"), Amount: 3000, Status: "pending"},
			{DueDate: day("2026-03-05"), Amount: 200, Status: "paid"},
		},
	}
	svc := NewService(repo, nil)

	rows, err := svc.Monthly(context.Background(), "landlord-1", IncomeFilter{From: day("2026-01-01"), To: day("2026-03-31")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 months, got %+v", rows)
	}
	if rows[0].Month != "2026-01" || rows[0].Collected != 3000 {
		t.Fatalf("unexpected january row: %+v", rows[0])
	}
	if rows[1].Month != "2026-02" || rows[1].Count != 0 {
		t.Fatalf("expected empty february, got %+v", rows[1])
	}
	if rows[2].Outstanding != 3000 || rows[2].Awaiting != 200 || rows[2].Count != 2 {
		t.Fatalf("unexpected march row: %+v", rows[2])
	}
}

func TestCompareDelta(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		totals: map[string]Totals{
			"2026-01-01_2026-01-31": {Collected: 2800, CollectedCount: 2},
			"2025-12-01_2025-12-31": {Collected: 3200, CollectedCount: 3},
		},
	}
	svc := NewService(repo, nil)

	result, err := svc.Compare(context.Background(), "landlord-1", CompareFilter{
		FromA: day("2026-01-01"),
		ToA:   day("2026-01-31"),
		FromB: day("2025-12-01"),
		ToB:   day("2025-12-31"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Delta.Amount != -400 {
		t.Fatalf("expected delta -400, got %v", result.Delta.Amount)
	}
	if result.Delta.Percent != -12.5 {
		t.Fatalf("expected percent -12.5, got %v", result.Delta.Percent)
	}
	if result.PeriodA.From != "2026-01-01" || result.PeriodB.Count != 3 {
		t.Fatalf("unexpected periods: %+v %+v", result.PeriodA, result.PeriodB)
	}
}

func cachedConfig(ttl time.Duration) TopPropertiesConfig {
	return TopPropertiesConfig{
		Enabled:       true,
		LookbackDays:  90,
		DBReadLimit:   1000,
		MinRecords:    3,
		ResponseCount: 2,
		CacheTTL:      ttl,
	}
}

func TestTopPropertiesUsesCacheWithinTTL(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		topPropertiesRows: []PropertyRow{
			{PropertyID: "p-1", Collected: 9000, Count: 2},
		},
		topPropertiesRecordsRead: 4,
	}
	svc := NewServiceWithTopPropertiesConfig(repo, titles{"p-1": "Sunny flat"}, cachedConfig(time.Minute))
	currentTime := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return currentTime }

	first, err := svc.TopProperties(context.Background(), "landlord-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.Status != TopPropertiesStatusOK || len(first.Items) != 1 {
		t.Fatalf("unexpected result: %+v", first)
	}
	if first.Items[0].PropertyTitle != "Sunny flat" {
		t.Fatalf("expected title to be resolved, got %+v", first.Items[0])
	}

	repo.topPropertiesRows = []PropertyRow{{PropertyID: "p-2", Collected: 100, Count: 1}}

	second, err := svc.TopProperties(context.Background(), "landlord-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.topPropertiesCalls != 1 {
		t.Fatalf("expected cache hit without extra repo call, got %d", repo.topPropertiesCalls)
	}
	if second.Items[0].PropertyID != "p-1" {
		t.Fatalf("expected cached rows, got %+v", second.Items)
	}

	currentTime = currentTime.Add(2 * time.Minute)
	third, err := svc.TopProperties(context.Background(), "landlord-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.topPropertiesCalls != 2 || third.Items[0].PropertyID != "p-2" {
		t.Fatalf("expected fresh rows after expiry, got %+v after %d calls", third.Items, repo.topPropertiesCalls)
	}
}

func TestTopPropertiesRanksAndTrims(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		topPropertiesRows: []PropertyRow{
			{PropertyID: "p-1", Collected: 100},
			{PropertyID: "p-2", Collected: 900},
			{PropertyID: "p-3", Collected: 500},
		},
		topPropertiesRecordsRead: 10,
	}
	svc := NewServiceWithTopPropertiesConfig(repo, nil, cachedConfig(0))

	result, err := svc.TopProperties(context.Background(), "landlord-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Items) != 2 || result.Items[0].PropertyID != "p-2" || result.Items[1].PropertyID != "p-3" {
		t.Fatalf("unexpected ranking: %+v", result.Items)
	}
}

func TestTopPropertiesNeedMoreData(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		topPropertiesRows:        []PropertyRow{{PropertyID: "p-1", Collected: 100, Count: 1}},
		topPropertiesRecordsRead: 1,
	}
	svc := NewServiceWithTopPropertiesConfig(repo, nil, cachedConfig(0))

	result, err := svc.TopProperties(context.Background(), "landlord-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != TopPropertiesStatusNeedMoreData || len(result.Items) != 0 {
		t.Fatalf("expected need_more_data, got %+v", result)
	}
}

func TestTopPropertiesDisabled(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	cfg := cachedConfig(time.Minute)
	cfg.Enabled = false
	svc := NewServiceWithTopPropertiesConfig(repo, nil, cfg)

	result, err := svc.TopProperties(context.Background(), "landlord-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != TopPropertiesStatusDisabled {
		t.Fatalf("expected disabled, got %s", result.Status)
	}
	if repo.topPropertiesCalls != 0 {
		t.Fatalf("expected no repo calls, got %d", repo.topPropertiesCalls)
	}
}
