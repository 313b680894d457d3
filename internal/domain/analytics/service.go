// Package analytics reports a landlord's rental income over time.
package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"rental-app-go/internal/domain/lifecycle"
)

const (
	statusConfirmed = "confirmed"
	statusPaid      = "paid"
	statusPending   = "pending"
)

type Service struct {
	repo                Repository
	directory           lifecycle.Directory
	topPropertiesConfig TopPropertiesConfig
	topPropertiesCache  topPropertiesCache
	now                 func() time.Time
}

func NewService(repo Repository, directory lifecycle.Directory) *Service {
	return NewServiceWithTopPropertiesConfig(repo, directory, TopPropertiesConfig{
		Enabled:       true,
		LookbackDays:  defaultTopPropertiesLookbackDays,
		DBReadLimit:   defaultTopPropertiesDBReadLimit,
		MinRecords:    defaultTopPropertiesMinRecords,
		ResponseCount: defaultTopPropertiesResponseCount,
		CacheTTL:      defaultTopPropertiesCacheTTL,
	})
}

func NewServiceWithTopPropertiesConfig(repo Repository, directory lifecycle.Directory, cfg TopPropertiesConfig) *Service {
	cfg = normalizeTopPropertiesConfig(cfg)
	if directory == nil {
		directory = lifecycle.Deps{}.WithDefaults().Directory
	}

	return &Service{
		repo:                repo,
		directory:           directory,
		topPropertiesConfig: cfg,
		topPropertiesCache: topPropertiesCache{
			items: make(map[string]topPropertiesCacheItem),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Summary(ctx context.Context, landlordID string, filter IncomeFilter) (IncomeSummary, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return IncomeSummary{}, err
	}
	totals, err := s.repo.Totals(ctx, landlordID, filter)
	if err != nil {
		return IncomeSummary{}, err
	}

	summary := IncomeSummary{
		Collected:        totals.Collected,
		CollectedCount:   totals.CollectedCount,
		Awaiting:         totals.AwaitingAmount,
		AwaitingCount:    totals.AwaitingCount,
		Outstanding:      totals.OutstandingTotal,
		OutstandingCount: totals.OutstandingCount,
	}
	if billed := totals.Collected + totals.AwaitingAmount + totals.OutstandingTotal; billed > 0 {
		summary.CollectionRate = totals.Collected / billed
	}
	return summary, nil
}

// Monthly buckets bills by the calendar month of their due date. Months with
// no bills in the range are reported with zero totals.
func (s *Service) Monthly(ctx context.Context, landlordID string, filter IncomeFilter) ([]MonthlyRow, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	entries, err := s.repo.Entries(ctx, landlordID, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]MonthlyRow, 0)
	index := make(map[string]int)
	for month := monthStart(filter.From); !month.After(filter.To); month = month.AddDate(0, 1, 0) {
		key := month.Format("2006-01")
		index[key] = len(rows)
		rows = append(rows, MonthlyRow{Month: key})
	}

	for _, entry := range entries {
		i, ok := index[entry.DueDate.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		rows[i].Count++
		switch entry.Status {
		case statusConfirmed:
			rows[i].Collected += entry.Amount
		case statusPaid:
			rows[i].Awaiting += entry.Amount
		case statusPending:
			rows[i].Outstanding += entry.Amount
		}
	}
	return rows, nil
}

func (s *Service) TopProperties(ctx context.Context, landlordID string) (TopPropertiesResult, error) {
	if !s.topPropertiesConfig.Enabled {
		return TopPropertiesResult{
			Status: TopPropertiesStatusDisabled,
			Items:  []PropertyRow{},
		}, nil
	}

	filter := s.topPropertiesFilter()
	if s.topPropertiesConfig.CacheTTL <= 0 {
		rows, recordsRead, err := s.repo.TopProperties(ctx, landlordID, filter)
		if err != nil {
			return TopPropertiesResult{}, err
		}
		return s.buildTopPropertiesResult(ctx, rows, recordsRead), nil
	}

	now := s.now()
	if result, ok := s.topPropertiesCache.Get(landlordID, now); ok {
		return result, nil
	}

	rows, recordsRead, err := s.repo.TopProperties(ctx, landlordID, filter)
	if err != nil {
		return TopPropertiesResult{}, err
	}

	result := s.buildTopPropertiesResult(ctx, rows, recordsRead)
	s.topPropertiesCache.Set(landlordID, result, now.Add(s.topPropertiesConfig.CacheTTL))
	return result, nil
}

func (s *Service) Compare(ctx context.Context, landlordID string, filter CompareFilter) (CompareResult, error) {
	if err := validateRange(filter.FromA, filter.ToA); err != nil {
		return CompareResult{}, err
	}
	if err := validateRange(filter.FromB, filter.ToB); err != nil {
		return CompareResult{}, err
	}

	totalsA, err := s.repo.Totals(ctx, landlordID, IncomeFilter{From: filter.FromA, To: filter.ToA, PropertyIDs: filter.PropertyIDs})
	if err != nil {
		return CompareResult{}, err
	}
	totalsB, err := s.repo.Totals(ctx, landlordID, IncomeFilter{From: filter.FromB, To: filter.ToB, PropertyIDs: filter.PropertyIDs})
	if err != nil {
		return CompareResult{}, err
	}

	deltaAmount := totalsA.Collected - totalsB.Collected
	deltaPercent := 0.0
	if totalsB.Collected != 0 {
		deltaPercent = (deltaAmount / totalsB.Collected) * 100
	}

	return CompareResult{
		PeriodA: PeriodSummary{
			From:      lifecycle.FormatDate(filter.FromA),
			To:        lifecycle.FormatDate(filter.ToA),
			Collected: totalsA.Collected,
			Count:     totalsA.CollectedCount,
		},
		PeriodB: PeriodSummary{
			From:      lifecycle.FormatDate(filter.FromB),
			To:        lifecycle.FormatDate(filter.ToB),
			Collected: totalsB.Collected,
			Count:     totalsB.CollectedCount,
		},
		Delta: DeltaResult{
			Amount:  deltaAmount,
			Percent: deltaPercent,
		},
	}, nil
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return lifecycle.Invalid("from", "from and to are required")
	}
	if to.Before(from) {
		return lifecycle.Invalid("to", "must not be before from")
	}
	if to.Sub(from) > maxRange {
		return lifecycle.Invalid("to", "range must not exceed 5 years")
	}
	return nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

const (
	maxRange = 5 * 366 * 24 * time.Hour

	defaultTopPropertiesLookbackDays  = 90
	defaultTopPropertiesDBReadLimit   = 1000
	defaultTopPropertiesMinRecords    = 3
	defaultTopPropertiesResponseCount = 5
	defaultTopPropertiesCacheTTL      = time.Minute
)

func normalizeTopPropertiesConfig(cfg TopPropertiesConfig) TopPropertiesConfig {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultTopPropertiesLookbackDays
	}
	if cfg.DBReadLimit <= 0 {
		cfg.DBReadLimit = defaultTopPropertiesDBReadLimit
	}
	if cfg.MinRecords < 0 {
		cfg.MinRecords = defaultTopPropertiesMinRecords
	}
	if cfg.ResponseCount <= 0 {
		cfg.ResponseCount = defaultTopPropertiesResponseCount
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}
	return cfg
}

func (s *Service) topPropertiesFilter() TopPropertiesFilter {
	to := lifecycle.DateOf(s.now())
	from := to.AddDate(0, 0, -(s.topPropertiesConfig.LookbackDays - 1))

	return TopPropertiesFilter{
		From:          from,
		To:            to,
		DBReadLimit:   s.topPropertiesConfig.DBReadLimit,
		ResponseCount: s.topPropertiesConfig.ResponseCount,
	}
}

func (s *Service) buildTopPropertiesResult(ctx context.Context, rows []PropertyRow, recordsRead int64) TopPropertiesResult {
	if recordsRead < int64(s.topPropertiesConfig.MinRecords) || len(rows) == 0 {
		return TopPropertiesResult{
			Status: TopPropertiesStatusNeedMoreData,
			Items:  []PropertyRow{},
		}
	}

	rows = clonePropertyRows(rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Collected > rows[j].Collected })
	if len(rows) > s.topPropertiesConfig.ResponseCount {
		rows = rows[:s.topPropertiesConfig.ResponseCount]
	}
	for i := range rows {
		rows[i].PropertyTitle = s.directory.PropertyTitle(ctx, rows[i].PropertyID)
	}

	return TopPropertiesResult{
		Status: TopPropertiesStatusOK,
		Items:  rows,
	}
}

type topPropertiesCache struct {
	mu    sync.RWMutex
	items map[string]topPropertiesCacheItem
}

type topPropertiesCacheItem struct {
	result    TopPropertiesResult
	expiresAt time.Time
}

func (c *topPropertiesCache) Get(key string, now time.Time) (TopPropertiesResult, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return TopPropertiesResult{}, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[key]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return TopPropertiesResult{}, false
	}

	return TopPropertiesResult{Status: item.result.Status, Items: clonePropertyRows(item.result.Items)}, true
}

func (c *topPropertiesCache) Set(key string, result TopPropertiesResult, expiresAt time.Time) {
	c.mu.Lock()
	c.items[key] = topPropertiesCacheItem{
		result:    TopPropertiesResult{Status: result.Status, Items: clonePropertyRows(result.Items)},
		expiresAt: expiresAt,
	}
	c.mu.Unlock()
}

func clonePropertyRows(rows []PropertyRow) []PropertyRow {
	if rows == nil {
		return nil
	}
	cloned := make([]PropertyRow, len(rows))
	copy(cloned, rows)
	return cloned
}
