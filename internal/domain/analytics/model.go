package analytics

import "time"

// IncomeFilter selects bills by due date, both ends inclusive.
type IncomeFilter struct {
	From        time.Time
	To          time.Time
	PropertyIDs []string
}

// Totals groups bill amounts by stored status.
type Totals struct {
	Collected        float64 `gorm:"column:collected"`
	CollectedCount   int64   `gorm:"column:collected_count"`
	AwaitingAmount   float64 `gorm:"column:awaiting"`
	AwaitingCount    int64   `gorm:"column:awaiting_count"`
	OutstandingTotal float64 `gorm:"column:outstanding"`
	OutstandingCount int64   `gorm:"column:outstanding_count"`
}

// Entry is a single bill as the monthly breakdown sees it.
type Entry struct {
	DueDate time.Time
	Amount  float64
	Status  string
}

type IncomeSummary struct {
	Collected        float64 `json:"collected"`
	CollectedCount   int64   `json:"collected_count"`
	Awaiting         float64 `json:"awaiting_confirmation"`
	AwaitingCount    int64   `json:"awaiting_confirmation_count"`
	Outstanding      float64 `json:"outstanding"`
	OutstandingCount int64   `json:"outstanding_count"`
	CollectionRate   float64 `json:"collection_rate"`
}

type MonthlyRow struct {
	Month       string  `json:"month"`
	Collected   float64 `json:"collected"`
	Awaiting    float64 `json:"awaiting_confirmation"`
	Outstanding float64 `json:"outstanding"`
	Count       int64   `json:"count"`
}

type PropertyRow struct {
	PropertyID    string  `json:"property_id" gorm:"column:property_id"`
	PropertyTitle string  `json:"property_title" gorm:"-"`
	Collected     float64 `json:"collected" gorm:"column:collected"`
	Count         int64   `json:"count" gorm:"column:count"`
}

type TopPropertiesFilter struct {
	From          time.Time
	To            time.Time
	DBReadLimit   int
	ResponseCount int
}

type TopPropertiesStatus string

const (
	TopPropertiesStatusOK           TopPropertiesStatus = "ok"
	TopPropertiesStatusNeedMoreData TopPropertiesStatus = "need_more_data"
	TopPropertiesStatusDisabled     TopPropertiesStatus = "disabled"
)

type TopPropertiesResult struct {
	Status TopPropertiesStatus `json:"status"`
	Items  []PropertyRow       `json:"items"`
}

// TopPropertiesConfig tunes the cached ranking of best earning properties.
type TopPropertiesConfig struct {
	Enabled       bool
	LookbackDays  int
	DBReadLimit   int
	MinRecords    int
	ResponseCount int
	CacheTTL      time.Duration
}

type CompareFilter struct {
	FromA       time.Time
	ToA         time.Time
	FromB       time.Time
	ToB         time.Time
	PropertyIDs []string
}

type PeriodSummary struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Collected float64 `json:"collected"`
	Count     int64   `json:"count"`
}

type CompareResult struct {
	PeriodA PeriodSummary `json:"period_a"`
	PeriodB PeriodSummary `json:"period_b"`
	Delta   DeltaResult   `json:"delta"`
}

type DeltaResult struct {
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}
