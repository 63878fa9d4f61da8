package forecastdash

import (
	"time"

	"github.com/maslow-group/forecastdash/forecast"
	"github.com/maslow-group/forecastdash/metrics"
	"github.com/maslow-group/forecastdash/profile"
	"github.com/maslow-group/forecastdash/sales"
)

// StrategyKind selects the forecast engine implementation.
type StrategyKind string

const (
	StrategyStatistical StrategyKind = "statistical"
	StrategyHeuristic   StrategyKind = "heuristic"
)

// ViewMode is the analysis focus selected for a render.
type ViewMode string

const (
	ViewCombined        ViewMode = "combined"
	ViewRevenue         ViewMode = "revenue"
	ViewQuantity        ViewMode = "quantity"
	ViewComparison      ViewMode = "comparison"
	ViewMultiRestaurant ViewMode = "multi"
)

// DataSource selects where the historical series comes from.
type DataSource string

const (
	SourceSample DataSource = "sample"
	SourceUpload DataSource = "upload"
)

// Horizon bounds in days.
const (
	MinHorizon     = 7
	MaxHorizon     = 90
	DefaultHorizon = 30
)

// Request captures everything one render depends on. It replaces the
// original's ambient session state: the server keeps the last Request
// per session and passes it whole into Render.
type Request struct {
	ProfileKey string       `json:"profile"`
	Source     DataSource   `json:"source"`
	Upload     *sales.Series `json:"-"`
	Horizon    int          `json:"horizon"`
	Confidence float64      `json:"confidence"`
	Strategy   StrategyKind `json:"strategy"`
	View       ViewMode     `json:"view"`
	Seed       uint64       `json:"seed"`

	// display-only toggles, carried through for the presentation layer
	ShowBands      bool `json:"show_bands"`
	ShowComponents bool `json:"show_components"`
}

// NewDefaultRequest mirrors the dashboard's initial controls.
func NewDefaultRequest() Request {
	return Request{
		ProfileKey: profile.Maslow.Key,
		Source:     SourceSample,
		Horizon:    DefaultHorizon,
		Confidence: forecast.DefaultConfidence,
		Strategy:   StrategyStatistical,
		View:       ViewCombined,
		Seed:       42,
		ShowBands:  true,
	}
}

// MetricKPIs is the per-metric card row: history average, next-day
// estimate, horizon average with delta, and horizon total.
type MetricKPIs struct {
	Metric        string  `json:"metric"`
	HistoricalAvg float64 `json:"historical_avg"`
	Tomorrow      float64 `json:"tomorrow"`
	FutureAvg     float64 `json:"future_avg"`
	ChangePct     float64 `json:"change_pct"`
	HorizonTotal  float64 `json:"horizon_total"`
}

// StaffingInsight is the operational staffing recommendation block.
type StaffingInsight struct {
	Tomorrow      profile.Tier `json:"tomorrow"`
	TomorrowStaff int          `json:"tomorrow_staff"`
	Weekly        profile.Tier `json:"weekly"`
	WeeklyStaff   int          `json:"weekly_staff"`
}

// CustomerInsight is the customer metrics block derived from the
// quantity and revenue forecasts.
type CustomerInsight struct {
	EstimatedCustomers float64 `json:"estimated_customers"`
	AvgDailyCustomers  float64 `json:"avg_daily_customers"`
	ForecastAOV        float64 `json:"forecast_aov"`
	AOVChangePct       float64 `json:"aov_change_pct"`
	ItemsPerCustomer   float64 `json:"items_per_customer"`
	Optimal            bool    `json:"optimal"`
	Concept            string  `json:"concept"`
}

// CorrelationInsight reports the historical revenue/quantity Pearson
// coefficient and its strength bucket.
type CorrelationInsight struct {
	Coefficient float64                    `json:"coefficient"`
	Strength    metrics.CorrelationStrength `json:"strength"`
}

// ComparisonRow is one brand's line in the multi-restaurant view,
// computed from profile baselines.
type ComparisonRow struct {
	Name        string  `json:"name"`
	Concept     string  `json:"concept"`
	AvgRevenue  float64 `json:"avg_revenue"`
	AvgQuantity float64 `json:"avg_quantity"`
	AOV         float64 `json:"aov"`
	Color       string  `json:"color"`
}

// Warning is a non-fatal failure surfaced with its omitted section.
type Warning struct {
	Section string `json:"section"`
	Message string `json:"message"`
}

// Snapshot is the immutable result of one render. Sections that failed
// to derive are nil and explained by a Warning; the rest of the
// dashboard still renders.
type Snapshot struct {
	Profile     profile.Profile `json:"profile"`
	Request     Request         `json:"request"`
	GeneratedAt time.Time       `json:"generated_at"`

	History   *sales.Series               `json:"-"`
	Forecasts map[string]*forecast.Series `json:"forecasts"`

	KPIs        []MetricKPIs        `json:"kpis"`
	Staffing    *StaffingInsight    `json:"staffing,omitempty"`
	Customers   *CustomerInsight    `json:"customers,omitempty"`
	Correlation *CorrelationInsight `json:"correlation,omitempty"`
	Comparison  []ComparisonRow     `json:"comparison,omitempty"`

	DataQuality string    `json:"data_quality"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// Forecast returns the named metric's projection, nil when withheld.
func (s *Snapshot) Forecast(metric string) *forecast.Series {
	return s.Forecasts[metric]
}

// Warn records a degraded section.
func (s *Snapshot) Warn(section, message string) {
	s.Warnings = append(s.Warnings, Warning{Section: section, Message: message})
}
