// Package forecastdash assembles the restaurant group's analytics
// dashboard: it loads or synthesizes a historical sales series, runs
// the configured forecast strategy per metric, derives the business
// metrics, and returns an immutable snapshot for the presentation
// layer. Every render is a pure function of the request plus its seed.
package forecastdash

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maslow-group/forecastdash/forecast"
	"github.com/maslow-group/forecastdash/metrics"
	"github.com/maslow-group/forecastdash/profile"
	"github.com/maslow-group/forecastdash/sales"
)

// Dashboard runs renders. It holds no mutable state across renders.
type Dashboard struct {
	logger *slog.Logger
}

// New creates a dashboard. A nil logger falls back to slog's default.
func New(logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{logger: logger}
}

func clampHorizon(h int) int {
	if h == 0 {
		return DefaultHorizon
	}
	if h < MinHorizon {
		return MinHorizon
	}
	if h > MaxHorizon {
		return MaxHorizon
	}
	return h
}

// Render executes the full pipeline for one request: data load,
// per-metric forecasts, derived metrics, insights. Input validation
// failures abort the render; per-metric fit failures and insight
// failures degrade to warnings on the snapshot.
func (d *Dashboard) Render(req Request) (*Snapshot, error) {
	p, err := profile.ByKey(req.ProfileKey)
	if err != nil {
		return nil, err
	}
	req.Horizon = clampHorizon(req.Horizon)

	history, err := d.loadHistory(req, p)
	if err != nil {
		return nil, fmt.Errorf("loading historical series, %w", err)
	}

	snap := &Snapshot{
		Profile:     p,
		Request:     req,
		GeneratedAt: time.Now().UTC(),
		History:     history,
		Forecasts:   make(map[string]*forecast.Series),
		DataQuality: dataQuality(history),
	}

	strategy := d.strategy(req, p)
	dates := history.Dates()
	for _, metric := range history.MetricNames() {
		y, err := history.Metric(metric)
		if err != nil {
			snap.Warn(metric, err.Error())
			continue
		}
		fc, err := d.runStrategy(strategy, dates, y, req.Horizon)
		if err != nil {
			// withhold this metric, keep rendering the rest
			d.logger.Warn("forecast failed", "metric", metric, "error", err)
			snap.Warn(metric, fmt.Sprintf("forecast withheld: %v", err))
			continue
		}
		snap.Forecasts[metric] = fc
	}

	d.deriveKPIs(snap)
	d.guard(snap, "staffing", func() { d.deriveStaffing(snap) })
	d.guard(snap, "customers", func() { d.deriveCustomers(snap) })
	d.guard(snap, "correlation", func() { d.deriveCorrelation(snap) })
	if req.View == ViewMultiRestaurant {
		snap.Comparison = CompareBrands()
	}

	return snap, nil
}

func (d *Dashboard) loadHistory(req Request, p profile.Profile) (*sales.Series, error) {
	switch req.Source {
	case SourceUpload:
		if req.Upload == nil {
			return nil, sales.ErrNoObservations
		}
		return req.Upload, nil
	default:
		return sales.Synthesize(p, nil, sales.NewRand(req.Seed)), nil
	}
}

func (d *Dashboard) strategy(req Request, p profile.Profile) forecast.Strategy {
	switch req.Strategy {
	case StrategyHeuristic:
		return forecast.NewHeuristic(nil, sales.NewRand(req.Seed))
	default:
		opt := forecast.NewDefaultStatisticalOptions()
		opt.Confidence = req.Confidence
		opt.WeeklySeasonality = p.WeeklySeasonality
		opt.DailySeasonality = p.DailySeasonality
		return forecast.NewStatistical(opt)
	}
}

// runStrategy fits one metric, converting a strategy panic into an
// error so a degenerate series withholds that metric instead of taking
// down the render.
func (d *Dashboard) runStrategy(strategy forecast.Strategy, t []time.Time, y []float64, horizon int) (fc *forecast.Series, err error) {
	defer func() {
		if r := recover(); r != nil {
			fc, err = nil, fmt.Errorf("strategy failure: %v", r)
		}
	}()
	return strategy.Forecast(t, y, horizon)
}

// guard runs an insight derivation, converting any panic into a
// non-fatal warning so one bad section never takes down the render.
func (d *Dashboard) guard(snap *Snapshot, section string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("insight derivation failed", "section", section, "panic", r)
			snap.Warn(section, fmt.Sprintf("could not derive %s insights", section))
		}
	}()
	fn()
}

func dataQuality(s *sales.Series) string {
	if s.Len() > 100 {
		return "good"
	}
	return "limited"
}

func (d *Dashboard) deriveKPIs(snap *Snapshot) {
	for _, metric := range []string{sales.MetricRevenue, sales.MetricQuantity} {
		fc := snap.Forecasts[metric]
		if fc == nil {
			continue
		}
		histAvg, err := snap.History.Mean(metric)
		if err != nil {
			continue
		}
		futureAvg := fc.Mean()
		snap.KPIs = append(snap.KPIs, MetricKPIs{
			Metric:        metric,
			HistoricalAvg: histAvg,
			Tomorrow:      fc.Value[0],
			FutureAvg:     futureAvg,
			ChangePct:     metrics.PercentChange(futureAvg, histAvg),
			HorizonTotal:  fc.Total(),
		})
	}
}

func (d *Dashboard) deriveStaffing(snap *Snapshot) {
	rev := snap.Forecasts[sales.MetricRevenue]
	qty := snap.Forecasts[sales.MetricQuantity]
	if rev == nil || qty == nil {
		return
	}
	p := snap.Profile

	tomorrowCustomers := metrics.EstimateCustomers(qty.Value[0], p)
	weekRev := rev.TailMean(7)
	weekQty := qty.TailMean(7)
	weekCustomers := metrics.EstimateCustomers(weekQty, p)

	snap.Staffing = &StaffingInsight{
		Tomorrow:      metrics.StaffingTier(rev.Value[0], qty.Value[0], p),
		TomorrowStaff: metrics.StaffingRequirement(tomorrowCustomers, p),
		Weekly:        metrics.StaffingTier(weekRev, weekQty, p),
		WeeklyStaff:   metrics.StaffingRequirement(weekCustomers, p),
	}
}

func (d *Dashboard) deriveCustomers(snap *Snapshot) {
	rev := snap.Forecasts[sales.MetricRevenue]
	qty := snap.Forecasts[sales.MetricQuantity]
	if rev == nil || qty == nil {
		return
	}
	p := snap.Profile

	totalQty := qty.Total()
	totalRev := rev.Total()
	customers := metrics.EstimateCustomers(totalQty, p)
	aov := metrics.AverageOrderValue(totalRev, customers)

	histRev, _ := snap.History.Total(sales.MetricRevenue)
	histQty, _ := snap.History.Total(sales.MetricQuantity)
	histAOV := metrics.AverageOrderValue(histRev, metrics.EstimateCustomers(histQty, p))

	itemsPerCustomer := 0.0
	if customers > 0 {
		itemsPerCustomer = totalQty / customers
	}
	optimal := itemsPerCustomer > 0 &&
		itemsPerCustomer-p.ItemsPerCustomer < 0.5 &&
		p.ItemsPerCustomer-itemsPerCustomer < 0.5

	snap.Customers = &CustomerInsight{
		EstimatedCustomers: customers,
		AvgDailyCustomers:  customers / float64(len(qty.Value)),
		ForecastAOV:        aov,
		AOVChangePct:       metrics.PercentChange(aov, histAOV),
		ItemsPerCustomer:   itemsPerCustomer,
		Optimal:            optimal,
		Concept:            p.Concept,
	}
}

func (d *Dashboard) deriveCorrelation(snap *Snapshot) {
	rev, err := snap.History.Metric(sales.MetricRevenue)
	if err != nil {
		return
	}
	qty, err := snap.History.Metric(sales.MetricQuantity)
	if err != nil {
		return
	}
	r := metrics.Correlation(rev, qty)
	snap.Correlation = &CorrelationInsight{
		Coefficient: r,
		Strength:    metrics.ClassifyCorrelation(r),
	}
}

// CompareBrands builds the multi-restaurant comparison table from the
// brands' baseline metrics.
func CompareBrands() []ComparisonRow {
	brands := profile.Brands()
	rows := make([]ComparisonRow, 0, len(brands))
	for _, p := range brands {
		rows = append(rows, ComparisonRow{
			Name:        p.Name,
			Concept:     p.Concept,
			AvgRevenue:  p.BaseRevenue,
			AvgQuantity: p.BaseQuantity(),
			AOV:         p.BaselineAOV(),
			Color:       p.Palette.Primary,
		})
	}
	return rows
}
