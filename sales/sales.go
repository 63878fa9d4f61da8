// Package sales holds the historical daily sales series consumed by the
// forecast engine: one observation per calendar day with revenue, items
// sold, and optional staffing and per-product counts. Series are built
// once per dashboard render from an upload or the synthetic generator
// and are immutable afterwards.
package sales

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrNoObservations = errors.New("no observations")
	ErrUnknownMetric  = errors.New("unknown metric in series")
)

// Metric names present in every series. Product metrics are addressed
// by their column name through MetricNames.
const (
	MetricRevenue  = "revenue"
	MetricQuantity = "quantity"
	MetricStaff    = "staff"
)

// Observation is one calendar day of sales history.
type Observation struct {
	Date     time.Time          `json:"date"`
	Revenue  float64            `json:"revenue"`
	Quantity float64            `json:"quantity"`
	Staff    float64            `json:"staff,omitempty"`
	Products map[string]float64 `json:"products,omitempty"`
}

// Series is a date-ordered run of observations for one restaurant.
// Dates are unique and strictly ascending; gaps are allowed and mean
// no data for that day.
type Series struct {
	Observations []Observation
	HasStaff     bool
	Products     []string
}

// New builds a series from raw observations. Observations are sorted by
// date and same-day records are summed, matching how the dashboard
// aggregates uploads. The staff flag and product name set are derived
// from the records.
func New(obs []Observation) (*Series, error) {
	if len(obs) == 0 {
		return nil, ErrNoObservations
	}

	byDay := make(map[time.Time]*Observation)
	hasStaff := false
	productSet := make(map[string]struct{})
	for _, o := range obs {
		// bucket by the observation's calendar day, not epoch-truncated
		// time, so non-UTC timestamps land on the right date
		y, m, d := o.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		agg, ok := byDay[day]
		if !ok {
			agg = &Observation{Date: day}
			byDay[day] = agg
		}
		agg.Revenue += o.Revenue
		agg.Quantity += o.Quantity
		agg.Staff += o.Staff
		if o.Staff > 0 {
			hasStaff = true
		}
		for name, qty := range o.Products {
			if agg.Products == nil {
				agg.Products = make(map[string]float64)
			}
			agg.Products[name] += qty
			productSet[name] = struct{}{}
		}
	}

	merged := make([]Observation, 0, len(byDay))
	for _, o := range byDay {
		merged = append(merged, *o)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })

	products := make([]string, 0, len(productSet))
	for name := range productSet {
		products = append(products, name)
	}
	sort.Strings(products)

	return &Series{
		Observations: merged,
		HasStaff:     hasStaff,
		Products:     products,
	}, nil
}

// Len returns the number of distinct dates in the series.
func (s *Series) Len() int {
	return len(s.Observations)
}

// Start returns the first observation date.
func (s *Series) Start() time.Time {
	return s.Observations[0].Date
}

// End returns the last observation date.
func (s *Series) End() time.Time {
	return s.Observations[len(s.Observations)-1].Date
}

// Dates returns the observation dates in ascending order.
func (s *Series) Dates() []time.Time {
	t := make([]time.Time, len(s.Observations))
	for i, o := range s.Observations {
		t[i] = o.Date
	}
	return t
}

// MetricNames lists every forecastable metric carried by this series:
// revenue, quantity, staff when present, then product columns.
func (s *Series) MetricNames() []string {
	names := []string{MetricRevenue, MetricQuantity}
	if s.HasStaff {
		names = append(names, MetricStaff)
	}
	names = append(names, s.Products...)
	return names
}

// Metric returns the value slice for the named metric, aligned with
// Dates.
func (s *Series) Metric(name string) ([]float64, error) {
	y := make([]float64, len(s.Observations))
	switch name {
	case MetricRevenue:
		for i, o := range s.Observations {
			y[i] = o.Revenue
		}
	case MetricQuantity:
		for i, o := range s.Observations {
			y[i] = o.Quantity
		}
	case MetricStaff:
		if !s.HasStaff {
			return nil, fmt.Errorf("%q, %w", name, ErrUnknownMetric)
		}
		for i, o := range s.Observations {
			y[i] = o.Staff
		}
	default:
		if !s.hasProduct(name) {
			return nil, fmt.Errorf("%q, %w", name, ErrUnknownMetric)
		}
		for i, o := range s.Observations {
			y[i] = o.Products[name]
		}
	}
	return y, nil
}

func (s *Series) hasProduct(name string) bool {
	for _, p := range s.Products {
		if p == name {
			return true
		}
	}
	return false
}

// Total sums the named metric over the whole series.
func (s *Series) Total(name string) (float64, error) {
	y, err := s.Metric(name)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, v := range y {
		sum += v
	}
	return sum, nil
}

// Mean averages the named metric over the whole series, 0 for an
// empty series.
func (s *Series) Mean(name string) (float64, error) {
	if s.Len() == 0 {
		return 0, nil
	}
	total, err := s.Total(name)
	if err != nil {
		return 0, err
	}
	return total / float64(s.Len()), nil
}
