// Package metrics computes the derived business figures shown on the
// dashboard: staffing requirements, order values, customer estimates,
// deltas, and the revenue/quantity correlation. Every function is a
// total function over its numeric inputs; degenerate denominators
// resolve to defined sentinels instead of failing.
package metrics

import (
	"math"

	"github.com/maslow-group/forecastdash/profile"
	"gonum.org/v1/gonum/stat"
)

// MinStaff is the floor below which no shift is scheduled.
const MinStaff = 3

// StaffingRequirement converts an expected customer count into a staff
// count using the brand's linear staffing model, never below MinStaff.
func StaffingRequirement(customers float64, p profile.Profile) int {
	staff := p.BaseStaff + (customers-p.BaseCustomers)*p.StaffRatio
	return int(math.Ceil(math.Max(MinStaff, staff)))
}

// AverageOrderValue is revenue per customer, 0 when there are no
// customers.
func AverageOrderValue(totalRevenue, totalCustomers float64) float64 {
	if totalCustomers == 0 {
		return 0
	}
	return totalRevenue / totalCustomers
}

// EstimateCustomers derives a customer count from items sold using the
// brand's items-per-customer ratio, falling back to the generic ratio
// when the profile has none.
func EstimateCustomers(totalQuantity float64, p profile.Profile) float64 {
	ratio := p.ItemsPerCustomer
	if ratio <= 0 {
		ratio = profile.Generic.ItemsPerCustomer
	}
	return totalQuantity / ratio
}

// PercentChange is the relative delta of a future average against a
// historical one, in percent. A zero historical average yields 0
// rather than a division failure; the caller renders it as
// not-applicable.
func PercentChange(futureAvg, historicalAvg float64) float64 {
	if historicalAvg == 0 {
		return 0
	}
	return (futureAvg - historicalAvg) / historicalAvg * 100
}

// CorrelationStrength buckets a Pearson coefficient the way the
// comparison view reports it.
type CorrelationStrength string

const (
	CorrelationStrong   CorrelationStrength = "strong"
	CorrelationModerate CorrelationStrength = "moderate"
	CorrelationWeak     CorrelationStrength = "weak"
)

// Correlation computes the Pearson correlation between two aligned
// series, 0 for degenerate input (mismatched or too short).
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// ClassifyCorrelation labels a coefficient: strong above 0.7, moderate
// above 0.4, weak otherwise.
func ClassifyCorrelation(r float64) CorrelationStrength {
	switch {
	case r > 0.7:
		return CorrelationStrong
	case r > 0.4:
		return CorrelationModerate
	default:
		return CorrelationWeak
	}
}

// StaffingTier picks the brand's service tier for an expected day.
// A day is light service while either figure sits below the light
// thresholds, standard while either sits below the standard
// thresholds, and full service otherwise.
func StaffingTier(revenue, quantity float64, p profile.Profile) profile.Tier {
	switch {
	case revenue < p.Light.Revenue || quantity < p.Light.Quantity:
		return p.Tiers[0]
	case revenue < p.Standard.Revenue || quantity < p.Standard.Quantity:
		return p.Tiers[1]
	default:
		return p.Tiers[2]
	}
}
