package sales

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/maslow-group/forecastdash/profile"
)

// SyntheticOptions controls the deterministic sample-data generator.
type SyntheticOptions struct {
	Start           time.Time
	Days            int
	IncludeStaff    bool
	IncludeProducts bool

	// fractions of the profile baseline, matching the demo dataset
	WeeklyAmplitude float64 // weekly sinusoid amplitude
	NoiseScale      float64 // gaussian noise stddev
	Floor           float64 // minimum value as a fraction of baseline
}

// NewDefaultSyntheticOptions covers Jan 2023 through Jan 2024, the demo
// window shipped with the dashboard.
func NewDefaultSyntheticOptions() *SyntheticOptions {
	return &SyntheticOptions{
		Start:           time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:            396,
		IncludeStaff:    true,
		IncludeProducts: true,
		WeeklyAmplitude: 0.2,
		NoiseScale:      0.1,
		Floor:           0.2,
	}
}

// NewRand returns a seeded random source for the generator and the
// heuristic forecast strategy. The same seed always yields the same
// stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Synthesize generates one observation per day over the configured
// window around the profile's baselines: a period-7 sinusoid on top of
// the base value plus independent gaussian noise per metric, floored so
// revenue and quantity stay positive. Output is fully determined by the
// profile, options, and random source.
func Synthesize(p profile.Profile, opt *SyntheticOptions, rng *rand.Rand) *Series {
	if opt == nil {
		opt = NewDefaultSyntheticOptions()
	}

	days := opt.Days
	if days < 1 {
		days = NewDefaultSyntheticOptions().Days
	}

	baseRevenue := p.BaseRevenue
	baseQuantity := p.BaseQuantity()

	obs := make([]Observation, 0, days)
	for i := 0; i < days; i++ {
		date := opt.Start.AddDate(0, 0, i)
		weekly := math.Sin(float64(i) * 2 * math.Pi / 7)

		revenue := baseRevenue +
			weekly*opt.WeeklyAmplitude*baseRevenue +
			rng.NormFloat64()*opt.NoiseScale*baseRevenue
		quantity := baseQuantity +
			weekly*opt.WeeklyAmplitude*baseQuantity*0.2 +
			rng.NormFloat64()*opt.NoiseScale*baseQuantity
		revenue = math.Max(revenue, opt.Floor*baseRevenue)
		quantity = math.Max(quantity, opt.Floor*baseQuantity)

		o := Observation{Date: date, Revenue: revenue, Quantity: quantity}

		if opt.IncludeStaff {
			customers := quantity / p.ItemsPerCustomer
			staff := p.BaseStaff + (customers-p.BaseCustomers)*p.StaffRatio
			o.Staff = math.Max(3, math.Round(staff))
		}

		if opt.IncludeProducts && len(p.ProductMix) > 0 {
			o.Products = make(map[string]float64, len(p.ProductMix))
			// iterate in sorted order so draws are reproducible
			for _, name := range p.ProductNames() {
				share := p.ProductMix[name] / baseQuantity
				qty := share*quantity + rng.NormFloat64()*opt.NoiseScale*p.ProductMix[name]
				o.Products[name] = math.Max(0, math.Round(qty))
			}
		}

		obs = append(obs, o)
	}

	// construction cannot fail: the window always has at least one day
	s, _ := New(obs)
	return s
}
