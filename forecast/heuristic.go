package forecast

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/fr"
)

// HeuristicOptions configures the multiplicative strategy. Each future
// day's estimate is the historical mean scaled by a weekend boost, a
// yearly sinusoid, a public-holiday boost, and bounded random jitter.
type HeuristicOptions struct {
	// WeekendBoost applies Friday through Sunday.
	WeekendBoost float64 `json:"weekend_boost"`

	// YearlyAmplitude scales the day-of-year sinusoid (period 365).
	YearlyAmplitude float64 `json:"yearly_amplitude"`

	// Jitter band, uniform in [JitterLow, JitterHigh].
	JitterLow  float64 `json:"jitter_low"`
	JitterHigh float64 `json:"jitter_high"`

	// HolidayBoost applies on public holidays of the Calendar.
	HolidayBoost float64 `json:"holiday_boost"`

	// Calendar decides which days count as holidays. Defaults to the
	// French public holiday calendar.
	Calendar *cal.Calendar `json:"-"`
}

// NewDefaultHeuristicOptions returns the demo configuration: 1.3
// weekend boost, 10% yearly swing, ±10% jitter, French holidays.
func NewDefaultHeuristicOptions() *HeuristicOptions {
	c := &cal.Calendar{Name: "France"}
	c.AddHoliday(fr.Holidays...)
	return &HeuristicOptions{
		WeekendBoost:    1.3,
		YearlyAmplitude: 0.1,
		JitterLow:       0.9,
		JitterHigh:      1.1,
		HolidayBoost:    1.1,
		Calendar:        c,
	}
}

// Heuristic projects the historical mean forward with seasonal
// multipliers. It produces no uncertainty bounds. The random source is
// injected so forecasts are reproducible under test.
type Heuristic struct {
	opt *HeuristicOptions
	rng *rand.Rand
}

// NewHeuristic creates the multiplier strategy. A nil options value
// uses the defaults; a nil random source is seeded from the clock.
func NewHeuristic(opt *HeuristicOptions, rng *rand.Rand) *Heuristic {
	if opt == nil {
		opt = NewDefaultHeuristicOptions()
	}
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now))
	}
	return &Heuristic{opt: opt, rng: rng}
}

// Multiplier returns the deterministic part of the day's scaling
// factor: weekend boost, yearly sinusoid, and holiday boost, without
// jitter.
func (h *Heuristic) Multiplier(date time.Time) float64 {
	m := 1.0
	switch date.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		m *= h.opt.WeekendBoost
	}
	m *= 1 + h.opt.YearlyAmplitude*math.Sin(2*math.Pi*float64(date.YearDay())/365)
	if h.opt.Calendar != nil {
		if actual, observed, _ := h.opt.Calendar.IsHoliday(date); actual || observed {
			m *= h.opt.HolidayBoost
		}
	}
	return m
}

// Forecast scales the historical mean of the metric by each future
// day's multiplier and jitter draw.
func (h *Heuristic) Forecast(t []time.Time, y []float64, horizon int) (*Series, error) {
	t, y, err := validateTraining(t, y, horizon)
	if err != nil {
		return nil, err
	}
	if distinctDates(t) < 2 {
		return nil, ErrInsufficientData
	}

	var sum float64
	for _, v := range y {
		sum += v
	}
	avg := sum / float64(len(y))

	ht := HorizonDates(t[len(t)-1], horizon)
	value := make([]float64, horizon)
	for i, date := range ht {
		jitter := h.opt.JitterLow + h.rng.Float64()*(h.opt.JitterHigh-h.opt.JitterLow)
		value[i] = avg * h.Multiplier(date) * jitter
	}

	return &Series{T: ht, Value: value}, nil
}
