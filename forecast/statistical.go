package forecast

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	MinConfidence     = 0.80
	MaxConfidence     = 0.99
	DefaultConfidence = 0.95
)

// StatisticalOptions configures the decomposition strategy. Seasonal
// components can be toggled per restaurant profile; orders control the
// number of fourier pairs per period.
type StatisticalOptions struct {
	// Confidence is the coverage of the uncertainty band, clamped to
	// [0.80, 0.99].
	Confidence float64 `json:"confidence"`

	WeeklySeasonality bool `json:"weekly_seasonality"`
	DailySeasonality  bool `json:"daily_seasonality"`

	DailyOrders  int `json:"daily_orders"`
	WeeklyOrders int `json:"weekly_orders"`
	YearlyOrders int `json:"yearly_orders"`
}

// NewDefaultStatisticalOptions returns the default decomposition
// configuration: 95% band, weekly seasonality on, daily off.
func NewDefaultStatisticalOptions() *StatisticalOptions {
	return &StatisticalOptions{
		Confidence:        DefaultConfidence,
		WeeklySeasonality: true,
		DailySeasonality:  false,
		DailyOrders:       4,
		WeeklyOrders:      3,
		YearlyOrders:      2,
	}
}

// Statistical fits an additive intercept + smooth linear trend +
// fourier seasonality model by ordinary least squares and derives its
// uncertainty band from the training residual spread at the configured
// confidence level.
type Statistical struct {
	opt *StatisticalOptions
}

// NewStatistical creates the decomposition strategy. A nil options
// value uses the defaults.
func NewStatistical(opt *StatisticalOptions) *Statistical {
	if opt == nil {
		opt = NewDefaultStatisticalOptions()
	}
	return &Statistical{opt: opt}
}

func clampConfidence(c float64) float64 {
	if c == 0 {
		return DefaultConfidence
	}
	if c < MinConfidence {
		return MinConfidence
	}
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}

// distinctDates counts unique calendar days in an ascending time slice.
func distinctDates(t []time.Time) int {
	n := 0
	var last time.Time
	for _, ti := range t {
		day := time.Date(ti.Year(), ti.Month(), ti.Day(), 0, 0, 0, 0, time.UTC)
		if n == 0 || !day.Equal(last) {
			n++
			last = day
		}
	}
	return n
}

// medianInterval infers the sampling interval from the first two
// training points.
func medianInterval(t []time.Time) time.Duration {
	if len(t) < 2 {
		return 0
	}
	return t[1].Sub(t[0])
}

// Forecast fits the model to the training series and projects horizon
// days past the last training date, returning point estimates with
// lower/upper bounds and the fitted trend/seasonality components.
func (s *Statistical) Forecast(t []time.Time, y []float64, horizon int) (*Series, error) {
	t, y, err := validateTraining(t, y, horizon)
	if err != nil {
		return nil, err
	}
	if distinctDates(t) < 2 {
		return nil, ErrInsufficientData
	}

	span := t[len(t)-1].Sub(t[0])

	b := &featureBuilder{
		trainStart: t[0],
		trainEnd:   t[len(t)-1],
	}
	// drop seasonal components the data cannot express: weekly needs a
	// week of span, yearly needs over a year, daily needs sub-daily
	// sampling
	if s.opt.WeeklySeasonality && span >= 7*24*time.Hour {
		b.weeklyOrders = s.opt.WeeklyOrders
	}
	if span > 365*24*time.Hour {
		b.yearlyOrders = s.opt.YearlyOrders
	}
	if s.opt.DailySeasonality && medianInterval(t) < 24*time.Hour {
		b.dailyOrders = s.opt.DailyOrders
	}

	// a gapped series can span a period with fewer observations than
	// feature columns, leaving the least squares system underdetermined;
	// shed seasonal terms until the rows cover the columns
	for len(y) < b.cols() && b.cols() > 2 {
		switch {
		case b.dailyOrders > 0:
			b.dailyOrders--
		case b.yearlyOrders > 0:
			b.yearlyOrders--
		case b.weeklyOrders > 0:
			b.weeklyOrders--
		}
	}

	coef, err := olsFit(b.matrix(t), y)
	if err != nil {
		return nil, fmt.Errorf("fitting series, %w", err)
	}

	// residual spread over the training window drives the band width
	fitted := olsPredict(b.matrix(t), coef)
	residual := make([]float64, len(y))
	copy(residual, y)
	floats.Sub(residual, fitted)
	sd := stat.StdDev(residual, nil)

	conf := clampConfidence(s.opt.Confidence)
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + conf/2)
	band := z * sd

	ht := HorizonDates(t[len(t)-1], horizon)
	value := olsPredict(b.matrix(ht), coef)
	trend, seasonality := b.components(ht, coef)

	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	for i := range value {
		lower[i] = value[i] - band
		upper[i] = value[i] + band
	}

	return &Series{
		T:           ht,
		Value:       value,
		Lower:       lower,
		Upper:       upper,
		Trend:       trend,
		Seasonality: seasonality,
	}, nil
}
