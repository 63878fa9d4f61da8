// Package forecast projects a univariate daily series a fixed number of
// days past its last observation. Two interchangeable strategies are
// provided: a statistical trend/seasonality decomposition with
// uncertainty bands, and a multiplicative heuristic over the historical
// mean. Both guarantee exactly horizon points on contiguous daily
// dates starting the day after the last training date.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoTrainingData    = errors.New("no training data")
	ErrMismatchedLen     = errors.New("time and value slices differ in length")
	ErrNonMonotonic      = errors.New("training times are not strictly increasing")
	ErrInsufficientData  = errors.New("need at least 2 distinct dates to fit")
	ErrInvalidHorizon    = errors.New("horizon must be a positive number of days")
	ErrAllValuesMissing  = errors.New("all training values are NaN")
	ErrUntrainedStrategy = errors.New("strategy has not been fit")
)

// Strategy produces a forecast for one metric. Implementations must be
// reproducible given the same inputs and injected random source.
type Strategy interface {
	Forecast(t []time.Time, y []float64, horizon int) (*Series, error)
}

// Series is one metric's projection. T, Value are always horizon long;
// Lower/Upper are nil for strategies without uncertainty bands.
type Series struct {
	T     []time.Time `json:"time"`
	Value []float64   `json:"value"`
	Lower []float64   `json:"lower,omitempty"`
	Upper []float64   `json:"upper,omitempty"`

	// Trend and Seasonality hold the fitted components over the
	// horizon for strategies that decompose the series.
	Trend       []float64 `json:"trend,omitempty"`
	Seasonality []float64 `json:"seasonality,omitempty"`
}

// Len returns the number of forecast points.
func (s *Series) Len() int {
	return len(s.T)
}

// HasBounds reports whether the series carries an uncertainty band.
func (s *Series) HasBounds() bool {
	return len(s.Lower) == len(s.T) && len(s.Upper) == len(s.T) && len(s.T) > 0
}

// Total sums the point estimates over the horizon.
func (s *Series) Total() float64 {
	var sum float64
	for _, v := range s.Value {
		sum += v
	}
	return sum
}

// Mean averages the point estimates over the horizon, 0 when empty.
func (s *Series) Mean() float64 {
	if len(s.Value) == 0 {
		return 0
	}
	return s.Total() / float64(len(s.Value))
}

// TailMean averages the last n point estimates, clamped to the series
// length.
func (s *Series) TailMean(n int) float64 {
	if len(s.Value) == 0 || n <= 0 {
		return 0
	}
	if n > len(s.Value) {
		n = len(s.Value)
	}
	var sum float64
	for _, v := range s.Value[len(s.Value)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// Last returns the final point estimate of the horizon.
func (s *Series) Last() float64 {
	if len(s.Value) == 0 {
		return 0
	}
	return s.Value[len(s.Value)-1]
}

// HorizonDates generates the contiguous daily dates a forecast must
// cover: horizon days starting the day after last.
func HorizonDates(last time.Time, horizon int) []time.Time {
	t := make([]time.Time, horizon)
	for i := 0; i < horizon; i++ {
		t[i] = last.AddDate(0, 0, i+1)
	}
	return t
}

// validateTraining checks the shared training-input contract and
// returns the series with NaN values dropped.
func validateTraining(t []time.Time, y []float64, horizon int) ([]time.Time, []float64, error) {
	if horizon < 1 {
		return nil, nil, fmt.Errorf("%d, %w", horizon, ErrInvalidHorizon)
	}
	if len(t) == 0 {
		return nil, nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, nil, fmt.Errorf("time has %d points, values has %d, %w", len(t), len(y), ErrMismatchedLen)
	}
	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return nil, nil, fmt.Errorf("at index %d, %w", i, ErrNonMonotonic)
		}
	}

	ct := make([]time.Time, 0, len(t))
	cy := make([]float64, 0, len(y))
	for i := range y {
		if math.IsNaN(y[i]) {
			continue
		}
		ct = append(ct, t[i])
		cy = append(cy, y[i])
	}
	if len(ct) == 0 {
		return nil, nil, ErrAllValuesMissing
	}
	return ct, cy, nil
}
