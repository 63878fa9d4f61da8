package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

const (
	secondsPerDay  = 86400.0
	secondsPerWeek = 7 * secondsPerDay
	secondsPerYear = 365.25 * secondsPerDay
)

// featureBuilder produces the design matrix for the statistical
// strategy: intercept, a trend normalized over the training range, and
// sin/cos fourier pairs per enabled seasonal period. The same builder
// must be used for training and horizon times so the trend scale
// matches.
type featureBuilder struct {
	trainStart time.Time
	trainEnd   time.Time

	dailyOrders  int
	weeklyOrders int
	yearlyOrders int
}

type fourierPeriod struct {
	periodSec float64
	orders    int
}

func (b *featureBuilder) periods() []fourierPeriod {
	var p []fourierPeriod
	if b.dailyOrders > 0 {
		p = append(p, fourierPeriod{secondsPerDay, b.dailyOrders})
	}
	if b.weeklyOrders > 0 {
		p = append(p, fourierPeriod{secondsPerWeek, b.weeklyOrders})
	}
	if b.yearlyOrders > 0 {
		p = append(p, fourierPeriod{secondsPerYear, b.yearlyOrders})
	}
	return p
}

func (b *featureBuilder) cols() int {
	n := 2 // intercept + trend
	for _, p := range b.periods() {
		n += 2 * p.orders
	}
	return n
}

// trendValue maps a time onto [0,1] over the training range and beyond
// 1 on the horizon.
func (b *featureBuilder) trendValue(t time.Time) float64 {
	span := b.trainEnd.Sub(b.trainStart).Seconds()
	return t.Sub(b.trainStart).Seconds() / span
}

// matrix builds the design matrix for the given times.
func (b *featureBuilder) matrix(t []time.Time) *mat.Dense {
	x := mat.NewDense(len(t), b.cols(), nil)
	periods := b.periods()
	for i, ti := range t {
		epoch := float64(ti.Unix())
		x.Set(i, 0, 1.0)
		x.Set(i, 1, b.trendValue(ti))
		c := 2
		for _, p := range periods {
			for k := 1; k <= p.orders; k++ {
				arg := 2 * math.Pi * float64(k) * epoch / p.periodSec
				x.Set(i, c, math.Sin(arg))
				x.Set(i, c+1, math.Cos(arg))
				c += 2
			}
		}
	}
	return x
}

// components splits a fitted prediction into its trend and seasonality
// parts for the component chart.
func (b *featureBuilder) components(t []time.Time, coef []float64) (trend, seasonality []float64) {
	trend = make([]float64, len(t))
	seasonality = make([]float64, len(t))
	periods := b.periods()
	for i, ti := range t {
		epoch := float64(ti.Unix())
		trend[i] = coef[0] + coef[1]*b.trendValue(ti)
		c := 2
		var seas float64
		for _, p := range periods {
			for k := 1; k <= p.orders; k++ {
				arg := 2 * math.Pi * float64(k) * epoch / p.periodSec
				seas += coef[c]*math.Sin(arg) + coef[c+1]*math.Cos(arg)
				c += 2
			}
		}
		seasonality[i] = seas
	}
	return trend, seasonality
}
