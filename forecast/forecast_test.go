package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyTimes(start time.Time, n int) []time.Time {
	t := make([]time.Time, n)
	for i := range t {
		t[i] = start.AddDate(0, 0, i)
	}
	return t
}

func TestHorizonDates(t *testing.T) {
	last := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	dates := HorizonDates(last, 7)

	require.Len(t, dates, 7)
	assert.Equal(t, last.AddDate(0, 0, 1), dates[0])
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].AddDate(0, 0, 1), dates[i])
	}
}

func TestValidateTraining(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	testData := map[string]struct {
		t       []time.Time
		y       []float64
		horizon int
		err     error
	}{
		"bad horizon": {
			t:       dailyTimes(start, 3),
			y:       []float64{1, 2, 3},
			horizon: 0,
			err:     ErrInvalidHorizon,
		},
		"no data": {
			horizon: 7,
			err:     ErrNoTrainingData,
		},
		"length mismatch": {
			t:       dailyTimes(start, 3),
			y:       []float64{1, 2},
			horizon: 7,
			err:     ErrMismatchedLen,
		},
		"non monotonic": {
			t:       []time.Time{start.AddDate(0, 0, 1), start},
			y:       []float64{1, 2},
			horizon: 7,
			err:     ErrNonMonotonic,
		},
		"all nan": {
			t:       dailyTimes(start, 2),
			y:       []float64{math.NaN(), math.NaN()},
			horizon: 7,
			err:     ErrAllValuesMissing,
		},
		"valid": {
			t:       dailyTimes(start, 3),
			y:       []float64{1, math.NaN(), 3},
			horizon: 7,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ct, cy, err := validateTraining(td.t, td.y, td.horizon)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(ct), len(cy))
			for _, v := range cy {
				assert.False(t, math.IsNaN(v))
			}
		})
	}
}

func TestSeriesAggregates(t *testing.T) {
	s := &Series{
		T:     dailyTimes(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 4),
		Value: []float64{10, 20, 30, 40},
	}

	assert.InDelta(t, 100, s.Total(), 1e-9)
	assert.InDelta(t, 25, s.Mean(), 1e-9)
	assert.InDelta(t, 35, s.TailMean(2), 1e-9)
	assert.InDelta(t, 25, s.TailMean(10), 1e-9)
	assert.InDelta(t, 40, s.Last(), 1e-9)
	assert.False(t, s.HasBounds())

	empty := &Series{}
	assert.Zero(t, empty.Mean())
	assert.Zero(t, empty.TailMean(7))
	assert.Zero(t, empty.Last())
}
