package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maslow-group/forecastdash/profile"
)

func TestSynthesizeDeterministic(t *testing.T) {
	a := Synthesize(profile.Maslow, nil, NewRand(42))
	b := Synthesize(profile.Maslow, nil, NewRand(42))
	assert.Equal(t, a, b, "same seed must produce identical observations")

	c := Synthesize(profile.Maslow, nil, NewRand(43))
	assert.NotEqual(t, a.Observations[0].Revenue, c.Observations[0].Revenue)
}

func TestSynthesizeWindow(t *testing.T) {
	opt := &SyntheticOptions{
		Start:           time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:            60,
		WeeklyAmplitude: 0.2,
		NoiseScale:      0.1,
		Floor:           0.2,
	}
	s := Synthesize(profile.Fellows, opt, NewRand(1))

	require.Equal(t, 60, s.Len())
	assert.Equal(t, opt.Start, s.Start())
	assert.Equal(t, opt.Start.AddDate(0, 0, 59), s.End())
	for i := 1; i < s.Len(); i++ {
		assert.Equal(t, s.Observations[i-1].Date.AddDate(0, 0, 1), s.Observations[i].Date)
	}
	assert.False(t, s.HasStaff)
	assert.Empty(t, s.Products)
}

func TestSynthesizeFloors(t *testing.T) {
	for _, p := range profile.Brands() {
		s := Synthesize(p, nil, NewRand(7))
		floorRevenue := 0.2 * p.BaseRevenue
		floorQuantity := 0.2 * p.BaseQuantity()
		for _, o := range s.Observations {
			assert.GreaterOrEqual(t, o.Revenue, floorRevenue)
			assert.GreaterOrEqual(t, o.Quantity, floorQuantity)
			assert.GreaterOrEqual(t, o.Staff, 3.0)
			for name, qty := range o.Products {
				assert.GreaterOrEqual(t, qty, 0.0, "product %s", name)
			}
		}
	}
}

func TestSynthesizeProducts(t *testing.T) {
	s := Synthesize(profile.Maslow, nil, NewRand(42))
	assert.Equal(t, []string{"desserts", "drinks", "plates"}, s.Products)
	assert.True(t, s.HasStaff)
}
