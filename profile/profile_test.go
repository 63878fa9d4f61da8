package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByKey(t *testing.T) {
	testData := map[string]struct {
		key      string
		expected string
		err      error
	}{
		"maslow":  {key: "maslow", expected: "Maslow Mégisserie"},
		"fellows": {key: "fellows", expected: "Fellows Restaurant"},
		"temple":  {key: "temple", expected: "Maslow Temple"},
		"generic": {key: "generic", expected: "Generic Restaurant"},
		"unknown": {key: "bistro", err: ErrUnknownProfile},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			p, err := ByKey(td.key)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, p.Name)
		})
	}
}

func TestBaselines(t *testing.T) {
	// the baseline quantity implied by customers x items-per-customer
	// matches the group's comparison figures
	assert.InDelta(t, 180, Maslow.BaseQuantity(), 1e-9)
	assert.InDelta(t, 140.4, Fellows.BaseQuantity(), 1e-9)
	assert.InDelta(t, 120, Temple.BaseQuantity(), 1e-9)

	assert.InDelta(t, 1200.0/72, Maslow.BaselineAOV(), 1e-9)
	assert.Zero(t, Profile{}.BaselineAOV())
}

func TestBrandsAndKeys(t *testing.T) {
	brands := Brands()
	require.Len(t, brands, 3)
	assert.Equal(t, "maslow", brands[0].Key)

	keys := Keys()
	assert.Equal(t, []string{"fellows", "generic", "maslow", "temple"}, keys)
}

func TestProductNames(t *testing.T) {
	assert.Equal(t, []string{"desserts", "drinks", "plates"}, Maslow.ProductNames())
	assert.Empty(t, Generic.ProductNames())
}
