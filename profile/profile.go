// Package profile holds the static per-brand configuration for the
// restaurant group: display palette, baseline daily metrics, staffing
// constants, and service tier thresholds. Profiles are immutable and
// registered at init.
package profile

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownProfile = errors.New("unknown restaurant profile")

// Palette is the brand color set used by the presentation layer.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Thresholds is a revenue/quantity pair marking the upper edge of a
// service tier.
type Thresholds struct {
	Revenue  float64 `json:"revenue"`
	Quantity float64 `json:"quantity"`
}

// Tier describes one service level for a brand along with the staff
// range shown to operators and a free-text operational note.
type Tier struct {
	Label      string `json:"label"`
	StaffRange string `json:"staff_range"`
	Note       string `json:"note"`
}

// Profile is the full static configuration for one restaurant brand.
type Profile struct {
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	Concept string  `json:"concept"`
	Address string  `json:"address"`
	Palette Palette `json:"palette"`

	// baseline per-day metrics used by the synthetic generator and the
	// multi-restaurant comparison
	BaseRevenue   float64 `json:"base_revenue"`
	BaseCustomers float64 `json:"base_customers"`
	BaseStaff     float64 `json:"base_staff"`

	// staffing requirement constants: staff = base_staff +
	// (customers - base_customers) * StaffRatio, floored at 3
	StaffRatio float64 `json:"staff_ratio"`

	// average plates/items ordered per customer, used to estimate
	// customer counts from forecasted quantity
	ItemsPerCustomer float64 `json:"items_per_customer"`

	// seasonality components enabled when fitting the statistical model
	DailySeasonality  bool `json:"daily_seasonality"`
	WeeklySeasonality bool `json:"weekly_seasonality"`

	// baseline per-day product quantity mix
	ProductMix map[string]float64 `json:"product_mix"`

	// service tier edges: below Light is light service, below Standard
	// is standard service, otherwise full service
	Light    Thresholds `json:"light"`
	Standard Thresholds `json:"standard"`
	Tiers    [3]Tier    `json:"tiers"`
}

const groupAddress = "84 rue du Fg St Denis, 75010 Paris"

var (
	// Maslow is the shared-plates vegetarian concept.
	Maslow = Profile{
		Key:     "maslow",
		Name:    "Maslow Mégisserie",
		Concept: "Artisanal Vegetarian • Shared Plates",
		Address: groupAddress,
		Palette: Palette{
			Primary:    "#FF8C00",
			Secondary:  "#FF6347",
			Accent:     "#FFB347",
			Background: "#FFF8DC",
			Text:       "#8B4513",
		},
		BaseRevenue:       1200,
		BaseCustomers:     72,
		BaseStaff:         8,
		StaffRatio:        0.11,
		ItemsPerCustomer:  2.5,
		DailySeasonality:  true,
		WeeklySeasonality: true,
		ProductMix: map[string]float64{
			"plates":   130,
			"drinks":   40,
			"desserts": 18,
		},
		Light:    Thresholds{Revenue: 800, Quantity: 120},
		Standard: Thresholds{Revenue: 1800, Quantity: 280},
		Tiers: [3]Tier{
			{Label: "light", StaffRange: "2-3 staff", Note: "Focus on plate quality and sharing experience"},
			{Label: "standard", StaffRange: "4-6 staff", Note: "Maintain 2-3 plates per person rhythm"},
			{Label: "full", StaffRange: "7+ staff", Note: "High volume - ensure sharing plate timing"},
		},
	}

	// Fellows is the artisanal pasta concept.
	Fellows = Profile{
		Key:     "fellows",
		Name:    "Fellows Restaurant",
		Concept: "Artisanal Pasta • 100% Maison",
		Address: groupAddress,
		Palette: Palette{
			Primary:    "#2F2F2F",
			Secondary:  "#FFFFFF",
			Accent:     "#808080",
			Background: "#F8F8FF",
			Text:       "#2F2F2F",
		},
		BaseRevenue:       950,
		BaseCustomers:     108,
		BaseStaff:         6,
		StaffRatio:        0.06,
		ItemsPerCustomer:  1.3,
		DailySeasonality:  false,
		WeeklySeasonality: true,
		ProductMix: map[string]float64{
			"pasta":    95,
			"starters": 30,
			"desserts": 15,
		},
		Light:    Thresholds{Revenue: 600, Quantity: 100},
		Standard: Thresholds{Revenue: 1400, Quantity: 250},
		Tiers: [3]Tier{
			{Label: "light", StaffRange: "2-3 staff", Note: "Focus on pasta preparation quality"},
			{Label: "standard", StaffRange: "4-5 staff", Note: "Artisanal pasta requires skilled preparation"},
			{Label: "full", StaffRange: "6+ staff", Note: "High pasta volume - ensure fresh preparation"},
		},
	}

	// Temple is the premium tasting concept.
	Temple = Profile{
		Key:     "temple",
		Name:    "Maslow Temple",
		Concept: "Premium Artisanal • Temple Experience",
		Address: groupAddress,
		Palette: Palette{
			Primary:    "#8B0000",
			Secondary:  "#DC143C",
			Accent:     "#FFB6C1",
			Background: "#FFF0F5",
			Text:       "#8B0000",
		},
		BaseRevenue:       1800,
		BaseCustomers:     30,
		BaseStaff:         10,
		StaffRatio:        0.40,
		ItemsPerCustomer:  4.0,
		DailySeasonality:  true,
		WeeklySeasonality: true,
		ProductMix: map[string]float64{
			"courses":  100,
			"pairings": 22,
		},
		Light:    Thresholds{Revenue: 1200, Quantity: 80},
		Standard: Thresholds{Revenue: 2500, Quantity: 160},
		Tiers: [3]Tier{
			{Label: "light", StaffRange: "3-4 staff", Note: "Maintain premium service standards"},
			{Label: "standard", StaffRange: "5-7 staff", Note: "Temple experience requires attention to detail"},
			{Label: "full", StaffRange: "8+ staff", Note: "High-end service - ensure luxury experience"},
		},
	}

	// Generic is the fallback used when no brand profile applies.
	Generic = Profile{
		Key:               "generic",
		Name:              "Generic Restaurant",
		Concept:           "Standard dining",
		BaseRevenue:       1000,
		BaseCustomers:     75,
		BaseStaff:         5,
		StaffRatio:        0.08,
		ItemsPerCustomer:  2.0,
		DailySeasonality:  true,
		WeeklySeasonality: true,
		Light:             Thresholds{Revenue: 800, Quantity: 150},
		Standard:          Thresholds{Revenue: 1800, Quantity: 350},
		Tiers: [3]Tier{
			{Label: "light", StaffRange: "2-3 staff", Note: "Light day operations"},
			{Label: "standard", StaffRange: "4-6 staff", Note: "Regular operations"},
			{Label: "full", StaffRange: "7+ staff", Note: "High volume operations"},
		},
	}
)

var registry = map[string]Profile{
	Maslow.Key:  Maslow,
	Fellows.Key: Fellows,
	Temple.Key:  Temple,
	Generic.Key: Generic,
}

// ByKey looks up a registered profile, returning ErrUnknownProfile if
// the key is not recognized.
func ByKey(key string) (Profile, error) {
	p, ok := registry[key]
	if !ok {
		return Profile{}, fmt.Errorf("%q, %w", key, ErrUnknownProfile)
	}
	return p, nil
}

// Keys returns all registered profile keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Brands returns the three restaurant brands in presentation order,
// excluding the generic fallback.
func Brands() []Profile {
	return []Profile{Maslow, Fellows, Temple}
}

// BaselineAOV is the brand's average order value implied by its
// baseline metrics, 0 when the baseline has no customers.
func (p Profile) BaselineAOV() float64 {
	if p.BaseCustomers == 0 {
		return 0
	}
	return p.BaseRevenue / p.BaseCustomers
}

// BaseQuantity is the baseline per-day items sold implied by the
// baseline customer count and the items-per-customer ratio.
func (p Profile) BaseQuantity() float64 {
	return p.BaseCustomers * p.ItemsPerCustomer
}

// ProductNames returns the mix's product names in sorted order.
func (p Profile) ProductNames() []string {
	names := make([]string, 0, len(p.ProductMix))
	for name := range p.ProductMix {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
