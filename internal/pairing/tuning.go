// Package pairing implements the SOMMIA recommendation engine: budget
// filtering, dish classification, composite scoring, diversity selection,
// and reasoning generation, shared by the catalog and fixed-list modes.
package pairing

import (
	"strings"

	"github.com/sommia/sommelier/pkg/plugin"
)

// Tuning carries the engine's scoring constants. The defaults reproduce the
// production tuning of the SOMMIA backend; they are deliberately exposed as
// configuration rather than re-derived, because they encode business tuning
// with no documented rationale.
type Tuning struct {
	// Component weights. Must sum to 1.0.
	QualityWeight float64
	PairingWeight float64
	PriceWeight   float64

	// Pairing component: base value plus the bonus for a color matching
	// the dish's primary recommendation, or the smaller bonus for a
	// looser secondary match. Clamped to [0,1] after addition.
	PairingBase         float64
	PrimaryMatchBonus   float64
	SecondaryMatchBonus float64

	// DefaultQuality substitutes for candidates without a quality signal
	// (0-100 scale).
	DefaultQuality int

	// Budget window, catalog mode: keep prices in
	// [BudgetWindowLow×budget, BudgetWindowHigh×budget].
	BudgetWindowLow  float64
	BudgetWindowHigh float64

	// GlassBottleRatio estimates a bottle price from a glass price for
	// glass-only restaurant listings.
	GlassBottleRatio float64

	// Price-band step function: four tiers plus a neutral value for
	// candidates without any price signal.
	SweetSpotLow     float64 // lower bound of the best-value band
	SweetSpotHigh    float64 // upper bound of the best-value band
	PremiumHigh      float64 // upper bound of the premium band
	PriceValueBargain   float64 // below SweetSpotLow
	PriceValueSweetSpot float64 // within [SweetSpotLow, SweetSpotHigh]
	PriceValuePremium   float64 // within (SweetSpotHigh, PremiumHigh]
	PriceValueLuxury    float64 // above PremiumHigh
	PriceValueUnknown   float64 // no usable price signal

	// PremiumRegionBonus is the flat additive bonus for reputationally
	// premium regions; PremiumRegions holds lowercase substrings.
	PremiumRegionBonus float64
	PremiumRegions     []string

	// MaxRecommendations caps the result size.
	MaxRecommendations int
}

// DefaultTuning returns the production constants.
func DefaultTuning() Tuning {
	return Tuning{
		QualityWeight: 0.4,
		PairingWeight: 0.3,
		PriceWeight:   0.3,

		PairingBase:         0.5,
		PrimaryMatchBonus:   0.4,
		SecondaryMatchBonus: 0.25,

		DefaultQuality: 50,

		BudgetWindowLow:  0.7,
		BudgetWindowHigh: 1.2,
		GlassBottleRatio: 5.5,

		SweetSpotLow:        10,
		SweetSpotHigh:       30,
		PremiumHigh:         80,
		PriceValueBargain:   0.7,
		PriceValueSweetSpot: 1.0,
		PriceValuePremium:   0.6,
		PriceValueLuxury:    0.3,
		PriceValueUnknown:   0.5,

		PremiumRegionBonus: 0.1,
		PremiumRegions: []string{
			"bordeaux", "bourgogne", "burgundy",
			"champagne", "châteauneuf", "chateauneuf",
		},

		MaxRecommendations: 3,
	}
}

// TuningFromConfig overlays config values onto the defaults. Only keys
// present in the config section are applied.
func TuningFromConfig(cfg plugin.Config) Tuning {
	t := DefaultTuning()
	if cfg == nil {
		return t
	}

	setF := func(key string, dst *float64) {
		if cfg.IsSet(key) {
			*dst = cfg.GetFloat64(key)
		}
	}
	setF("tuning.quality_weight", &t.QualityWeight)
	setF("tuning.pairing_weight", &t.PairingWeight)
	setF("tuning.price_weight", &t.PriceWeight)
	setF("tuning.budget_window_low", &t.BudgetWindowLow)
	setF("tuning.budget_window_high", &t.BudgetWindowHigh)
	setF("tuning.glass_bottle_ratio", &t.GlassBottleRatio)
	setF("tuning.sweet_spot_low", &t.SweetSpotLow)
	setF("tuning.sweet_spot_high", &t.SweetSpotHigh)
	setF("tuning.premium_high", &t.PremiumHigh)
	setF("tuning.premium_region_bonus", &t.PremiumRegionBonus)

	if cfg.IsSet("tuning.default_quality") {
		t.DefaultQuality = cfg.GetInt("tuning.default_quality")
	}
	if cfg.IsSet("tuning.max_recommendations") {
		t.MaxRecommendations = cfg.GetInt("tuning.max_recommendations")
	}
	if cfg.IsSet("tuning.premium_regions") {
		regions := cfg.GetStringSlice("tuning.premium_regions")
		t.PremiumRegions = make([]string, 0, len(regions))
		for _, r := range regions {
			t.PremiumRegions = append(t.PremiumRegions, strings.ToLower(r))
		}
	}

	return t
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
