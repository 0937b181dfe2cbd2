// Package wine defines the domain model shared by the SOMMIA recommendation
// plugins: wine candidates, colors, scored wines, and the request/response
// contract of the pairing engine.
package wine

import "strings"

// Color categorizes a wine by its canonical color/type.
type Color string

const (
	ColorRed       Color = "red"
	ColorWhite     Color = "white"
	ColorRose      Color = "rose"
	ColorSparkling Color = "sparkling"
	ColorUnknown   Color = "unknown"
)

// Colors lists the canonical colors in the fixed order used by the
// diversity selector. Deterministic iteration order matters: selection
// results must be reproducible for identical inputs.
func Colors() []Color {
	return []Color{ColorRed, ColorWhite, ColorRose, ColorSparkling}
}

// colorAliases maps lowercased raw color labels (French and English, as they
// appear in the catalog and in OCR-extracted lists) to canonical colors.
var colorAliases = map[string]Color{
	"red":          ColorRed,
	"rouge":        ColorRed,
	"white":        ColorWhite,
	"blanc":        ColorWhite,
	"rose":         ColorRose,
	"rosé":         ColorRose,
	"sparkling":    ColorSparkling,
	"champagne":    ColorSparkling,
	"pétillant":    ColorSparkling,
	"petillant":    ColorSparkling,
	"effervescent": ColorSparkling,
	"bulles":       ColorSparkling,
	"crémant":      ColorSparkling,
	"cremant":      ColorSparkling,
	"mousseux":     ColorSparkling,
}

// substringAliases is checked in order for labels like "vin rouge" or
// "red wine". Ordered so parsing stays deterministic when several aliases
// appear in one label ("champagne rosé" is sparkling, not rosé).
var substringAliases = []struct {
	alias string
	color Color
}{
	{"champagne", ColorSparkling},
	{"pétillant", ColorSparkling},
	{"effervescent", ColorSparkling},
	{"crémant", ColorSparkling},
	{"mousseux", ColorSparkling},
	{"sparkling", ColorSparkling},
	{"rouge", ColorRed},
	{"blanc", ColorWhite},
	{"rosé", ColorRose},
	{"rose", ColorRose},
	{"white", ColorWhite},
	{"red", ColorRed},
}

// ParseColor normalizes a raw color/type label to a canonical Color.
// Unrecognized or empty labels return ColorUnknown; callers that need a
// scoring color should use ScoringColor instead.
func ParseColor(raw string) Color {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ColorUnknown
	}
	if c, ok := colorAliases[key]; ok {
		return c
	}
	for _, sa := range substringAliases {
		if strings.Contains(key, sa.alias) {
			return sa.color
		}
	}
	return ColorUnknown
}

// ScoringColor returns the color used for pairing computations. Unknown
// colors default to red: the catalog skews heavily red and the source app
// made the same documented choice rather than dropping the candidate.
func ScoringColor(c Color) Color {
	switch c {
	case ColorRed, ColorWhite, ColorRose, ColorSparkling:
		return c
	default:
		return ColorRed
	}
}

// Candidate is one sellable wine considered by the pairing engine, either a
// catalog row or an entry extracted from a photographed restaurant list.
// Candidates are never mutated; scoring produces Scored values instead.
type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Producer string `json:"producer,omitempty"`
	Region   string `json:"region,omitempty"`
	Color    Color  `json:"color"`
	Vintage  int    `json:"vintage,omitempty"`

	// Price is the estimated retail price (catalog mode).
	Price float64 `json:"price,omitempty"`
	// PriceBottle and PriceGlass come from restaurant lists (fixed-list
	// mode); at least one is present there.
	PriceBottle float64 `json:"price_bottle,omitempty"`
	PriceGlass  float64 `json:"price_glass,omitempty"`

	// Quality is an intrinsic 0-100 signal (critic/community score).
	// Zero means unset; the scorer substitutes its documented default.
	Quality int `json:"quality,omitempty"`
}

// Scored is a Candidate augmented with the engine's verdict. Immutable once
// created.
type Scored struct {
	Candidate
	// Score is the composite match score, always in [0,1].
	Score float64 `json:"match_score"`
	// Reasoning is the natural-language pairing justification.
	Reasoning string `json:"reasoning"`
}

// Source selects how candidate prices are interpreted by the budget filter
// and the price-band component.
type Source string

const (
	// SourceCatalog is the open-database mode: candidates carry a retail
	// Price and the budget filter keeps a tolerance window around the
	// target budget.
	SourceCatalog Source = "catalog"
	// SourceFixedList is the restaurant mode: candidates carry bottle
	// and/or glass prices from an extracted menu.
	SourceFixedList Source = "fixed_list"
)

// Request is the pairing engine input.
type Request struct {
	// Dish is the free-text dish description. Required, non-empty.
	Dish string
	// Budget is the optional currency-agnostic target budget (> 0 when set).
	Budget float64
	// Preference optionally restricts candidates to one color.
	Preference Color
	// Source selects price semantics.
	Source Source
	// Candidates is the pool to rank. In fixed-list mode an empty pool is
	// a precondition failure, not a zero-result success.
	Candidates []Candidate
	// SessionID correlates a fixed-list request to a stored extraction.
	SessionID string
}

// Result is the ordered recommendation set: at most three Scored wines,
// descending by score, ties broken by original candidate order.
type Result struct {
	Dish            string   `json:"dish"`
	SessionID       string   `json:"restaurant_session_id,omitempty"`
	Recommendations []Scored `json:"recommendations"`
}
