package pairing

import (
	"sort"
	"strings"

	"github.com/sommia/sommelier/pkg/wine"
)

// Scorer computes composite match scores in [0,1]. Scoring is deterministic:
// identical inputs always produce identical scores.
type Scorer struct {
	t Tuning
}

// NewScorer creates a Scorer with the given tuning.
func NewScorer(t Tuning) *Scorer {
	return &Scorer{t: t}
}

// Score computes the composite score for one candidate:
// weighted quality + pairing + price-band components, plus the flat
// premium-region bonus, clamped to [0,1]. Missing signals take their
// documented defaults; no input combination is an error.
func (s *Scorer) Score(c wine.Candidate, cls Classification, source wine.Source) float64 {
	score := s.t.QualityWeight*s.qualityComponent(c) +
		s.t.PairingWeight*s.pairingComponent(c, cls) +
		s.t.PriceWeight*s.priceComponent(c, source)

	score += s.premiumRegionBonus(c)

	return clamp01(score)
}

// ScoreAll scores every candidate and returns them ordered descending by
// score, ties broken by original candidate order (stable sort).
func (s *Scorer) ScoreAll(candidates []wine.Candidate, cls Classification, source wine.Source) []wine.Scored {
	scored := make([]wine.Scored, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, wine.Scored{
			Candidate: c,
			Score:     s.Score(c, cls, source),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// qualityComponent normalizes the 0-100 quality signal to [0,1]. Zero means
// unset and takes the tuned default.
func (s *Scorer) qualityComponent(c wine.Candidate) float64 {
	quality := c.Quality
	if quality <= 0 {
		quality = s.t.DefaultQuality
	}
	if quality > 100 {
		quality = 100
	}
	return float64(quality) / 100
}

// pairingComponent starts from the neutral base and adds the best single
// color/family bonus: the full bonus when the wine's color is the classic
// recommendation for a matched family, the smaller one for a looser
// secondary match. Bonuses do not stack across families.
func (s *Scorer) pairingComponent(c wine.Candidate, cls Classification) float64 {
	color := wine.ScoringColor(c.Color)

	value := s.t.PairingBase
	best := 0.0
	for _, family := range cls.Families {
		if primaryColor[family] == color {
			best = s.t.PrimaryMatchBonus
			break
		}
		if secondaryColor[family] == color && s.t.SecondaryMatchBonus > best {
			best = s.t.SecondaryMatchBonus
		}
	}

	return clamp01(value + best)
}

// priceComponent is a four-tier step function over the effective price, not
// a continuous curve, to avoid over-fitting to exact prices. Candidates
// without a usable price take the neutral value.
func (s *Scorer) priceComponent(c wine.Candidate, source wine.Source) float64 {
	price := s.effectivePrice(c, source)

	switch {
	case price <= 0:
		return s.t.PriceValueUnknown
	case price < s.t.SweetSpotLow:
		return s.t.PriceValueBargain
	case price <= s.t.SweetSpotHigh:
		return s.t.PriceValueSweetSpot
	case price <= s.t.PremiumHigh:
		return s.t.PriceValuePremium
	default:
		return s.t.PriceValueLuxury
	}
}

// effectivePrice resolves the price signal per mode. Fixed-list candidates
// prefer the bottle price and estimate one from the glass price otherwise.
func (s *Scorer) effectivePrice(c wine.Candidate, source wine.Source) float64 {
	if source == wine.SourceFixedList {
		if c.PriceBottle > 0 {
			return c.PriceBottle
		}
		if c.PriceGlass > 0 {
			return c.PriceGlass * s.t.GlassBottleRatio
		}
	}
	return c.Price
}

// premiumRegionBonus returns the flat bonus when the region matches one of
// the tuned premium appellations.
func (s *Scorer) premiumRegionBonus(c wine.Candidate) float64 {
	if c.Region == "" {
		return 0
	}
	region := strings.ToLower(c.Region)
	for _, premium := range s.t.PremiumRegions {
		if strings.Contains(region, premium) {
			return s.t.PremiumRegionBonus
		}
	}
	return 0
}
