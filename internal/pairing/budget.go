package pairing

import "github.com/sommia/sommelier/pkg/wine"

// FilterByBudget narrows candidates to a price window around the target
// budget. A zero budget returns the input unchanged. If filtering empties
// the set the full input is returned: availability beats strict budget
// adherence, especially against a finite restaurant list.
func FilterByBudget(candidates []wine.Candidate, budget float64, source wine.Source, t Tuning) []wine.Candidate {
	if budget <= 0 {
		return candidates
	}

	filtered := make([]wine.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if withinBudget(c, budget, source, t) {
			filtered = append(filtered, c)
		}
	}

	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}

// withinBudget applies the mode-specific affordability rule.
func withinBudget(c wine.Candidate, budget float64, source wine.Source, t Tuning) bool {
	switch source {
	case wine.SourceFixedList:
		// A bottle within budget, or a glass listing whose estimated
		// bottle price fits.
		if c.PriceBottle > 0 && c.PriceBottle <= budget {
			return true
		}
		if c.PriceGlass > 0 && c.PriceGlass*t.GlassBottleRatio <= budget {
			return true
		}
		return false
	default:
		// Catalog mode keeps a tolerance window around the budget so
		// near-budget options survive an exact-or-nothing cutoff.
		return c.Price >= t.BudgetWindowLow*budget && c.Price <= t.BudgetWindowHigh*budget
	}
}

// FilterByColor keeps candidates of one canonical color, with the same
// revert-on-empty fallback as the budget filter.
func FilterByColor(candidates []wine.Candidate, color wine.Color, t Tuning) []wine.Candidate {
	if color == wine.ColorUnknown || color == "" {
		return candidates
	}

	filtered := make([]wine.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if wine.ParseColor(string(c.Color)) == color {
			filtered = append(filtered, c)
		}
	}

	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}
