package pairing

import (
	"sort"

	"github.com/sommia/sommelier/pkg/wine"
)

// SelectDiverse assembles the final recommendation from scored wines already
// ordered descending by score. One wine per color is picked first (colors
// iterated in the fixed wine.Colors order) so the user sees meaningfully
// different options; remaining slots are backfilled by raw score. When the
// pool is color-homogeneous this degrades to a plain top-N. Fewer candidates
// than limit returns all of them, never padded.
func SelectDiverse(scored []wine.Scored, limit int) []wine.Scored {
	if limit <= 0 || len(scored) == 0 {
		return nil
	}

	taken := make([]bool, len(scored))
	picked := make([]int, 0, limit)

	// One pass over color groups: the first (highest-scoring) wine of each
	// color, in fixed group order.
	for _, color := range wine.Colors() {
		if len(picked) >= limit {
			break
		}
		for i, w := range scored {
			if taken[i] {
				continue
			}
			if wine.ScoringColor(w.Color) == color {
				taken[i] = true
				picked = append(picked, i)
				break
			}
		}
	}

	// Backfill with the next-best overall.
	for i := range scored {
		if len(picked) >= limit {
			break
		}
		if !taken[i] {
			taken[i] = true
			picked = append(picked, i)
		}
	}

	// The per-color pass can break score order (a lower-scored white picked
	// before a higher-scored backfilled red). The contract is descending
	// score with ties in input order, so sort by input position for equal
	// scores.
	sort.Slice(picked, func(a, b int) bool {
		if scored[picked[a]].Score != scored[picked[b]].Score {
			return scored[picked[a]].Score > scored[picked[b]].Score
		}
		return picked[a] < picked[b]
	})

	selected := make([]wine.Scored, 0, len(picked))
	for _, i := range picked {
		selected = append(selected, scored[i])
	}
	return selected
}
