package universe

import (
	"sort"
	"strings"

	"dragonback/internal/domain"
)

// Rank orders results by composite score descending, breaking ties by
// backtest win rate descending and then symbol ascending so the output is
// fully deterministic, and truncates to limit (limit <= 0 keeps everything).
// Results whose display name contains one of excludeMarkers are dropped
// before ranking.
func Rank(results []domain.Result, limit int, excludeMarkers []string) []domain.Result {
	ranked := make([]domain.Result, 0, len(results))
	for _, r := range results {
		if nameExcluded(r.Name, excludeMarkers) {
			continue
		}
		ranked = append(ranked, r)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Composite != b.Composite {
			return a.Composite > b.Composite
		}
		if a.Backtest.WinRate != b.Backtest.WinRate {
			return a.Backtest.WinRate > b.Backtest.WinRate
		}
		return a.Symbol < b.Symbol
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func nameExcluded(name string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(name, m) {
			return true
		}
	}
	return false
}
