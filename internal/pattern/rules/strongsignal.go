package rules

import (
	"dragonback/internal/pattern"
)

// StrongSignal is the divergence-to-consensus rule: a recent limit-up with
// volume released, then a contraction that holds the 5-day line. Only
// medium-or-better signals qualify, so the rule carries a score floor.
func StrongSignal() *pattern.Rule {
	return &pattern.Rule{
		Name:       "strongsignal",
		MinHistory: 30,
		Indicators: []pattern.IndicatorSpec{
			{Name: "MA5", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 5},
			{Name: "VolMA5", Source: pattern.SourceVolume, Kind: pattern.KindMean, Window: 5},
			{Name: "RateMA10", Source: pattern.SourceTurnoverRate, Kind: pattern.KindMean, Window: 10},
		},
		Conditions: []pattern.Condition{
			{Name: "limit_up_gene", Check: recentLimitUpInclusive(5, 9.8)},
			{Name: "volume_contraction", Check: pattern.VolumeBelowIndicator("VolMA5", 0.7)},
			{Name: "holding_ma5", Check: pattern.AboveIndicator("MA5")},
		},
		Terms: []pattern.Term{
			{Name: "extreme_rate_contraction", Points: 40, Check: pattern.RateBelowIndicator("RateMA10", 0.6)},
			{Name: "golden_price_band", Points: 20, Check: pattern.PriceBetween(8.0, 15.0)},
			{Name: "wide_gene", Points: 40, Check: pattern.LimitUpWithin(15, 9.5)},
		},
		Tiers: []pattern.Tier{
			{MinScore: 80, Label: "极强（一击必中）：重点关注，分批建仓"},
			{MinScore: 60, Label: "中等（试错观察）：轻仓介入，等待破位拉起"},
		},
		MinQualifyScore: 60,
	}
}

// recentLimitUpInclusive scans the trailing window including the evaluation
// day itself; this variant accepts the signal day being the board day.
func recentLimitUpInclusive(window int, threshold float64) pattern.Check {
	return func(c pattern.Context) bool {
		return pattern.AnyLimitUp(c.Bars, c.Index-window+1, c.Index, threshold)
	}
}
