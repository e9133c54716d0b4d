package rules

import (
	"dragonback/internal/pattern"
)

// Doji is the doji-ambush pullback rule: a limit-up within the last five
// sessions establishes the rally gene, volume then contracts through the
// washout, and the signal day closes as a shrinking-volume doji resting on
// the 5- or 10-day moving average.
func Doji() *pattern.Rule {
	return &pattern.Rule{
		Name:       "doji",
		MinHistory: 20,
		Indicators: []pattern.IndicatorSpec{
			{Name: "MA5", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 5},
			{Name: "MA10", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 10},
			{Name: "MA20", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 20},
			{Name: "VolMA5", Source: pattern.SourceVolume, Kind: pattern.KindMean, Window: 5},
		},
		Conditions: []pattern.Condition{
			{Name: "limit_up_gene", Check: pattern.LimitUpWithin(5, 9.8)},
			{Name: "doji_body", Check: pattern.SmallBody(0.006)},
			{Name: "volume_contraction", Check: pattern.VolumeBelowIndicator("VolMA5", 1.0)},
			{Name: "ma_support", Check: pattern.Any(
				pattern.NearIndicator("MA5", 0.015),
				pattern.NearIndicator("MA10", 0.015),
			)},
		},
		Terms: []pattern.Term{
			{Name: "extreme_contraction", Points: 40, Check: pattern.VolumeBelowPrev(0.7)},
			{Name: "rally_gene", Points: 40, Check: pattern.LimitUpWithin(5, 9.8)},
			{Name: "above_ma20", Points: 20, Check: pattern.AboveIndicator("MA20")},
		},
		Tiers: []pattern.Tier{
			{MinScore: 80, Label: "重点关注：极佳潜伏位，可试错点火"},
			{MinScore: 60, Label: "观察：形态尚可，等待分时走强"},
		},
	}
}
