package rules

import (
	"dragonback/internal/pattern"
)

// Qiankun is the deep-oversold rebound rule: at least a 70% fall from the
// trailing high, the 5/10/20-day averages glued together, and a limit-up in
// the last ten sessions showing the base has been re-activated.
func Qiankun() *pattern.Rule {
	return &pattern.Rule{
		Name:       "qiankun",
		MinHistory: 120,
		Indicators: []pattern.IndicatorSpec{
			{Name: "MA5", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 5},
			{Name: "MA10", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 10},
			{Name: "MA20", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 20},
			{Name: "High120", Source: pattern.SourceHigh, Kind: pattern.KindMax, Window: 120},
		},
		Conditions: []pattern.Condition{
			{Name: "deep_drawdown", Check: pattern.DrawdownFromHighAtLeast("High120", 0.70)},
			{Name: "ma_converged", Check: pattern.IndicatorsConverged(0.05, "MA5", "MA10", "MA20")},
			{Name: "limit_up_gene", Check: pattern.LimitUpWithin(10, 9.5)},
		},
		Terms: []pattern.Term{
			{Name: "oversold", Points: 20, Check: pattern.DrawdownFromHighAtLeast("High120", 0.70)},
			{Name: "despair_zone", Points: 20, Check: pattern.DrawdownFromHighAtLeast("High120", 0.80)},
			{Name: "ma_glued", Points: 15, Check: pattern.IndicatorsConverged(0.05, "MA5", "MA10", "MA20")},
			{Name: "ma_welded", Points: 15, Check: pattern.IndicatorsConverged(0.02, "MA5", "MA10", "MA20")},
			{Name: "activated", Points: 30, Check: pattern.LimitUpWithin(10, 9.5)},
		},
		Tiers: []pattern.Tier{
			{MinScore: 80, Label: "极度强烈建议：全仓伏击/加仓"},
			{MinScore: 60, Label: "强烈建议：试错买入"},
			{MinScore: 40, Label: "观察：等待均线完全重合"},
		},
	}
}
