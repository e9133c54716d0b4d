package rules

import (
	"math"

	"dragonback/internal/pattern"
)

// DragonBack20 is the 20-day-line pullback rule: a rally day in the recent
// past (but not in the last three sessions), an upward-sloping MA20, and a
// close parked within the support band around the line.
func DragonBack20() *pattern.Rule {
	return &pattern.Rule{
		Name:       "dragonback20",
		MinHistory: 30,
		Indicators: []pattern.IndicatorSpec{
			{Name: "MA20", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 20},
			{Name: "VolMA5", Source: pattern.SourceVolume, Kind: pattern.KindMean, Window: 5},
		},
		Conditions: []pattern.Condition{
			{Name: "limit_up_gene", Check: pattern.LimitUpBetween(14, 3, 9.8)},
			{Name: "uptrend", Check: pattern.All(
				pattern.IndicatorRising("MA20", 3),
				pattern.CloseToIndicatorRatio("MA20", 0.98, math.Inf(1)),
			)},
			{Name: "ma20_support", Check: pattern.NearIndicator("MA20", 0.03)},
		},
		Terms: []pattern.Term{
			{Name: "stop_drop", Points: 40, Check: pattern.BullishDay()},
			{Name: "closed_up", Points: 30, Check: pattern.ChangeAbove(0)},
			{Name: "volume_contraction", Points: 30, Check: pattern.VolumeBelowIndicator("VolMA5", 1.0)},
		},
		Tiers: []pattern.Tier{
			{MinScore: 80, Label: "重点关注：回踩确认且止跌，建议分批试错"},
			{MinScore: 50, Label: "观察：虽有支撑但力度一般，待放量阳线"},
		},
	}
}
