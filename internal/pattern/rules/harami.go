package rules

import (
	"dragonback/internal/pattern"
)

// GoldenHarami is the dead-volume harami rule: today's range is swallowed by
// yesterday's, volume collapses against both yesterday and the 20-day mean,
// and the daily swing tightens — the washout exhausting itself.
func GoldenHarami() *pattern.Rule {
	return &pattern.Rule{
		Name:       "harami",
		MinHistory: 30,
		Indicators: []pattern.IndicatorSpec{
			{Name: "VolMA20", Source: pattern.SourceVolume, Kind: pattern.KindMean, Window: 20},
		},
		Conditions: []pattern.Condition{
			{Name: "inside_day", Check: pattern.InsideDay()},
			{Name: "dead_volume", Check: pattern.All(
				pattern.VolumeBelowPrev(0.7),
				pattern.VolumeBelowIndicator("VolMA20", 0.8),
			)},
			{Name: "range_tightening", Check: pattern.RangeNarrowing()},
		},
		Terms: []pattern.Term{
			{Name: "extreme_contraction", Points: 40, Check: pattern.VolumeBelowPrev(0.5)},
			{Name: "bullish_inside_bar", Points: 20, Check: pattern.BullishDay()},
			{Name: "not_chasing", Points: 20, Check: notChasing(1.02)},
			{Name: "locked_float", Points: 20, Check: pattern.TurnoverRateBelow(3.0)},
		},
		Tiers: []pattern.Tier{
			{MinScore: 80, Label: "重仓出击：地量极致，洗盘彻底，大概率反转"},
			{MinScore: 60, Label: "适度试错：形态标准，建议分批建仓"},
		},
	}
}

// notChasing passes when today's close stays under factor times yesterday's
// close, i.e. the entry is not buying strength.
func notChasing(factor float64) pattern.Check {
	return func(c pattern.Context) bool {
		prev, ok := c.Prev()
		if !ok || prev.Close <= 0 {
			return false
		}
		return c.Bar().Close < prev.Close*factor
	}
}
