package rules

import (
	"dragonback/internal/pattern"
)

// WeeklyResonance is the weekly main-wave rule, evaluated over
// weekly-resampled bars: rising 20-week over 60-week averages, volume piling
// up week over week, and a close breaking the trailing 12-week platform. Pure
// scoring rule; only 70 points and up counts as a signal.
func WeeklyResonance() *pattern.Rule {
	return &pattern.Rule{
		Name:       "resonance",
		MinHistory: 61,
		Weekly:     true,
		Indicators: []pattern.IndicatorSpec{
			{Name: "MA20w", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 20},
			{Name: "MA60w", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 60},
		},
		Terms: []pattern.Term{
			{Name: "trend", Points: 30, Check: pattern.All(
				pattern.IndicatorAbove("MA20w", "MA60w"),
				pattern.IndicatorRising("MA20w", 1),
			)},
			{Name: "volume_piling", Points: 30, Check: volumePiling(4, 0.8)},
			{Name: "platform_breakout", Points: 40, Check: platformBreakout(12)},
		},
		Tiers: []pattern.Tier{
			{MinScore: 90, Label: "激进买入/加仓：主升浪起爆"},
			{MinScore: 70, Label: "底仓试错：趋势形成"},
		},
		MinQualifyScore: 70,
	}
}

// volumePiling passes when each of the trailing weeks holds at least factor
// of the previous week's volume, i.e. volume steps up with only small dips.
func volumePiling(weeks int, factor float64) pattern.Check {
	return func(c pattern.Context) bool {
		if c.Index-weeks+1 < 1 {
			return false
		}
		for j := c.Index - weeks + 2; j <= c.Index; j++ {
			prev := c.Bars[j-1].Volume
			if prev <= 0 || c.Bars[j].Volume <= prev*factor {
				return false
			}
		}
		return true
	}
}

// platformBreakout passes when the close exceeds the highest high of the
// previous span-1 bars, the current bar excluded.
func platformBreakout(span int) pattern.Check {
	return func(c pattern.Context) bool {
		lo := c.Index - span + 1
		if lo < 0 {
			return false
		}
		high := 0.0
		for j := lo; j < c.Index; j++ {
			if c.Bars[j].High > high {
				high = c.Bars[j].High
			}
		}
		return high > 0 && c.Bar().Close > high
	}
}
