package rules

import (
	"dragonback/internal/domain"
	"dragonback/internal/indicator"
	"dragonback/internal/pattern"
)

// QinLong is the four-step dragon-catch rule: a pit (shrinking-volume washout
// low), a breakout over the 20-day line on released volume, a pullback that
// holds the breakout day's open, and an ignition day on doubled volume and
// high turnover. The whole rule only runs in an aligned uptrend, so the
// bull-market filter sits in the gate stage.
func QinLong() *pattern.Rule {
	return &pattern.Rule{
		Name:       "qinlong",
		MinHistory: 120,
		Indicators: []pattern.IndicatorSpec{
			{Name: "MA5", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 5},
			{Name: "MA10", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 10},
			{Name: "MA20", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 20},
			{Name: "MA120", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 120},
			{Name: "VolMA5", Source: pattern.SourceVolume, Kind: pattern.KindMean, Window: 5},
			{Name: "High120", Source: pattern.SourceHigh, Kind: pattern.KindMax, Window: 120},
		},
		Gates: []pattern.Gate{
			{Name: "bull_alignment", Check: pattern.All(
				closeOver("MA120"),
				pattern.IndicatorAbove("MA5", "MA10"),
				pattern.IndicatorAbove("MA10", "MA20"),
			)},
		},
		Conditions: []pattern.Condition{
			{Name: "limit_up_gene", Check: recentLimitUpInclusive(15, 9.8)},
			{Name: "below_ceiling", Check: belowCeiling("High120", 1.1)},
			{Name: "breakout_support", Check: pitBreakout(30, 1.5, 4.0, 5)},
		},
		Terms: []pattern.Term{
			{Name: "pit_breakout", Points: 40, Check: pitBreakout(30, 1.5, 4.0, 5)},
			{Name: "coiling", Points: 20, Check: coiling()},
			{Name: "ignition", Points: 40, Check: ignition(3.5, 1.9, 5.0)},
		},
		Tiers: []pattern.Tier{
			{MinScore: 80, Label: "起爆：三军归位+倍量起爆，龙头确认"},
			{MinScore: 60, Label: "蓄势：极致缩量，洗盘彻底，支撑位上方待变"},
		},
		MinQualifyScore: 60,
	}
}

// closeOver passes when today's close is strictly above the named indicator.
func closeOver(name string) pattern.Check {
	return func(c pattern.Context) bool {
		v := c.At(name)
		return indicator.IsDefined(v) && c.Bar().Close > v
	}
}

// belowCeiling passes when the close stays under headroom times the named
// rolling high, keeping out instruments already stretched to their top.
func belowCeiling(name string, headroom float64) pattern.Check {
	return func(c pattern.Context) bool {
		high := c.At(name)
		if !indicator.IsDefined(high) || high <= 0 {
			return false
		}
		return c.Bar().Close < high*headroom
	}
}

// pitBreakout locates the lowest close of the trailing span (the pit), then
// the first bar after it closing over MA20 on volume above volFactor times
// the 5-day mean with a daily change over minChange (the breakout). The lows
// of the last supportSpan bars must all hold the breakout day's open.
func pitBreakout(span int, volFactor, minChange float64, supportSpan int) pattern.Check {
	return func(c pattern.Context) bool {
		lo := c.Index - span + 1
		if lo < 0 {
			lo = 0
		}
		pit := lo
		for j := lo + 1; j <= c.Index; j++ {
			if c.Bars[j].Close < c.Bars[pit].Close {
				pit = j
			}
		}
		for j := pit; j <= c.Index; j++ {
			ma20 := c.Ind.At("MA20", j)
			vma5 := c.Ind.At("VolMA5", j)
			if !indicator.IsDefined(ma20) || !indicator.IsDefined(vma5) || vma5 <= 0 {
				continue
			}
			if c.Bars[j].Close <= ma20 ||
				c.Bars[j].Volume <= vma5*volFactor ||
				domain.ChangePct(c.Bars, j) <= minChange {
				continue
			}
			slo := c.Index - supportSpan + 1
			if slo < 0 {
				slo = 0
			}
			for k := slo; k <= c.Index; k++ {
				if c.Bars[k].Low < c.Bars[j].Open {
					return false
				}
			}
			return true
		}
		return false
	}
}

// coiling passes on a red bar with volume below the previous day's: the
// shrinking pullback between breakout and ignition.
func coiling() pattern.Check {
	return func(c pattern.Context) bool {
		prev, ok := c.Prev()
		if !ok || prev.Volume <= 0 {
			return false
		}
		b := c.Bar()
		return b.Close <= b.Open && b.Volume < prev.Volume
	}
}

// ignition passes on a strong day with volume over volRatio times the
// previous day's and turnover rate above minRate.
func ignition(minChange, volRatio, minRate float64) pattern.Check {
	return func(c pattern.Context) bool {
		prev, ok := c.Prev()
		if !ok || prev.Volume <= 0 {
			return false
		}
		b := c.Bar()
		return domain.ChangePct(c.Bars, c.Index) > minChange &&
			b.Volume > prev.Volume*volRatio &&
			b.TurnoverRate > minRate
	}
}
