package pattern

import (
	"math"

	"dragonback/internal/domain"
	"dragonback/internal/indicator"
)

// Shared predicate helpers used by the concrete rule sets. Every helper
// treats an undefined indicator or a non-positive divisor as a failed check
// rather than a fault.

// LimitUpWithin reports whether any of the lookback bars strictly before the
// evaluation index posted a daily change of at least threshold percent.
func LimitUpWithin(lookback int, threshold float64) Check {
	return func(c Context) bool {
		return AnyLimitUp(c.Bars, c.Index-lookback, c.Index-1, threshold)
	}
}

// LimitUpBetween is LimitUpWithin with the most recent skipRecent bars before
// the evaluation index additionally excluded, for rules that demand a
// pullback period after the rally day.
func LimitUpBetween(lookback, skipRecent int, threshold float64) Check {
	return func(c Context) bool {
		return AnyLimitUp(c.Bars, c.Index-lookback, c.Index-1-skipRecent, threshold)
	}
}

// AnyLimitUp scans bars[lo..hi] (inclusive, clamped) for a daily change of at
// least threshold percent.
func AnyLimitUp(bars []domain.Bar, lo, hi int, threshold float64) bool {
	if lo < 0 {
		lo = 0
	}
	if hi >= len(bars) {
		hi = len(bars) - 1
	}
	for i := lo; i <= hi; i++ {
		if domain.ChangePct(bars, i) >= threshold {
			return true
		}
	}
	return false
}

// VolumeBelowIndicator reports whether today's volume is under factor times
// the named rolling volume indicator.
func VolumeBelowIndicator(name string, factor float64) Check {
	return func(c Context) bool {
		ref := c.At(name)
		if !indicator.IsDefined(ref) || ref <= 0 {
			return false
		}
		return c.Bar().Volume < ref*factor
	}
}

// VolumeBelowPrev reports whether today's volume is under factor times
// yesterday's volume.
func VolumeBelowPrev(factor float64) Check {
	return func(c Context) bool {
		prev, ok := c.Prev()
		if !ok || prev.Volume <= 0 {
			return false
		}
		return c.Bar().Volume < prev.Volume*factor
	}
}

// NearIndicator reports whether today's close lies within tol (fractional) of
// the named indicator value.
func NearIndicator(name string, tol float64) Check {
	return func(c Context) bool {
		ma := c.At(name)
		if !indicator.IsDefined(ma) || ma <= 0 {
			return false
		}
		return math.Abs(c.Bar().Close-ma)/ma <= tol
	}
}

// CloseToIndicatorRatio reports whether close/indicator falls inside
// [lo, hi].
func CloseToIndicatorRatio(name string, lo, hi float64) Check {
	return func(c Context) bool {
		ma := c.At(name)
		if !indicator.IsDefined(ma) || ma <= 0 {
			return false
		}
		ratio := c.Bar().Close / ma
		return ratio >= lo && ratio <= hi
	}
}

// AboveIndicator reports whether today's close is at or above the named
// indicator value.
func AboveIndicator(name string) Check {
	return func(c Context) bool {
		ma := c.At(name)
		return indicator.IsDefined(ma) && c.Bar().Close >= ma
	}
}

// IndicatorRising reports whether the named indicator is higher today than it
// was lag bars ago.
func IndicatorRising(name string, lag int) Check {
	return func(c Context) bool {
		cur := c.At(name)
		old := c.Ind.At(name, c.Index-lag)
		return indicator.IsDefined(cur) && indicator.IsDefined(old) && cur > old
	}
}

// SmallBody reports whether the candle body is below maxBody as a fraction of
// the open. A doji in this family of strategies is SmallBody(0.006).
func SmallBody(maxBody float64) Check {
	return func(c Context) bool {
		b := c.Bar()
		if b.Open <= 0 {
			return false
		}
		return b.Body() < maxBody
	}
}

// BullishDay reports whether today closed at or above its open.
func BullishDay() Check {
	return func(c Context) bool { return c.Bar().Bullish() }
}

// ChangeAbove reports whether today's daily change exceeds threshold percent.
func ChangeAbove(threshold float64) Check {
	return func(c Context) bool {
		return domain.ChangePct(c.Bars, c.Index) > threshold
	}
}

// InsideDay reports whether today's range is contained in yesterday's
// (the harami shape).
func InsideDay() Check {
	return func(c Context) bool {
		prev, ok := c.Prev()
		if !ok {
			return false
		}
		b := c.Bar()
		return b.High <= prev.High && b.Low >= prev.Low
	}
}

// RangeNarrowing reports whether today's high-low span is tighter than
// yesterday's.
func RangeNarrowing() Check {
	return func(c Context) bool {
		prev, ok := c.Prev()
		return ok && c.Bar().Range() < prev.Range()
	}
}

// TurnoverRateBelow reports whether today's turnover rate is under the given
// percentage.
func TurnoverRateBelow(maxRate float64) Check {
	return func(c Context) bool {
		b := c.Bar()
		return b.TurnoverRate > 0 && b.TurnoverRate < maxRate
	}
}

// DrawdownFromHighAtLeast reports whether the close has fallen at least frac
// from the named rolling-high indicator.
func DrawdownFromHighAtLeast(name string, frac float64) Check {
	return func(c Context) bool {
		high := c.At(name)
		if !indicator.IsDefined(high) || high <= 0 {
			return false
		}
		return (high-c.Bar().Close)/high >= frac
	}
}

// IndicatorsConverged reports whether the spread between the highest and
// lowest of the named indicators is within maxSpread of the lowest.
func IndicatorsConverged(maxSpread float64, names ...string) Check {
	return func(c Context) bool {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, n := range names {
			v := c.At(n)
			if !indicator.IsDefined(v) {
				return false
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if lo <= 0 {
			return false
		}
		return (hi-lo)/lo <= maxSpread
	}
}

// IndicatorAbove reports whether indicator a is above indicator b at the
// evaluation index.
func IndicatorAbove(a, b string) Check {
	return func(c Context) bool {
		va, vb := c.At(a), c.At(b)
		return indicator.IsDefined(va) && indicator.IsDefined(vb) && va > vb
	}
}

// RateBelowIndicator reports whether today's turnover rate is under factor
// times the named rolling turnover-rate indicator.
func RateBelowIndicator(name string, factor float64) Check {
	return func(c Context) bool {
		ref := c.At(name)
		if !indicator.IsDefined(ref) || ref <= 0 {
			return false
		}
		return c.Bar().TurnoverRate < ref*factor
	}
}

// PriceBetween reports whether today's close falls inside [lo, hi].
func PriceBetween(lo, hi float64) Check {
	return func(c Context) bool {
		p := c.Bar().Close
		return p >= lo && p <= hi
	}
}

// All combines checks with logical AND.
func All(checks ...Check) Check {
	return func(c Context) bool {
		for _, ch := range checks {
			if !ch(c) {
				return false
			}
		}
		return true
	}
}

// Any combines checks with logical OR.
func Any(checks ...Check) Check {
	return func(c Context) bool {
		for _, ch := range checks {
			if ch(c) {
				return true
			}
		}
		return false
	}
}
