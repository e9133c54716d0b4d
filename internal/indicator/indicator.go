// Package indicator computes rolling aggregates over daily-bar series. All
// outputs are aligned index-for-index with the input; indices before the
// window is full hold NaN, and callers must check IsDefined before use.
package indicator

import (
	"math"

	"dragonback/internal/domain"
)

// Set maps an indicator name (e.g. "MA5", "VolMA5") to its aligned value
// sequence. A Set is derived data: recomputed every run, never mutated once
// produced.
type Set map[string][]float64

// At returns the value of the named indicator at index i, or NaN when the
// indicator is missing or i is out of range.
func (s Set) At(name string, i int) float64 {
	vals, ok := s[name]
	if !ok || i < 0 || i >= len(vals) {
		return math.NaN()
	}
	return vals[i]
}

// IsDefined reports whether v is a usable indicator value.
func IsDefined(v float64) bool { return !math.IsNaN(v) }

// ---------------------------------------------------------------------------
// Series extractors
// ---------------------------------------------------------------------------

// Closes returns the close prices of bars as a float sequence.
func Closes(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the traded volumes of bars as a float sequence.
func Volumes(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// Highs returns the high prices of bars as a float sequence.
func Highs(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low prices of bars as a float sequence.
func Lows(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// TurnoverRates returns the turnover rates of bars as a float sequence.
func TurnoverRates(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.TurnoverRate
	}
	return out
}

// ---------------------------------------------------------------------------
// Rolling aggregates
// ---------------------------------------------------------------------------

// RollingMean computes the arithmetic mean of the trailing window values. The
// first window-1 indices are NaN. A series shorter than the window yields an
// entirely undefined sequence rather than an error.
func RollingMean(vals []float64, window int) []float64 {
	out := undefinedSeq(len(vals))
	if window <= 0 || len(vals) < window {
		return out
	}
	var sum float64
	for i, v := range vals {
		sum += v
		if i >= window {
			sum -= vals[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RollingMax computes the maximum over the trailing window values, NaN until
// the window is full.
func RollingMax(vals []float64, window int) []float64 {
	return rollingExtreme(vals, window, func(a, b float64) bool { return a > b })
}

// RollingMin computes the minimum over the trailing window values, NaN until
// the window is full.
func RollingMin(vals []float64, window int) []float64 {
	return rollingExtreme(vals, window, func(a, b float64) bool { return a < b })
}

// Diff returns vals[i] - vals[i-lag], NaN for the first lag indices and
// wherever either operand is undefined.
func Diff(vals []float64, lag int) []float64 {
	out := undefinedSeq(len(vals))
	if lag <= 0 {
		return out
	}
	for i := lag; i < len(vals); i++ {
		out[i] = vals[i] - vals[i-lag]
	}
	return out
}

func rollingExtreme(vals []float64, window int, better func(a, b float64) bool) []float64 {
	out := undefinedSeq(len(vals))
	if window <= 0 || len(vals) < window {
		return out
	}
	for i := window - 1; i < len(vals); i++ {
		ext := vals[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			if better(vals[j], ext) {
				ext = vals[j]
			}
		}
		out[i] = ext
	}
	return out
}

func undefinedSeq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// ---------------------------------------------------------------------------
// Weekly resampling
// ---------------------------------------------------------------------------

// ResampleWeekly aggregates daily bars into weekly bars grouped by ISO week:
// first open, max high, min low, last close, summed volume and turnover. The
// input must be date-ascending. The last (possibly partial) week is included.
func ResampleWeekly(bars []domain.Bar) []domain.Bar {
	var out []domain.Bar
	var curYear, curWeek int
	for _, b := range bars {
		year, week := b.Date.ISOWeek()
		if len(out) == 0 || year != curYear || week != curWeek {
			curYear, curWeek = year, week
			out = append(out, b)
			continue
		}
		w := &out[len(out)-1]
		if b.High > w.High {
			w.High = b.High
		}
		if b.Low < w.Low {
			w.Low = b.Low
		}
		w.Close = b.Close
		w.Volume += b.Volume
		w.Turnover += b.Turnover
		w.TurnoverRate += b.TurnoverRate
		w.Date = b.Date // a weekly bar carries its last trading day's date
		w.ChangePct = 0 // derived from the prior weekly close instead
	}
	return out
}
