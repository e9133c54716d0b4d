// Package domain defines the core data types shared across the screening
// pipeline: daily bars, pattern outcomes, backtest summaries, and ranked
// results.
package domain

import (
	"sort"
	"time"
)

// Market identifies which market an instrument trades in.
type Market string

// Supported markets.
const (
	MarketCN Market = "cn"
)

// Bar is one trading day's price and volume observation for an instrument.
// Bars are immutable once read from storage.
type Bar struct {
	Symbol       string
	Date         time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64 // shares traded
	Turnover     float64 // value traded
	TurnoverRate float64 // percent of float traded
	ChangePct    float64 // day-over-day change, percent
}

// Bullish reports whether the bar closed at or above its open.
func (b Bar) Bullish() bool { return b.Close >= b.Open }

// Body returns the candle body as a fraction of the open. Returns 0 when the
// open is not a usable divisor.
func (b Bar) Body() float64 {
	if b.Open <= 0 {
		return 0
	}
	body := b.Close - b.Open
	if body < 0 {
		body = -body
	}
	return body / b.Open
}

// Range returns the high-low span of the bar.
func (b Bar) Range() float64 { return b.High - b.Low }

// CleanSeries sorts bars by date ascending and drops duplicate dates, keeping
// the last occurrence. The input slice is not modified.
func CleanSeries(bars []Bar) []Bar {
	out := make([]Bar, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	cleaned := out[:0]
	for _, b := range out {
		if n := len(cleaned); n > 0 && cleaned[n-1].Date.Equal(b.Date) {
			cleaned[n-1] = b
			continue
		}
		cleaned = append(cleaned, b)
	}
	return cleaned
}

// ChangePct returns the daily change of bars[i] in percent. The value stored
// on the bar wins; when absent it is derived from the previous close.
func ChangePct(bars []Bar, i int) float64 {
	if i < 0 || i >= len(bars) {
		return 0
	}
	if bars[i].ChangePct != 0 {
		return bars[i].ChangePct
	}
	if i == 0 {
		return 0
	}
	prev := bars[i-1].Close
	if prev <= 0 {
		return 0
	}
	return (bars[i].Close - prev) / prev * 100
}

// Outcome is the result of evaluating one pattern rule at one bar index.
type Outcome struct {
	Hit        bool
	Score      float64
	Components map[string]bool // named gate/condition/bonus flags
}

// BacktestSummary aggregates the historical samples collected by replaying a
// rule over an instrument's own trailing history. A summary with zero samples
// means "insufficient history", which is distinct from a 0% win rate.
type BacktestSummary struct {
	Samples    int
	Wins       int
	WinRate    float64 // wins / samples; only meaningful when Samples > 0
	MeanReturn float64 // arithmetic mean of all sample forward returns
}

// Empty reports whether the summary carries no samples at all.
func (s BacktestSummary) Empty() bool { return s.Samples == 0 }

// Result is the per-instrument output record of one scan. It is created once
// and never mutated afterwards.
type Result struct {
	Symbol    string
	Name      string
	Date      time.Time
	Price     float64
	ChangePct float64
	Rule      string
	Outcome   Outcome
	Backtest  BacktestSummary
	Composite float64
	Tier      string
}
