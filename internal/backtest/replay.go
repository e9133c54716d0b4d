// Package backtest replays a pattern rule across an instrument's own trailing
// history to estimate how often the signal has paid off. The replay is
// read-only over an already-computed indicator set; indicators are never
// recomputed per historical index.
package backtest

import (
	"dragonback/internal/domain"
)

// Config bounds one replay.
type Config struct {
	Window           int     // number of trailing bars to replay over
	ExcludeRecent    int     // most recent indices excluded from triggering
	Horizon          int     // forward bars over which the return realizes
	SuccessThreshold float64 // fractional forward return counting as a win
}

// EvalFunc evaluates the pattern at a historical index. It must be a pure
// function; Replay calls it once per candidate index.
type EvalFunc func(i int) domain.Outcome

// Replay walks the trailing window, collects a forward-return sample for
// every historical hit, and aggregates. Trigger indices within ExcludeRecent
// of the series end never sample, and an index whose forward horizon would
// run past the last bar is excluded rather than truncated. An empty summary
// (zero samples) means insufficient history, not a 0% win rate.
func Replay(bars []domain.Bar, eval EvalFunc, cfg Config) domain.BacktestSummary {
	var sum domain.BacktestSummary
	n := len(bars)
	if n == 0 || cfg.Horizon <= 0 {
		return sum
	}

	start := n - cfg.Window
	if start < 0 {
		start = 0
	}
	end := n - cfg.ExcludeRecent

	var totalReturn float64
	for i := start; i < end; i++ {
		if i+cfg.Horizon > n-1 {
			break // partial horizon: no sample
		}
		out := eval(i)
		if !out.Hit {
			continue
		}
		entry := bars[i].Close
		if entry <= 0 {
			continue
		}
		high := bars[i+1].High
		for j := i + 2; j <= i+cfg.Horizon; j++ {
			if bars[j].High > high {
				high = bars[j].High
			}
		}
		ret := (high - entry) / entry

		sum.Samples++
		totalReturn += ret
		if ret > cfg.SuccessThreshold {
			sum.Wins++
		}
	}

	if sum.Samples > 0 {
		sum.WinRate = float64(sum.Wins) / float64(sum.Samples)
		sum.MeanReturn = totalReturn / float64(sum.Samples)
	}
	return sum
}
