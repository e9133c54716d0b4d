// Package scanner runs the full evaluation pipeline for a single instrument:
// gating filters, one-shot indicator computation, live pattern evaluation,
// and the historical backtest replay. Anything that disqualifies the
// instrument — bad data, short history, failed gate, no hit — excludes it
// silently; exclusion is a normal outcome, not an error.
package scanner

import (
	"strings"

	"dragonback/internal/backtest"
	"dragonback/internal/domain"
	"dragonback/internal/indicator"
	"dragonback/internal/pattern"
)

// NameResolver maps an instrument code to its display name. Missing entries
// resolve to a placeholder, never a fault.
type NameResolver interface {
	Resolve(symbol string) string
}

// Config is the immutable per-run configuration a Scanner is built with.
type Config struct {
	PriceMin           float64
	PriceMax           float64
	ExcludePrefixes    []string // instrument code prefixes to skip
	ExcludeNameMarkers []string // display-name substrings to skip (e.g. "ST")
	MinHistory         int      // global floor on daily bars before any rule runs
	Backtest           backtest.Config
	WeightByWinRate    bool // weight the composite score by the backtest win rate
}

// Scanner evaluates one rule against instruments. It holds only immutable
// state and is safe for concurrent use.
type Scanner struct {
	rule  *pattern.Rule
	cfg   Config
	names NameResolver
}

// New creates a Scanner for the given rule.
func New(rule *pattern.Rule, cfg Config, names NameResolver) *Scanner {
	return &Scanner{rule: rule, cfg: cfg, names: names}
}

// Rule returns the rule this scanner evaluates.
func (s *Scanner) Rule() *pattern.Rule { return s.rule }

// Scan evaluates the instrument and returns its Result. The second return
// value is false when the instrument is excluded for any reason.
func (s *Scanner) Scan(symbol string, rawBars []domain.Bar) (domain.Result, bool) {
	bars := domain.CleanSeries(rawBars)
	if len(bars) == 0 {
		return domain.Result{}, false
	}

	code := bareCode(symbol)
	for _, prefix := range s.cfg.ExcludePrefixes {
		if strings.HasPrefix(code, prefix) {
			return domain.Result{}, false
		}
	}

	name := s.names.Resolve(symbol)
	for _, marker := range s.cfg.ExcludeNameMarkers {
		if marker != "" && strings.Contains(name, marker) {
			return domain.Result{}, false
		}
	}

	if len(bars) < s.cfg.MinHistory || len(bars) < s.rule.MinHistory {
		return domain.Result{}, false
	}

	last := bars[len(bars)-1]
	if last.Close < s.cfg.PriceMin || last.Close > s.cfg.PriceMax {
		return domain.Result{}, false
	}

	series := bars
	if s.rule.Weekly {
		series = indicator.ResampleWeekly(bars)
		if len(series) < s.rule.MinHistory {
			return domain.Result{}, false
		}
	}

	ind := s.rule.Compute(series)
	live := s.rule.Evaluate(series, ind, len(series)-1)
	if !live.Hit {
		return domain.Result{}, false
	}

	bt := backtest.Replay(series, func(i int) domain.Outcome {
		return s.rule.Evaluate(series, ind, i)
	}, s.cfg.Backtest)

	composite := live.Score
	if s.cfg.WeightByWinRate && !bt.Empty() {
		// A 50% historical win rate leaves the live score unchanged.
		composite = live.Score * (0.5 + bt.WinRate)
	}

	return domain.Result{
		Symbol:    symbol,
		Name:      name,
		Date:      last.Date,
		Price:     last.Close,
		ChangePct: domain.ChangePct(bars, len(bars)-1),
		Rule:      s.rule.Name,
		Outcome:   live,
		Backtest:  bt,
		Composite: composite,
		Tier:      s.rule.MapTier(live.Score, "暂时放弃"),
	}, true
}

// bareCode strips an exchange prefix like "sh." or "sz." from a symbol.
func bareCode(symbol string) string {
	if i := strings.LastIndexByte(symbol, '.'); i >= 0 {
		return symbol[i+1:]
	}
	return symbol
}
