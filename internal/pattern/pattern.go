// Package pattern implements the rule evaluator shared by every screening
// strategy. A Rule is declared as data: cheap gating filters, required
// structural conditions, and weighted bonus terms, evaluated in that order at
// a single bar index. The evaluator is a pure function of the bar series, the
// precomputed indicator set, and the index.
package pattern

import (
	"dragonback/internal/domain"
	"dragonback/internal/indicator"
)

// Context carries everything a check needs to inspect one (series, index)
// pair. Checks never mutate the context.
type Context struct {
	Bars  []domain.Bar
	Ind   indicator.Set
	Index int
}

// Bar returns the bar under evaluation.
func (c Context) Bar() domain.Bar { return c.Bars[c.Index] }

// Prev returns the bar before the one under evaluation and whether it exists.
func (c Context) Prev() (domain.Bar, bool) {
	if c.Index < 1 {
		return domain.Bar{}, false
	}
	return c.Bars[c.Index-1], true
}

// At returns the named indicator value at the evaluation index. NaN when
// undefined.
func (c Context) At(name string) float64 { return c.Ind.At(name, c.Index) }

// Check is a single boolean predicate over the evaluation context.
type Check func(Context) bool

// Gate is a cheap, order-independent filter applied before any structural
// condition. A failed gate short-circuits evaluation to "no hit".
type Gate struct {
	Name  string
	Check Check
}

// Condition is a required structural predicate. All conditions must hold for
// a hit.
type Condition struct {
	Name  string
	Check Check
}

// Term assigns bonus points when a secondary confirming condition holds.
type Term struct {
	Name   string
	Points float64
	Check  Check
}

// Tier maps a minimum score to a discrete advisory label. Tiers are declared
// from strongest to weakest.
type Tier struct {
	MinScore float64
	Label    string
}

// Source selects which bar field feeds an indicator.
type Source string

// Indicator input sources.
const (
	SourceClose        Source = "close"
	SourceVolume       Source = "volume"
	SourceHigh         Source = "high"
	SourceLow          Source = "low"
	SourceTurnoverRate Source = "turnover_rate"
)

// Kind selects the rolling aggregate an indicator computes.
type Kind string

// Indicator aggregate kinds.
const (
	KindMean Kind = "mean"
	KindMax  Kind = "max"
	KindMin  Kind = "min"
)

// IndicatorSpec names one rolling indicator a rule needs, so the scanner can
// compute every indicator exactly once per instrument.
type IndicatorSpec struct {
	Name   string
	Source Source
	Kind   Kind
	Window int
}

// Rule is one strategy's complete declarative description.
type Rule struct {
	Name       string
	MinHistory int
	Weekly     bool // evaluate over weekly-resampled bars
	Indicators []IndicatorSpec
	Gates      []Gate
	Conditions []Condition
	Terms      []Term
	Tiers      []Tier

	// MinQualifyScore, when positive, additionally requires the summed score
	// to reach this floor before the outcome counts as a hit.
	MinQualifyScore float64
}

// Compute derives every indicator the rule declares, aligned with bars.
func (r *Rule) Compute(bars []domain.Bar) indicator.Set {
	set := make(indicator.Set, len(r.Indicators))
	for _, spec := range r.Indicators {
		var vals []float64
		switch spec.Source {
		case SourceVolume:
			vals = indicator.Volumes(bars)
		case SourceHigh:
			vals = indicator.Highs(bars)
		case SourceLow:
			vals = indicator.Lows(bars)
		case SourceTurnoverRate:
			vals = indicator.TurnoverRates(bars)
		default:
			vals = indicator.Closes(bars)
		}
		switch spec.Kind {
		case KindMax:
			set[spec.Name] = indicator.RollingMax(vals, spec.Window)
		case KindMin:
			set[spec.Name] = indicator.RollingMin(vals, spec.Window)
		default:
			set[spec.Name] = indicator.RollingMean(vals, spec.Window)
		}
	}
	return set
}

// Evaluate runs the three-stage evaluation at index i and returns the
// outcome. Insufficient history, a failed gate, or a failed condition all
// yield a no-hit outcome; they are never errors.
func (r *Rule) Evaluate(bars []domain.Bar, ind indicator.Set, i int) domain.Outcome {
	out := domain.Outcome{Components: make(map[string]bool)}
	if i < 0 || i >= len(bars) || i+1 < r.MinHistory {
		return out
	}
	ctx := Context{Bars: bars, Ind: ind, Index: i}

	for _, g := range r.Gates {
		if !g.Check(ctx) {
			out.Components[g.Name] = false
			return out
		}
	}
	for _, c := range r.Conditions {
		ok := c.Check(ctx)
		out.Components[c.Name] = ok
		if !ok {
			return out
		}
	}
	for _, t := range r.Terms {
		ok := t.Check(ctx)
		out.Components[t.Name] = ok
		if ok {
			out.Score += t.Points
		}
	}
	if r.MinQualifyScore > 0 && out.Score < r.MinQualifyScore {
		return out
	}
	out.Hit = true
	return out
}

// MapTier returns the advisory label for score, or fallback when no tier
// matches.
func (r *Rule) MapTier(score float64, fallback string) string {
	for _, t := range r.Tiers {
		if score >= t.MinScore {
			return t.Label
		}
	}
	return fallback
}
