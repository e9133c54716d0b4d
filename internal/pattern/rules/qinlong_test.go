package rules

import (
	"testing"
	"time"

	"dragonback/internal/domain"
)

// qinlongSeries builds a 130-bar series realizing all four steps: a long base
// at 9.00, a pit bottoming at 8.00 (index 114), a +9.9% breakout over the
// 20-day line on tripled volume (index 118), then a gentle climb whose lows
// hold the breakout open. The final bar is left for each test to shape.
func qinlongSeries() []domain.Bar {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, 130)
	bar := func(i int, open, high, low, close, vol float64) domain.Bar {
		return domain.Bar{
			Symbol: "sz.000001",
			Date:   base.AddDate(0, 0, i),
			Open:   open, High: high, Low: low, Close: close,
			Volume: vol,
		}
	}

	for i := 0; i <= 109; i++ {
		bars[i] = bar(i, 9.0, 9.05, 8.95, 9.0, 1000)
	}
	// The pit: five falling closes down to 8.00.
	pitCloses := []float64{8.8, 8.6, 8.4, 8.2, 8.0}
	for k, cl := range pitCloses {
		i := 110 + k
		bars[i] = bar(i, bars[i-1].Close, bars[i-1].Close, cl-0.05, cl, 1000)
	}
	// Three hesitant recovery bars still under the 20-day line.
	for k, cl := range []float64{8.05, 8.10, 8.15} {
		i := 115 + k
		bars[i] = bar(i, bars[i-1].Close, cl, bars[i-1].Close-0.05, cl, 1000)
	}
	// The breakout: limit-up over MA20 on tripled volume.
	bars[118] = bar(118, 8.2, 8.96, 8.15, 8.96, 3000)
	bars[118].ChangePct = 9.9
	// The climb: lows stay far above the breakout open of 8.20.
	for i := 119; i <= 128; i++ {
		cl := 9.0 + 0.05*float64(i-119)
		bars[i] = bar(i, cl-0.02, cl+0.02, cl-0.05, cl, 1200)
	}
	// Placeholder final bar; tests overwrite it.
	bars[129] = bar(129, 9.45, 9.50, 9.40, 9.45, 1100)
	return bars
}

func evalQinLong(t *testing.T, bars []domain.Bar) domain.Outcome {
	t.Helper()
	rule := QinLong()
	ind := rule.Compute(bars)
	return rule.Evaluate(bars, ind, len(bars)-1)
}

func TestQinLongIgnitionHit(t *testing.T) {
	bars := qinlongSeries()
	// Ignition day: +4% on doubled volume and 6% turnover.
	bars[129] = domain.Bar{
		Symbol: "sz.000001", Date: bars[129].Date,
		Open: 9.5, High: 9.85, Low: 9.45, Close: 9.83,
		Volume: 2400, TurnoverRate: 6.0, ChangePct: 4.0,
	}

	out := evalQinLong(t, bars)
	if !out.Hit {
		t.Fatalf("expected an ignition hit, components: %v", out.Components)
	}
	if out.Score != 80 {
		t.Errorf("score: got %v, want 80 (breakout 40 + ignition 40)", out.Score)
	}
	if !out.Components["ignition"] || out.Components["coiling"] {
		t.Errorf("term flags wrong: %v", out.Components)
	}
	if got := QinLong().MapTier(out.Score, "观察"); got != "起爆：三军归位+倍量起爆，龙头确认" {
		t.Errorf("tier: got %q", got)
	}
}

func TestQinLongCoilingHit(t *testing.T) {
	bars := qinlongSeries()
	// Coiling day: red bar on shrinking volume, support still held.
	bars[129] = domain.Bar{
		Symbol: "sz.000001", Date: bars[129].Date,
		Open: 9.46, High: 9.48, Low: 9.35, Close: 9.40,
		Volume: 900, TurnoverRate: 1.5,
	}

	out := evalQinLong(t, bars)
	if !out.Hit {
		t.Fatalf("expected a coiling hit, components: %v", out.Components)
	}
	if out.Score != 60 {
		t.Errorf("score: got %v, want 60 (breakout 40 + coiling 20)", out.Score)
	}
	if got := QinLong().MapTier(out.Score, "观察"); got != "蓄势：极致缩量，洗盘彻底，支撑位上方待变" {
		t.Errorf("tier: got %q", got)
	}
}

func TestQinLongBearMarketGated(t *testing.T) {
	// A dead-flat series: close equals MA120, so the bull-alignment gate must
	// short-circuit before any condition runs.
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, 130)
	for i := range bars {
		bars[i] = domain.Bar{
			Symbol: "sz.000001",
			Date:   base.AddDate(0, 0, i),
			Open:   9.0, High: 9.05, Low: 8.95, Close: 9.0,
			Volume: 1000,
		}
	}

	out := evalQinLong(t, bars)
	if out.Hit {
		t.Fatal("flat market must be gated out")
	}
	if v, ok := out.Components["bull_alignment"]; !ok || v {
		t.Errorf("the gate must be recorded as failed: %v", out.Components)
	}
	if _, ok := out.Components["limit_up_gene"]; ok {
		t.Error("conditions must not be evaluated after a failed gate")
	}
}

func TestQinLongBrokenSupportMisses(t *testing.T) {
	bars := qinlongSeries()
	bars[129] = domain.Bar{
		Symbol: "sz.000001", Date: bars[129].Date,
		Open: 9.5, High: 9.85, Low: 8.10, Close: 9.83, // low undercuts the 8.20 breakout open
		Volume: 2400, TurnoverRate: 6.0, ChangePct: 4.0,
	}

	out := evalQinLong(t, bars)
	if out.Hit {
		t.Fatal("a low under the breakout open must break support")
	}
	if v, ok := out.Components["breakout_support"]; !ok || v {
		t.Errorf("breakout_support must be recorded as failed: %v", out.Components)
	}
}
