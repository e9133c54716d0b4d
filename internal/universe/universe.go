// Package universe fans the instrument scanner out across every bar source
// in the market, collects the surviving results, and ranks them. Instruments
// share no mutable state, so each unit of work runs independently; a fault in
// one instrument never aborts the run.
package universe

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"dragonback/internal/domain"
	"dragonback/internal/scanner"
)

// Source is one addressable bar series. Load reads the ordered bars for the
// instrument; how they are stored is the caller's concern.
type Source struct {
	Symbol string
	Load   func(ctx context.Context) ([]domain.Bar, error)
}

// Scan dispatches one scanner invocation per source across a worker pool and
// collects the non-excluded results in arbitrary order. workers <= 0 selects
// the available CPU parallelism. Load errors and per-instrument panics are
// counted and dropped; they never propagate.
func Scan(ctx context.Context, sources []Source, sc *scanner.Scanner, workers int, log *slog.Logger) []domain.Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	rule := sc.Rule().Name
	started := time.Now()

	jobs := make(chan Source)
	resultCh := make(chan domain.Result, len(sources))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				if res, ok := scanOne(ctx, src, sc, log); ok {
					resultCh <- res
				}
			}
		}()
	}

	for _, src := range sources {
		jobs <- src
	}
	close(jobs)
	wg.Wait()
	close(resultCh)

	results := make([]domain.Result, 0, len(resultCh))
	for res := range resultCh {
		results = append(results, res)
	}

	scanDuration.WithLabelValues(rule).Observe(time.Since(started).Seconds())
	log.Info("universe scan complete",
		"rule", rule,
		"instruments", len(sources),
		"hits", len(results),
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)
	return results
}

// scanOne isolates a single unit of work: a panic while loading or evaluating
// one instrument is contained here.
func scanOne(ctx context.Context, src Source, sc *scanner.Scanner, log *slog.Logger) (res domain.Result, ok bool) {
	rule := sc.Rule().Name
	defer func() {
		if r := recover(); r != nil {
			faultsTotal.WithLabelValues(rule).Inc()
			log.Warn("instrument scan fault", "rule", rule, "symbol", src.Symbol, "panic", r)
			ok = false
		}
	}()

	instrumentsScanned.WithLabelValues(rule).Inc()

	bars, err := src.Load(ctx)
	if err != nil {
		faultsTotal.WithLabelValues(rule).Inc()
		log.Debug("bar load failed", "rule", rule, "symbol", src.Symbol, "err", err)
		return domain.Result{}, false
	}

	res, ok = sc.Scan(src.Symbol, bars)
	if ok {
		hitsTotal.WithLabelValues(rule).Inc()
	}
	return res, ok
}
