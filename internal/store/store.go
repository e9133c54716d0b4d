// Package store persists and retrieves the screener's data: daily bars in
// Parquet files, the instrument name table, ranked-result CSV exports, and
// the SQLite run history.
package store

import (
	"context"
	"time"

	"dragonback/internal/domain"
)

// BarStore persists and retrieves daily OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars, merged with any already stored.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns every stored bar for the symbol, date ascending.
	ReadBars(ctx context.Context, symbol string) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols with stored bars.
	ListSymbols(ctx context.Context) ([]string, error)
}

// Run is one recorded scan: which rule ran, when, and how many results it
// kept.
type Run struct {
	ID      int64
	Rule    string
	RunAt   time.Time
	Results int
}

// RunStore records completed scans and their ranked results.
type RunStore interface {
	// SaveRun inserts a run and its ranked results, returning the run ID.
	SaveRun(ctx context.Context, rule string, at time.Time, results []domain.Result) (int64, error)

	// ListRuns returns the most recent runs, newest first, up to limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// RunResults returns the ranked results of a run in stored rank order.
	RunResults(ctx context.Context, runID int64) ([]domain.Result, error)
}
