package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dragonback/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// SQLiteStore implements RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies the
// schema, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    rule      TEXT    NOT NULL,
    run_at    TEXT    NOT NULL,
    results   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
    run_id      INTEGER NOT NULL REFERENCES runs(id),
    rank        INTEGER NOT NULL,
    symbol      TEXT    NOT NULL,
    name        TEXT    NOT NULL,
    bar_date    TEXT    NOT NULL,
    price       REAL    NOT NULL,
    change_pct  REAL    NOT NULL,
    score       REAL    NOT NULL,
    composite   REAL    NOT NULL,
    tier        TEXT    NOT NULL,
    samples     INTEGER NOT NULL,
    wins        INTEGER NOT NULL,
    win_rate    REAL    NOT NULL,
    mean_return REAL    NOT NULL,
    PRIMARY KEY (run_id, rank)
);
CREATE INDEX IF NOT EXISTS idx_results_symbol ON results(symbol);
`)
	return err
}

// SaveRun inserts a run and its ranked results in one transaction and
// returns the run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, rule string, at time.Time, results []domain.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (rule, run_at, results) VALUES (?, ?, ?)`,
		rule, at.UTC().Format(time.RFC3339), len(results),
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO results
    (run_id, rank, symbol, name, bar_date, price, change_pct,
     score, composite, tier, samples, wins, win_rate, mean_return)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, r := range results {
		if _, err := stmt.ExecContext(ctx,
			runID, i+1, r.Symbol, r.Name, r.Date.UTC().Format("2006-01-02"),
			r.Price, r.ChangePct, r.Outcome.Score, r.Composite, r.Tier,
			r.Backtest.Samples, r.Backtest.Wins, r.Backtest.WinRate, r.Backtest.MeanReturn,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rule, run_at, results FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var runAt string
		if err := rows.Scan(&r.ID, &r.Rule, &runAt, &r.Results); err != nil {
			return nil, err
		}
		r.RunAt, _ = time.Parse(time.RFC3339, runAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults returns the ranked results of a run in stored rank order.
func (s *SQLiteStore) RunResults(ctx context.Context, runID int64) ([]domain.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT r.symbol, r.name, r.bar_date, r.price, r.change_pct,
       r.score, r.composite, r.tier, r.samples, r.wins, r.win_rate, r.mean_return,
       runs.rule
FROM results r
JOIN runs ON runs.id = r.run_id
WHERE r.run_id = ?
ORDER BY r.rank`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		var r domain.Result
		var barDate string
		if err := rows.Scan(&r.Symbol, &r.Name, &barDate, &r.Price, &r.ChangePct,
			&r.Outcome.Score, &r.Composite, &r.Tier,
			&r.Backtest.Samples, &r.Backtest.Wins, &r.Backtest.WinRate, &r.Backtest.MeanReturn,
			&r.Rule,
		); err != nil {
			return nil, err
		}
		r.Date, _ = time.Parse("2006-01-02", barDate)
		r.Outcome.Hit = true
		results = append(results, r)
	}
	return results, rows.Err()
}
