package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"dragonback/internal/domain"
	"dragonback/internal/store"
)

func testServer(t *testing.T) (*Server, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(s, []string{"doji", "dragonback20"}, log), s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)
	rec := get(t, srv.Handler(), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q", body["status"])
	}
}

func TestRulesEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	rec := get(t, srv.Handler(), "/api/rules")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var body struct {
		Rules []string `json:"rules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Rules) != 2 || body.Rules[0] != "doji" {
		t.Errorf("rules: got %v", body.Rules)
	}
}

func TestRunsAndResultsEndpoints(t *testing.T) {
	srv, db := testServer(t)
	ctx := context.Background()

	runAt := time.Date(2025, 5, 9, 15, 45, 0, 0, time.UTC)
	results := []domain.Result{
		{
			Symbol: "sz.000001", Name: "平安银行",
			Date: time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
			Price: 12.0, Rule: "doji",
			Outcome:   domain.Outcome{Hit: true, Score: 100},
			Backtest:  domain.BacktestSummary{Samples: 10, Wins: 6, WinRate: 0.6, MeanReturn: 0.04},
			Composite: 110, Tier: "重点关注",
		},
		{
			Symbol: "sz.000002", Name: "万科A",
			Date: time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
			Price: 9.8, Rule: "doji",
			Outcome:   domain.Outcome{Hit: true, Score: 80},
			Composite: 80, Tier: "观察",
		},
	}
	runID, err := db.SaveRun(ctx, "doji", runAt, results)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	rec := get(t, srv.Handler(), "/api/runs")
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/runs status: got %d", rec.Code)
	}
	var runsBody struct {
		Runs []store.Run `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &runsBody); err != nil {
		t.Fatalf("decoding runs: %v", err)
	}
	if len(runsBody.Runs) != 1 || runsBody.Runs[0].Rule != "doji" {
		t.Fatalf("runs: got %+v", runsBody.Runs)
	}

	rec = get(t, srv.Handler(), "/api/runs/"+itoa(runID)+"/results")
	if rec.Code != http.StatusOK {
		t.Fatalf("/api/runs/{id}/results status: got %d", rec.Code)
	}
	var resBody struct {
		RunID   int64        `json:"run_id"`
		Results []resultJSON `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resBody); err != nil {
		t.Fatalf("decoding results: %v", err)
	}
	if len(resBody.Results) != 2 {
		t.Fatalf("results: got %d, want 2", len(resBody.Results))
	}
	first := resBody.Results[0]
	if first.Rank != 1 || first.Symbol != "sz.000001" || first.WinRate != 0.6 {
		t.Errorf("first result wrong: %+v", first)
	}
	if !resBody.Results[1].NoHistory {
		t.Error("zero-sample backtest must surface as no_history")
	}
}

func TestRunResultsBadID(t *testing.T) {
	srv, _ := testServer(t)
	rec := get(t, srv.Handler(), "/api/runs/abc/results")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric run ID: got status %d, want 400", rec.Code)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
