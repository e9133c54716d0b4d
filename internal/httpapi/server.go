// Package httpapi serves the recorded scan history over a read-only HTTP
// API, plus health and Prometheus metrics endpoints.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dragonback/internal/store"
)

// Server serves the scan-history HTTP API.
type Server struct {
	runs  store.RunStore
	rules []string
	log   *slog.Logger
}

// New creates a Server reading runs from the given store. rules is the list
// of registered rule names exposed on /api/rules.
func New(runs store.RunStore, rules []string, log *slog.Logger) *Server {
	return &Server{runs: runs, rules: rules, log: log}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/rules", s.handleRules)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /api/runs/{id}/results", s.handleRunResults)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{"rules": s.rules})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, map[string]any{"runs": runs})
}

func (s *Server) handleRunResults(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	results, err := s.runs.RunResults(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]resultJSON, len(results))
	for i, res := range results {
		out[i] = resultJSON{
			Rank:       i + 1,
			Symbol:     res.Symbol,
			Name:       res.Name,
			Date:       res.Date.Format("2006-01-02"),
			Price:      res.Price,
			ChangePct:  res.ChangePct,
			Rule:       res.Rule,
			Score:      res.Outcome.Score,
			Composite:  res.Composite,
			Tier:       res.Tier,
			Samples:    res.Backtest.Samples,
			WinRate:    res.Backtest.WinRate,
			MeanReturn: res.Backtest.MeanReturn,
			NoHistory:  res.Backtest.Empty(),
		}
	}
	s.writeJSON(w, map[string]any{"run_id": id, "results": out})
}

// resultJSON is the wire shape of one ranked result. NoHistory distinguishes
// "no backtest samples" from a genuine 0% win rate.
type resultJSON struct {
	Rank       int     `json:"rank"`
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	Price      float64 `json:"price"`
	ChangePct  float64 `json:"change_pct"`
	Rule       string  `json:"rule"`
	Score      float64 `json:"score"`
	Composite  float64 `json:"composite"`
	Tier       string  `json:"tier"`
	Samples    int     `json:"samples"`
	WinRate    float64 `json:"win_rate"`
	MeanReturn float64 `json:"mean_return"`
	NoHistory  bool    `json:"no_history"`
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encoding response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
