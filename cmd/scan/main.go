// Command scan runs one or more screening rules over the local bar store,
// writes the ranked results to CSV and the run database, and optionally keeps
// running on a cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dragonback/internal/backtest"
	"dragonback/internal/config"
	"dragonback/internal/domain"
	"dragonback/internal/pattern"
	"dragonback/internal/pattern/rules"
	"dragonback/internal/scanner"
	"dragonback/internal/sched"
	"dragonback/internal/store"
	"dragonback/internal/universe"
	"dragonback/internal/util"
)

func main() {
	cfgPath := flag.String("config", "config/dragonback.yaml", "path to configuration file")
	ruleArg := flag.String("rule", "", "comma-separated rule names (default: all registered rules)")
	cronMode := flag.Bool("cron", false, "keep running and scan on the configured schedule")
	flag.Parse()

	if p := os.Getenv("DRAGONBACK_CONFIG"); p != "" && *cfgPath == "config/dragonback.yaml" {
		*cfgPath = p
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	reg := rules.Builtin()
	selected, err := selectRules(reg, *ruleArg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	names, err := store.LoadNames(cfg.Storage.NamesFile)
	if err != nil {
		log.Fatalf("loading stock names: %v", err)
	}
	bars := store.NewParquetStore(cfg.Storage.DataDir)
	runs, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening run database: %v", err)
	}
	defer runs.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runAll := func() {
		for _, rule := range selected {
			if err := runScan(ctx, cfg, rule, bars, runs, names, logger); err != nil {
				logger.Error("scan failed", "rule", rule.Name, "error", err)
			}
		}
	}

	if !*cronMode {
		runAll()
		return
	}

	s := sched.New(logger)
	if err := s.Add(cfg.Schedule.Cron, runAll); err != nil {
		log.Fatalf("scheduling scan: %v", err)
	}
	s.Start()
	logger.Info("scan scheduled", "cron", cfg.Schedule.Cron, "rules", len(selected))

	<-ctx.Done()
	s.Stop()
}

// selectRules resolves the -rule flag against the registry. Empty means every
// registered rule, in name order.
func selectRules(reg *rules.Registry, arg string) ([]*pattern.Rule, error) {
	if strings.TrimSpace(arg) == "" {
		var all []*pattern.Rule
		for _, name := range reg.List() {
			r, _ := reg.Get(name)
			all = append(all, r)
		}
		return all, nil
	}

	var selected []*pattern.Rule
	for _, name := range strings.Split(arg, ",") {
		name = strings.TrimSpace(name)
		r, ok := reg.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown rule %q (known: %s)", name, strings.Join(reg.List(), ", "))
		}
		selected = append(selected, r)
	}
	return selected, nil
}

// runScan screens the whole universe with one rule and persists the outcome.
// An empty result set is a normal completion, not an error.
func runScan(ctx context.Context, cfg *config.Config, rule *pattern.Rule,
	bars store.BarStore, runs store.RunStore, names store.Names, logger *slog.Logger) error {

	start := time.Now()

	symbols, err := bars.ListSymbols(ctx)
	if err != nil {
		return fmt.Errorf("listing symbols: %w", err)
	}

	sc := scanner.New(rule, scanner.Config{
		PriceMin:           cfg.Screen.PriceMin,
		PriceMax:           cfg.Screen.PriceMax,
		ExcludePrefixes:    cfg.Screen.ExcludePrefixes,
		ExcludeNameMarkers: cfg.Screen.ExcludeNameMarkers,
		MinHistory:         cfg.Screen.MinHistory,
		WeightByWinRate:    cfg.Screen.WeightByWinRate,
		Backtest: backtest.Config{
			Window:           cfg.Backtest.Window,
			ExcludeRecent:    cfg.Backtest.ExcludeRecent,
			Horizon:          cfg.Backtest.Horizon,
			SuccessThreshold: cfg.Backtest.SuccessThreshold,
		},
	}, names)

	sources := make([]universe.Source, len(symbols))
	for i, sym := range symbols {
		sources[i] = universe.Source{
			Symbol: sym,
			Load: func(ctx context.Context) ([]domain.Bar, error) {
				return bars.ReadBars(ctx, sym)
			},
		}
	}

	hits := universe.Scan(ctx, sources, sc, cfg.Screen.Workers, logger)
	ranked := universe.Rank(hits, cfg.Screen.TopN, cfg.Screen.ExcludeNameMarkers)

	runAt := time.Now()
	path, err := store.WriteResultsCSV(cfg.Storage.ResultsDir, rule.Name, runAt, ranked)
	if err != nil {
		return fmt.Errorf("writing results CSV: %w", err)
	}
	runID, err := runs.SaveRun(ctx, rule.Name, runAt, ranked)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	logger.Info("scan complete",
		"rule", rule.Name,
		"universe", len(symbols),
		"hits", len(hits),
		"selected", len(ranked),
		"run_id", runID,
		"csv", path,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
