// Command import loads daily bar CSV exports into the parquet bar store.
// It accepts individual files or directories, which are walked recursively
// for .csv files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"dragonback/internal/config"
	"dragonback/internal/store"
	"dragonback/internal/util"
)

func main() {
	cfgPath := flag.String("config", "config/dragonback.yaml", "path to configuration file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: import [-config path] <csv-file-or-dir> ...")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	bars := store.NewParquetStore(cfg.Storage.DataDir)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var files []string
	for _, arg := range flag.Args() {
		found, err := collectCSVs(arg)
		if err != nil {
			log.Fatalf("collecting input files: %v", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		log.Fatalf("no .csv files found under %s", strings.Join(flag.Args(), ", "))
	}

	imported, failed := 0, 0
	for _, path := range files {
		if ctx.Err() != nil {
			logger.Warn("import interrupted", "imported", imported, "remaining", len(files)-imported-failed)
			break
		}
		series, err := store.ReadBarCSV(path)
		if err != nil {
			logger.Error("reading bar CSV", "path", path, "error", err)
			failed++
			continue
		}
		if len(series) == 0 {
			logger.Warn("no usable rows", "path", path)
			failed++
			continue
		}
		if err := bars.WriteBars(ctx, series); err != nil {
			logger.Error("writing bars", "path", path, "symbol", series[0].Symbol, "error", err)
			failed++
			continue
		}
		logger.Info("imported", "path", path, "symbol", series[0].Symbol, "bars", len(series))
		imported++
	}

	logger.Info("import finished", "files", len(files), "imported", imported, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func collectCSVs(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
