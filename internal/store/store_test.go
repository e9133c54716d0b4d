package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dragonback/internal/domain"
)

func writeFile(path, data string) error {
	return os.WriteFile(path, []byte(data), 0o644)
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}

func TestParquetStorePath(t *testing.T) {
	ps := NewParquetStore("/data")

	bp := ps.barPath("sz.000001", 2025)
	want := filepath.Join("/data", "cn", "daily", "sz.000001", "2025.parquet")
	if bp != want {
		t.Errorf("barPath mismatch:\n  got  %s\n  want %s", bp, want)
	}
}

func TestParquetStoreWriteReadBars(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	bars := []domain.Bar{
		{
			Symbol:       "sz.000001",
			Date:         time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			Open:         10.0,
			High:         10.5,
			Low:          9.8,
			Close:        10.2,
			Volume:       1_200_000,
			Turnover:     12_240_000,
			TurnoverRate: 1.2,
			ChangePct:    2.0,
		},
		{
			Symbol:    "sz.000001",
			Date:      time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
			Open:      10.2,
			High:      10.4,
			Low:       10.0,
			Close:     10.1,
			Volume:    900_000,
			ChangePct: -0.98,
		},
	}
	if err := ps.WriteBars(ctx, bars); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	got, err := ps.ReadBars(ctx, "sz.000001")
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2", len(got))
	}
	if !got[0].Date.Equal(bars[0].Date) || !got[1].Date.Equal(bars[1].Date) {
		t.Errorf("bars out of date order: %v, %v", got[0].Date, got[1].Date)
	}
	if got[0].Close != 10.2 || got[0].TurnoverRate != 1.2 {
		t.Errorf("bar fields lost on roundtrip: %+v", got[0])
	}
}

func TestParquetStoreMergeOverwrites(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	day := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	first := []domain.Bar{{Symbol: "sz.000002", Date: day, Open: 8, High: 8.2, Low: 7.9, Close: 8.0, Volume: 100}}
	second := []domain.Bar{
		{Symbol: "sz.000002", Date: day, Open: 8, High: 8.3, Low: 7.9, Close: 8.1, Volume: 120},
		{Symbol: "sz.000002", Date: day.AddDate(0, 0, 1), Open: 8.1, High: 8.4, Low: 8.0, Close: 8.2, Volume: 130},
	}

	if err := ps.WriteBars(ctx, first); err != nil {
		t.Fatalf("first WriteBars: %v", err)
	}
	if err := ps.WriteBars(ctx, second); err != nil {
		t.Fatalf("second WriteBars: %v", err)
	}

	got, err := ps.ReadBars(ctx, "sz.000002")
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2 (duplicate date must merge)", len(got))
	}
	if got[0].Close != 8.1 {
		t.Errorf("incoming record must win on duplicate date: got close %v", got[0].Close)
	}
}

func TestParquetStoreMissingSymbol(t *testing.T) {
	ps := NewParquetStore(t.TempDir())

	bars, err := ps.ReadBars(context.Background(), "sz.999999")
	if err != nil {
		t.Fatalf("missing symbol must not error: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("missing symbol must yield no bars, got %d", len(bars))
	}
}

func TestParquetStoreListSymbols(t *testing.T) {
	dir := t.TempDir()
	ps := NewParquetStore(dir)
	ctx := context.Background()

	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for _, sym := range []string{"sz.000002", "sh.600000", "sz.000001"} {
		bars := []domain.Bar{{Symbol: sym, Date: day, Open: 10, High: 10, Low: 10, Close: 10}}
		if err := ps.WriteBars(ctx, bars); err != nil {
			t.Fatalf("WriteBars %s: %v", sym, err)
		}
	}

	symbols, err := ps.ListSymbols(ctx)
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	want := []string{"sh.600000", "sz.000001", "sz.000002"}
	if len(symbols) != len(want) {
		t.Fatalf("got %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("symbol %d: got %s, want %s (sorted)", i, symbols[i], want[i])
		}
	}
}

func TestNamesResolve(t *testing.T) {
	names := Names{"000001": "平安银行", "sh.600000": "浦发银行"}

	if got := names.Resolve("sh.600000"); got != "浦发银行" {
		t.Errorf("exact match: got %q", got)
	}
	if got := names.Resolve("sz.000001"); got != "平安银行" {
		t.Errorf("bare-code fallback: got %q", got)
	}
	if got := names.Resolve("sz.999999"); got != UnknownName {
		t.Errorf("missing entry: got %q, want %q", got, UnknownName)
	}
}

func TestLoadNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.csv")
	data := "code,name\n1,平安银行\n600000,浦发银行\n\nbadline\n"
	if err := writeFile(path, data); err != nil {
		t.Fatal(err)
	}

	names, err := LoadNames(path)
	if err != nil {
		t.Fatalf("LoadNames: %v", err)
	}
	if got := names.Resolve("000001"); got != "平安银行" {
		t.Errorf("short codes must be zero-padded: got %q", got)
	}
	if got := names.Resolve("600000"); got != "浦发银行" {
		t.Errorf("got %q", got)
	}
	if len(names) != 2 {
		t.Errorf("header and malformed lines must be skipped: got %d entries", len(names))
	}
}

func TestLoadNamesMissingFile(t *testing.T) {
	names, err := LoadNames(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("missing name table must not error: %v", err)
	}
	if got := names.Resolve("sz.000001"); got != UnknownName {
		t.Errorf("empty table must resolve to %q, got %q", UnknownName, got)
	}
}

func TestSQLiteStoreRoundtrip(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	runAt := time.Date(2025, 5, 9, 15, 45, 0, 0, time.UTC)
	results := []domain.Result{
		{
			Symbol: "sz.000001", Name: "平安银行",
			Date: time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
			Price: 12.0, ChangePct: 0.5, Rule: "doji",
			Outcome:   domain.Outcome{Hit: true, Score: 100},
			Backtest:  domain.BacktestSummary{Samples: 8, Wins: 5, WinRate: 0.625, MeanReturn: 0.042},
			Composite: 112.5, Tier: "重点关注",
		},
		{
			Symbol: "sz.000002", Name: "万科A",
			Date: time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC),
			Price: 9.8, Rule: "doji",
			Outcome:   domain.Outcome{Hit: true, Score: 80},
			Composite: 80, Tier: "观察",
		},
	}

	runID, err := s.SaveRun(ctx, "doji", runAt, results)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if runID <= 0 {
		t.Fatalf("run ID: got %d", runID)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Rule != "doji" || runs[0].Results != 2 {
		t.Errorf("run header wrong: %+v", runs[0])
	}
	if !runs[0].RunAt.Equal(runAt) {
		t.Errorf("run time: got %v, want %v", runs[0].RunAt, runAt)
	}

	got, err := s.RunResults(ctx, runID)
	if err != nil {
		t.Fatalf("RunResults: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Symbol != "sz.000001" || got[1].Symbol != "sz.000002" {
		t.Errorf("results must come back in rank order: %s, %s", got[0].Symbol, got[1].Symbol)
	}
	if got[0].Backtest.WinRate != 0.625 || got[0].Composite != 112.5 {
		t.Errorf("result fields lost on roundtrip: %+v", got[0])
	}
	if got[0].Rule != "doji" {
		t.Errorf("rule must be joined back onto results: %q", got[0].Rule)
	}
	if !got[1].Backtest.Empty() {
		t.Errorf("zero-sample backtest must roundtrip as empty: %+v", got[1].Backtest)
	}
}

func TestSQLiteStoreListRunsNewestFirst(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2025, 5, 9, 15, 45, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := s.SaveRun(ctx, "doji", base.AddDate(0, 0, i), nil); err != nil {
			t.Fatalf("SaveRun %d: %v", i, err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("limit not applied: got %d runs", len(runs))
	}
	if !runs[0].RunAt.After(runs[1].RunAt) {
		t.Errorf("runs must list newest first: %v, %v", runs[0].RunAt, runs[1].RunAt)
	}
}

func TestWriteResultsCSV(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 5, 9, 15, 45, 12, 0, time.UTC)
	results := []domain.Result{
		{
			Symbol: "sz.000001", Name: "平安银行", Price: 12.0, ChangePct: 0.5,
			Outcome:   domain.Outcome{Hit: true, Score: 100},
			Backtest:  domain.BacktestSummary{Samples: 10, Wins: 6, WinRate: 0.6, MeanReturn: 0.042},
			Composite: 110, Tier: "重点关注",
		},
		{
			Symbol: "sz.000002", Name: "万科A", Price: 9.8,
			Outcome:   domain.Outcome{Hit: true, Score: 80},
			Composite: 80, Tier: "观察",
		},
	}

	path, err := WriteResultsCSV(dir, "doji", at, results)
	if err != nil {
		t.Fatalf("WriteResultsCSV: %v", err)
	}

	wantPath := filepath.Join(dir, "202505", "doji_20250509_154512.csv")
	if path != wantPath {
		t.Errorf("path:\n  got  %s\n  want %s", path, wantPath)
	}

	data, err := readFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(data, "\xEF\xBB\xBF") {
		t.Error("output must start with a UTF-8 BOM")
	}
	if !strings.Contains(data, "代码,名称") {
		t.Error("missing Chinese header row")
	}
	if !strings.Contains(data, "60%") {
		t.Errorf("win rate missing from output:\n%s", data)
	}
	if !strings.Contains(data, "无数据") {
		t.Error("empty backtest must render as 无数据, not 0%")
	}
}

func TestReadBarCSVChineseHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "000001.csv")
	data := "日期,股票代码,开盘,最高,最低,收盘,成交量,成交额,换手率,涨跌幅\n" +
		"2025-05-08,sz.000001,11.8,12.1,11.7,12.0,1200000,14400000,1.2,1.69\n" +
		"2025-05-09,sz.000001,12.0,12.2,11.9,12.1,900000,10890000,0.9,0.83\n"
	if err := writeFile(path, data); err != nil {
		t.Fatal(err)
	}

	bars, err := ReadBarCSV(path)
	if err != nil {
		t.Fatalf("ReadBarCSV: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[0].Symbol != "sz.000001" || bars[0].Close != 12.0 {
		t.Errorf("first bar wrong: %+v", bars[0])
	}
	if bars[1].ChangePct != 0.83 || bars[1].TurnoverRate != 0.9 {
		t.Errorf("second bar wrong: %+v", bars[1])
	}
}

func TestReadBarCSVEnglishHeadersAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sh.600000.csv")
	data := "date,open,high,low,close,volume\n" +
		"20250508,7.1,7.3,7.0,7.2,500000\n" +
		"bad-date,7.2,7.4,7.1,7.3,400000\n" +
		"20250509,7.2,7.4,7.1,7.3,400000\n"
	if err := writeFile(path, data); err != nil {
		t.Fatal(err)
	}

	bars, err := ReadBarCSV(path)
	if err != nil {
		t.Fatalf("ReadBarCSV: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("unparseable rows must be skipped: got %d bars", len(bars))
	}
	if bars[0].Symbol != "sh.600000" {
		t.Errorf("symbol must default to the file name: got %q", bars[0].Symbol)
	}
}

func TestReadBarCSVNoDateColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := writeFile(path, "open,close\n1,2\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadBarCSV(path); err == nil {
		t.Error("a CSV without a date column must fail")
	}
}
