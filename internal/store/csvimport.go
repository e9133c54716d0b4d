package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dragonback/internal/domain"
)

// Column header aliases accepted by the bar CSV importer. Upstream daily-bar
// exports come with either Chinese or English headers.
var barColumnAliases = map[string]string{
	"日期": "date", "date": "date",
	"股票代码": "symbol", "symbol": "symbol", "code": "symbol",
	"开盘": "open", "open": "open",
	"最高": "high", "high": "high",
	"最低": "low", "low": "low",
	"收盘": "close", "close": "close",
	"成交量": "volume", "volume": "volume",
	"成交额": "turnover", "turnover": "turnover",
	"换手率": "turnover_rate", "turnover_rate": "turnover_rate",
	"涨跌幅": "change_pct", "change_pct": "change_pct",
}

// ReadBarCSV parses one per-symbol daily-bar CSV export. The symbol defaults
// to the file's base name when the export carries no symbol column. Rows
// whose date or close fail to parse are skipped.
func ReadBarCSV(path string) ([]domain.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if canonical, ok := barColumnAliases[h]; ok {
			cols[canonical] = i
		}
	}
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("%s: no date column", path)
	}

	defaultSymbol := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var bars []domain.Bar
	for _, row := range rows[1:] {
		date, err := parseDate(field(row, cols, "date"))
		if err != nil {
			continue
		}
		closePrice := parseFloat(field(row, cols, "close"))
		if closePrice <= 0 {
			continue
		}
		symbol := field(row, cols, "symbol")
		if symbol == "" {
			symbol = defaultSymbol
		}
		bars = append(bars, domain.Bar{
			Symbol:       symbol,
			Date:         date,
			Open:         parseFloat(field(row, cols, "open")),
			High:         parseFloat(field(row, cols, "high")),
			Low:          parseFloat(field(row, cols, "low")),
			Close:        closePrice,
			Volume:       parseFloat(field(row, cols, "volume")),
			Turnover:     parseFloat(field(row, cols, "turnover")),
			TurnoverRate: parseFloat(field(row, cols, "turnover_rate")),
			ChangePct:    parseFloat(field(row, cols, "change_pct")),
		})
	}
	return domain.CleanSeries(bars), nil
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "20060102", "2006/01/02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
