package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"dragonback/internal/domain"
)

// WriteResultsCSV writes ranked results to
// <dir>/<YYYYMM>/<rule>_<YYYYMMDD_HHMMSS>.csv and returns the written path.
// The file starts with a UTF-8 BOM so spreadsheet tools render the Chinese
// columns correctly.
func WriteResultsCSV(dir, rule string, at time.Time, results []domain.Result) (string, error) {
	monthDir := filepath.Join(dir, at.Format("200601"))
	if err := os.MkdirAll(monthDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(monthDir, fmt.Sprintf("%s_%s.csv", rule, at.Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
		return "", err
	}

	w := csv.NewWriter(f)
	header := []string{"代码", "名称", "当前价", "涨跌幅", "评分", "综合分", "历史胜率", "平均收益", "样本数", "操作建议"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, r := range results {
		winRate, meanReturn := "无数据", "无数据"
		if !r.Backtest.Empty() {
			winRate = fmt.Sprintf("%.0f%%", r.Backtest.WinRate*100)
			meanReturn = fmt.Sprintf("%.2f%%", r.Backtest.MeanReturn*100)
		}
		row := []string{
			r.Symbol,
			r.Name,
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			fmt.Sprintf("%.2f%%", r.ChangePct),
			strconv.FormatFloat(r.Outcome.Score, 'f', 0, 64),
			strconv.FormatFloat(r.Composite, 'f', 1, 64),
			winRate,
			meanReturn,
			strconv.Itoa(r.Backtest.Samples),
			r.Tier,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
