package rules

import (
	"dragonback/internal/domain"
	"dragonback/internal/pattern"
)

// Shouban is the first-board MA20 pullback rule: a first limit-up within the
// last ten sessions, followed by at least one day of pullback that leaves the
// close hugging the 20-day line on volume well below the board day's.
func Shouban() *pattern.Rule {
	return &pattern.Rule{
		Name:       "shouban",
		MinHistory: 30,
		Indicators: []pattern.IndicatorSpec{
			{Name: "MA20", Source: pattern.SourceClose, Kind: pattern.KindMean, Window: 20},
			{Name: "VolMA5", Source: pattern.SourceVolume, Kind: pattern.KindMean, Window: 5},
		},
		Conditions: []pattern.Condition{
			{Name: "limit_up_gene", Check: pattern.LimitUpBetween(9, 1, 9.8)},
			{Name: "ma20_band", Check: pattern.CloseToIndicatorRatio("MA20", 0.98, 1.03)},
			{Name: "below_board_volume", Check: volumeBelowLastBoard(9, 9.8, 0.6)},
		},
		Terms: []pattern.Term{
			{Name: "above_ma20", Points: 40, Check: pattern.AboveIndicator("MA20")},
			{Name: "volume_contraction", Points: 30, Check: pattern.VolumeBelowIndicator("VolMA5", 1.0)},
			{Name: "holding_up", Points: 30, Check: pattern.ChangeAbove(-1)},
		},
		Tiers: []pattern.Tier{
			{MinScore: 90, Label: "优选/重仓博弈回升"},
			{MinScore: 80, Label: "重点关注/轻仓介入"},
		},
	}
}

// volumeBelowLastBoard checks today's volume against the most recent limit-up
// day's volume inside the lookback window.
func volumeBelowLastBoard(lookback int, threshold, factor float64) pattern.Check {
	return func(c pattern.Context) bool {
		lo := c.Index - lookback
		if lo < 0 {
			lo = 0
		}
		for j := c.Index - 1; j >= lo; j-- {
			if domain.ChangePct(c.Bars, j) >= threshold {
				boardVol := c.Bars[j].Volume
				return boardVol > 0 && c.Bar().Volume < boardVol*factor
			}
		}
		return false
	}
}
