package backtest

import (
	"math"

	"github.com/mlukyanov/csba/pkg/models"
)

// computeStats сводит журнал сделок в итоговую статистику.
// Выигрышная сделка - строго положительный результат; нулевой результат
// считается убыточной стороной.
func computeStats(trades []models.Trade) models.BacktestStats {
	stats := models.BacktestStats{Trades: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	var grossWin, grossLoss float64
	for _, t := range trades {
		stats.TotalPnl += t.PnlPercent
		if t.PnlPercent > 0 {
			stats.Wins++
			grossWin += t.PnlPercent
		} else {
			stats.Losses++
			grossLoss += t.PnlPercent
		}
	}

	stats.WinRate = float64(stats.Wins) / float64(stats.Trades) * 100
	stats.AvgPnl = stats.TotalPnl / float64(stats.Trades)
	if stats.Wins > 0 {
		stats.AvgWin = grossWin / float64(stats.Wins)
	}
	if stats.Losses > 0 {
		stats.AvgLoss = grossLoss / float64(stats.Losses)
	}

	// Профит-фактор не определен без убыточных сделок: +Inf при наличии
	// прибыли, ноль для пустой статистики
	if grossLoss < 0 {
		stats.ProfitFactor = math.Abs(grossWin / grossLoss)
	} else if grossWin > 0 {
		stats.ProfitFactor = math.Inf(1)
	}

	stats.MaxDrawdown = maxDrawdown(trades)
	return stats
}

// maxDrawdown находит наибольший провал кумулятивной кривой результата
// от пика к текущему значению по последовательности сделок (не внутрибарно)
func maxDrawdown(trades []models.Trade) float64 {
	var equity, peak, dd float64
	for _, t := range trades {
		equity += t.PnlPercent
		if equity > peak {
			peak = equity
		}
		if drop := peak - equity; drop > dd {
			dd = drop
		}
	}
	return dd
}
