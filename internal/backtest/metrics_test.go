package backtest

import (
	"math"
	"testing"

	"github.com/mlukyanov/csba/pkg/models"
)

func mkTrades(pnls ...float64) []models.Trade {
	trades := make([]models.Trade, len(pnls))
	for i, p := range pnls {
		trades[i] = models.Trade{
			Side:       models.SideLong,
			EntryIndex: i * 2,
			ExitIndex:  i*2 + 1,
			PnlPercent: p,
		}
	}
	return trades
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := computeStats(nil)
	if stats.Trades != 0 || stats.WinRate != 0 || stats.ProfitFactor != 0 {
		t.Fatalf("пустой журнал должен давать нулевую статистику, получили %+v", stats)
	}
}

func TestComputeStatsMixed(t *testing.T) {
	stats := computeStats(mkTrades(6, -3, 6))
	if stats.Trades != 3 || stats.Wins != 2 || stats.Losses != 1 {
		t.Fatalf("счетчики: %+v", stats)
	}
	if math.Abs(stats.WinRate-200.0/3.0) > 1e-9 {
		t.Fatalf("доля выигрышей: ожидали 66.67, получили %.4f", stats.WinRate)
	}
	if stats.TotalPnl != 9 || stats.AvgPnl != 3 {
		t.Fatalf("суммарный/средний результат: %+v", stats)
	}
	if stats.AvgWin != 6 || stats.AvgLoss != -3 {
		t.Fatalf("средние выигрыш/проигрыш: %+v", stats)
	}
	if stats.ProfitFactor != 4 {
		t.Fatalf("профит-фактор: ожидали 4, получили %.4f", stats.ProfitFactor)
	}
}

func TestZeroPnlCountsAsLoss(t *testing.T) {
	stats := computeStats(mkTrades(0))
	if stats.Wins != 0 || stats.Losses != 1 {
		t.Fatalf("нулевой результат относится к убыточной стороне, получили %+v", stats)
	}
	if stats.ProfitFactor != 0 {
		t.Fatalf("без прибыли профит-фактор нулевой, получили %.4f", stats.ProfitFactor)
	}
}

func TestProfitFactorNoLosses(t *testing.T) {
	stats := computeStats(mkTrades(2, 5))
	if !math.IsInf(stats.ProfitFactor, 1) {
		t.Fatalf("без убытков профит-фактор +Inf, получили %.4f", stats.ProfitFactor)
	}
}

func TestMaxDrawdown(t *testing.T) {
	// Кривая: -2, -5, 5, 1; пики: 0, 0, 5, 5; наибольшая просадка 5
	stats := computeStats(mkTrades(-2, -3, 10, -4))
	if stats.MaxDrawdown != 5 {
		t.Fatalf("ожидали просадку 5, получили %.4f", stats.MaxDrawdown)
	}
}

func TestMaxDrawdownMonotonicGrowth(t *testing.T) {
	stats := computeStats(mkTrades(1, 2, 3))
	if stats.MaxDrawdown != 0 {
		t.Fatalf("на монотонном росте просадка нулевая, получили %.4f", stats.MaxDrawdown)
	}
}
