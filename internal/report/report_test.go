package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mlukyanov/csba/pkg/models"
)

func TestRenderSignal(t *testing.T) {
	signal := &models.SignalResult{
		ID:             "test",
		Symbol:         "BTCUSDT",
		Score:          25.5,
		Recommendation: "ПОКУПКА",
		CurrentPrice:   64250.12,
		Factors: []models.FactorScore{
			{Key: "funding", Value: 30, Weight: 15, Rationale: "отрицательная ставка"},
			{Key: "rsi", Value: 15, Weight: 15, Rationale: "перепроданность"},
		},
	}
	out := RenderSignal(signal)
	for _, want := range []string{"BTCUSDT", "+25.50", "ПОКУПКА", "funding", "rsi", "64250.12"} {
		if !strings.Contains(out, want) {
			t.Fatalf("в отчете нет %q:\n%s", want, out)
		}
	}
}

func TestRenderSignalNoData(t *testing.T) {
	out := RenderSignal(&models.SignalResult{Symbol: "BTCUSDT", NoData: true, Recommendation: "НЕТ ДАННЫХ"})
	if !strings.Contains(out, "Нет доступных факторов") {
		t.Fatalf("отчет без данных должен явно это говорить:\n%s", out)
	}
}

func TestRenderBacktest(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result := &models.BacktestResult{
		Symbol:   "BTCUSDT",
		Interval: "1h",
		Start:    start,
		End:      start.Add(59 * time.Hour),
		Candles:  60,
		Trades: []models.Trade{
			{Side: models.SideLong, EntryPrice: 100, ExitPrice: 106, EntryIndex: 1, ExitIndex: 5,
				Reason: models.CloseTakeProfit, PnlPercent: 6},
		},
		Stats: models.BacktestStats{
			Trades: 1, Wins: 1, WinRate: 100, TotalPnl: 6, AvgPnl: 6, AvgWin: 6,
			ProfitFactor: math.Inf(1),
		},
	}
	out := RenderBacktest(result)
	for _, want := range []string{"BTCUSDT", "Сделок: 1", "take_profit", "∞"} {
		if !strings.Contains(out, want) {
			t.Fatalf("в отчете нет %q:\n%s", want, out)
		}
	}
}

func TestFormatProfitFactor(t *testing.T) {
	if got := formatProfitFactor(2.5); got != "2.50" {
		t.Fatalf("ожидали 2.50, получили %q", got)
	}
	if got := formatProfitFactor(math.Inf(1)); !strings.Contains(got, "∞") {
		t.Fatalf("ожидали знак бесконечности, получили %q", got)
	}
}
