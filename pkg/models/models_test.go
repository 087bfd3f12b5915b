package models

import (
	"math"
	"testing"
	"time"
)

func mkCandle(at time.Time, close float64) *Candle {
	return &Candle{
		Symbol:   "BTCUSDT",
		OpenTime: at,
		Open:     close,
		High:     close,
		Low:      close,
		Close:    close,
		Volume:   1,
	}
}

func TestValidateCandlesOrdered(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []*Candle{
		mkCandle(start, 100),
		mkCandle(start.Add(time.Hour), 101),
		mkCandle(start.Add(2*time.Hour), 102),
	}
	if err := ValidateCandles(candles); err != nil {
		t.Fatalf("корректная последовательность отклонена: %v", err)
	}
}

func TestValidateCandlesEmpty(t *testing.T) {
	if err := ValidateCandles(nil); err != nil {
		t.Fatalf("пустая последовательность допустима: %v", err)
	}
}

func TestValidateCandlesOutOfOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []*Candle{
		mkCandle(start.Add(time.Hour), 100),
		mkCandle(start, 101),
	}
	if err := ValidateCandles(candles); err == nil {
		t.Fatal("нарушение порядка должно быть ошибкой")
	}
}

func TestValidateCandlesDuplicateTime(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []*Candle{
		mkCandle(start, 100),
		mkCandle(start, 101),
	}
	if err := ValidateCandles(candles); err == nil {
		t.Fatal("дублированное время должно быть ошибкой")
	}
}

func TestValidateCandlesNonFinite(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		c := mkCandle(start, 100)
		c.Close = bad
		if err := ValidateCandles([]*Candle{c}); err == nil {
			t.Fatalf("неконечное значение %v должно быть ошибкой", bad)
		}
	}
}

func TestValidateCandlesNil(t *testing.T) {
	if err := ValidateCandles([]*Candle{nil}); err == nil {
		t.Fatal("nil-свеча должна быть ошибкой")
	}
}

func TestCloses(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []*Candle{
		mkCandle(start, 100),
		mkCandle(start.Add(time.Hour), 101.5),
	}
	closes := Closes(candles)
	if len(closes) != 2 || closes[0] != 100 || closes[1] != 101.5 {
		t.Fatalf("неверные цены закрытия: %v", closes)
	}
}
