package models

import (
	"fmt"
	"math"
	"time"
)

// Candle представляет свечу
type Candle struct {
	Symbol    string
	Interval  string
	OpenTime  time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	CloseTime time.Time
}

// MarketSnapshot представляет срез рыночных метрик на момент запроса.
// Любое поле может отсутствовать - отсутствие исключает фактор из оценки,
// но не прерывает её.
type MarketSnapshot struct {
	Symbol    string
	Timestamp time.Time

	FundingRate        *float64  // текущая ставка финансирования
	FundingHistory     []float64 // история ставок, от старых к новым
	LongShortRatio     *float64  // текущее соотношение лонг/шорт аккаунтов
	LongShortRatioPrev *float64  // соотношение ~8 периодов назад
	FearGreedIndex     *float64  // индекс страха и жадности, 0-100
	LongLiquidations   *float64  // объем ликвидаций лонгов за период
	ShortLiquidations  *float64  // объем ликвидаций шортов за период
}

// FactorScore представляет оценку одного фактора
type FactorScore struct {
	Key       string  // ключ фактора ("funding", "rsi", ...)
	Value     float64 // оценка, обычно в пределах [-30, 30]
	Weight    float64 // вес фактора в агрегате
	Rationale string  // человекочитаемое объяснение
}

// SignalResult представляет агрегированный сигнал.
// NoData=true означает, что не было ни одного фактора: Score=0 в этом
// случае - "нет данных", а не нейтральная оценка.
type SignalResult struct {
	ID             string
	Symbol         string
	Timestamp      time.Time
	Score          float64 // итоговая оценка в [-100, 100]
	Factors        []FactorScore
	NoData         bool
	Recommendation string
	CurrentPrice   float64
}

// SignalPoint представляет точку сигнального временного ряда для бэктеста
type SignalPoint struct {
	Index     int
	Timestamp time.Time
	Price     float64
	Score     float64
}

// PositionSide сторона позиции
type PositionSide string

const (
	SideLong  PositionSide = "long"
	SideShort PositionSide = "short"
)

// CloseReason причина закрытия позиции
type CloseReason string

const (
	CloseStopLoss   CloseReason = "stop_loss"
	CloseTakeProfit CloseReason = "take_profit"
	CloseReversal   CloseReason = "signal_reversal"
	CloseEndOfData  CloseReason = "end_of_data"
)

// Position представляет открытую позицию в симуляции.
// Одновременно может существовать не более одной.
type Position struct {
	Side       PositionSide
	EntryPrice float64
	EntryIndex int
}

// Trade представляет завершенную сделку симуляции
type Trade struct {
	Side       PositionSide
	EntryPrice float64
	ExitPrice  float64
	EntryIndex int
	ExitIndex  int
	Reason     CloseReason
	PnlPercent float64
}

// BacktestStats сводная статистика по журналу сделок
type BacktestStats struct {
	Trades       int
	Wins         int
	Losses       int
	WinRate      float64 // в процентах
	TotalPnl     float64 // сумма PnlPercent по сделкам
	AvgPnl       float64
	AvgWin       float64
	AvgLoss      float64 // отрицательное значение
	ProfitFactor float64 // +Inf, когда убыточных сделок нет
	MaxDrawdown  float64 // наибольшая просадка кумулятивной кривой, в процентах
}

// BacktestResult результат симуляции
type BacktestResult struct {
	ID        string
	Symbol    string
	Interval  string
	Start     time.Time
	End       time.Time
	Candles   int
	Signals   []SignalPoint
	Trades    []Trade
	Stats     BacktestStats
	Timestamp time.Time
}

// ValidateCandles проверяет свечную последовательность на пригодность для
// расчетов: строгая сортировка по времени и конечность всех числовых полей.
// Нарушение - ошибка входных данных, а не повод для повторной попытки.
func ValidateCandles(candles []*Candle) error {
	for i, c := range candles {
		if c == nil {
			return fmt.Errorf("свеча %d отсутствует (nil)", i)
		}
		for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("свеча %d (%s) содержит неконечное значение", i, c.OpenTime.Format(time.RFC3339))
			}
		}
		if i > 0 && !candles[i-1].OpenTime.Before(c.OpenTime) {
			return fmt.Errorf("нарушен порядок свечей: %s на позиции %d не позже %s",
				c.OpenTime.Format(time.RFC3339), i, candles[i-1].OpenTime.Format(time.RFC3339))
		}
	}
	return nil
}

// Closes извлекает цены закрытия из свечной последовательности
func Closes(candles []*Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
