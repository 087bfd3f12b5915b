// internal/analysis/series/generator.go
package series

import (
	"fmt"
	"math"

	"github.com/mlukyanov/csba/internal/indicators"
	"github.com/mlukyanov/csba/pkg/models"
)

// WarmUp число свечей прогрева перед первой точкой ряда:
// к этому моменту валидны RSI(14) и MACD(12,26,9).
const WarmUp = 30

// Веса сокращенного набора факторов. Рыночные метрики (финансирование,
// позиционирование, настроения) недоступны поисторично на каждом баре,
// поэтому ряд строится только по факторам, выводимым из свечей.
const (
	weightRSI       = 15.0
	weightMACD      = 10.0
	weightBollinger = 10.0
	weightTrend     = 10.0
)

// Generate строит сигнальный временной ряд: оценку сокращенного набора
// факторов на каждом индексе >= WarmUp. Сырая оценка удваивается и
// ограничивается [-100, 100], чтобы быть сопоставимой по масштабу с живым
// сигналом. Удвоение - унаследованная эвристика подгонки масштаба, а не
// откалиброванная статистическая величина.
func Generate(candles []*models.Candle) ([]models.SignalPoint, error) {
	if err := models.ValidateCandles(candles); err != nil {
		return nil, fmt.Errorf("некорректная свечная последовательность: %w", err)
	}

	closes := models.Closes(candles)

	// Полные массивы считаются один раз: значения на префиксе ряда
	// совпадают с пересчетом с нуля на каждом шаге
	rsiSeries := indicators.RSISeries(closes, 14)
	macd := indicators.MACD(closes)

	points := make([]models.SignalPoint, 0, max(0, len(candles)-WarmUp))
	for i := WarmUp; i < len(candles); i++ {
		raw := scoreAt(closes[:i+1], rsiSeries[i], macd, i)
		score := clamp(raw*2, -100, 100)
		points = append(points, models.SignalPoint{
			Index:     i,
			Timestamp: candles[i].OpenTime,
			Price:     candles[i].Close,
			Score:     score,
		})
	}
	return points, nil
}

// scoreAt рассчитывает сырую оценку на одном баре: взвешенное среднее
// присутствующих факторов плюс бонус за пересечение MACD.
func scoreAt(closes []float64, rsi float64, macd indicators.MACDResult, i int) float64 {
	var weightedSum, totalWeight float64
	add := func(score, weight float64) {
		weightedSum += score * weight
		totalWeight += weight
	}

	add(scoreRSI(rsi), weightRSI)
	add(scoreMACD(macd.MACD[i], macd.Histogram[i]), weightMACD)

	if bb, ok := indicators.BollingerBands(closes, 20); ok {
		add(scorePercentB(bb.PercentB), weightBollinger)
	}
	if trend, ok := scoreTrend(closes); ok {
		add(trend, weightTrend)
	}

	raw := weightedSum / totalWeight
	return raw + crossoverBonus(macd.Histogram, i)
}

// crossoverBonus дает +/-10 при смене знака гистограммы MACD между
// соседними барами (золотой/мертвый крест)
func crossoverBonus(hist []float64, i int) float64 {
	if i == 0 {
		return 0
	}
	switch {
	case hist[i-1] < 0 && hist[i] > 0:
		return 10
	case hist[i-1] > 0 && hist[i] < 0:
		return -10
	default:
		return 0
	}
}

func scoreRSI(rsi float64) float64 {
	switch {
	case rsi < 20:
		return 30
	case rsi < 30:
		return 15
	case rsi < 45:
		return 5
	case rsi > 80:
		return -30
	case rsi > 70:
		return -15
	case rsi > 55:
		return -5
	default:
		return 0
	}
}

func scoreMACD(macd, hist float64) float64 {
	switch {
	case hist > 0 && macd > 0:
		return 15
	case hist > 0:
		return 10
	case hist < 0 && macd < 0:
		return -15
	case hist < 0:
		return -10
	default:
		return 0
	}
}

func scorePercentB(b float64) float64 {
	switch {
	case b < 0:
		return 20
	case b < 0.2:
		return 10
	case b > 1:
		return -20
	case b > 0.8:
		return -10
	default:
		return 0
	}
}

// scoreTrend оценивает трендовый фильтр по скользящим средним 20/50.
// До накопления 50 закрытий фактор пропускается.
func scoreTrend(closes []float64) (float64, bool) {
	sma20, ok20 := indicators.SMA(closes, 20)
	sma50, ok50 := indicators.SMA(closes, 50)
	if !ok20 || !ok50 {
		return 0, false
	}
	last := closes[len(closes)-1]
	switch {
	case sma20 > sma50 && last > sma20:
		return 15, true
	case sma20 > sma50:
		return 10, true
	case sma20 < sma50 && last < sma20:
		return -15, true
	case sma20 < sma50:
		return -10, true
	default:
		return 0, true
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
