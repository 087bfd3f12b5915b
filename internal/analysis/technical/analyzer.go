package technical

import (
	"fmt"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/internal/indicators"
	"github.com/mlukyanov/csba/pkg/models"
)

const (
	// FactorRSI ключ фактора RSI
	FactorRSI = "rsi"
	// FactorMACD ключ фактора MACD
	FactorMACD = "macd"
	// FactorBollinger ключ фактора позиции в полосах Боллинджера
	FactorBollinger = "bollinger"
)

// Analyzer реализует анализатор технических индикаторов по свечам
type Analyzer struct {
	config config.TechnicalConfig
}

// NewAnalyzer создает новый анализатор технических индикаторов
func NewAnalyzer(cfg config.TechnicalConfig) *Analyzer {
	return &Analyzer{
		config: cfg,
	}
}

type band struct {
	match func(v float64) bool
	score float64
	note  string
}

var rsiBands = []band{
	{func(r float64) bool { return r < 20 }, 30, "глубокая перепроданность"},
	{func(r float64) bool { return r < 30 }, 15, "перепроданность"},
	{func(r float64) bool { return r < 45 }, 5, "слабость ниже нейтрали"},
	{func(r float64) bool { return r > 80 }, -30, "глубокая перекупленность"},
	{func(r float64) bool { return r > 70 }, -15, "перекупленность"},
	{func(r float64) bool { return r > 55 }, -5, "сила выше нейтрали"},
	{func(r float64) bool { return true }, 0, "нейтральная зона"},
}

var percentBBands = []band{
	{func(b float64) bool { return b < 0 }, 20, "закрытие ниже нижней полосы"},
	{func(b float64) bool { return b < 0.2 }, 10, "цена у нижней полосы"},
	{func(b float64) bool { return b > 1 }, -20, "закрытие выше верхней полосы"},
	{func(b float64) bool { return b > 0.8 }, -10, "цена у верхней полосы"},
	{func(b float64) bool { return true }, 0, "цена внутри полос"},
}

// Evaluate оценивает технические факторы по ценам закрытия.
// RSI и MACD при недостатке данных дают нейтральные значения (50 и нули),
// полосы Боллинджера без полного окна пропускаются целиком.
func (a *Analyzer) Evaluate(candles []*models.Candle) []models.FactorScore {
	closes := models.Closes(candles)
	var factors []models.FactorScore

	rsi := indicators.RSI(closes, a.config.RSIPeriod)
	for _, b := range rsiBands {
		if b.match(rsi) {
			factors = append(factors, models.FactorScore{
				Key:       FactorRSI,
				Value:     b.score,
				Weight:    a.config.RSIWeight,
				Rationale: fmt.Sprintf("RSI %.1f: %s", rsi, b.note),
			})
			break
		}
	}

	macd, _, hist := indicators.MACD(closes).Last()
	factors = append(factors, a.evaluateMACD(macd, hist))

	if bb, ok := indicators.BollingerBands(closes, a.config.BollingerPeriod); ok {
		for _, b := range percentBBands {
			if b.match(bb.PercentB) {
				factors = append(factors, models.FactorScore{
					Key:       FactorBollinger,
					Value:     b.score,
					Weight:    a.config.BollingerWeight,
					Rationale: fmt.Sprintf("%%B %.2f: %s", bb.PercentB, b.note),
				})
				break
			}
		}
	}

	return factors
}

// evaluateMACD оценивает фактор MACD по знакам гистограммы и линии:
// совпадение знаков усиливает сигнал.
func (a *Analyzer) evaluateMACD(macd, hist float64) models.FactorScore {
	var score float64
	var note string
	switch {
	case hist > 0 && macd > 0:
		score, note = 15, "бычий импульс подтвержден линией MACD"
	case hist > 0:
		score, note = 10, "гистограмма положительная"
	case hist < 0 && macd < 0:
		score, note = -15, "медвежий импульс подтвержден линией MACD"
	case hist < 0:
		score, note = -10, "гистограмма отрицательная"
	default:
		score, note = 0, "импульс не выражен"
	}
	return models.FactorScore{
		Key:       FactorMACD,
		Value:     score,
		Weight:    a.config.MACDWeight,
		Rationale: fmt.Sprintf("%s (MACD %.4f, гистограмма %.4f)", note, macd, hist),
	}
}
