// internal/analysis/funding/analyzer.go
package funding

import (
	"fmt"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/models"
)

const (
	// FactorRate ключ фактора текущей ставки финансирования
	FactorRate = "funding"
	// FactorTrend ключ фактора тренда ставок
	FactorTrend = "funding_trend"
)

// Analyzer реализует анализатор ставок финансирования
type Analyzer struct {
	config config.FundingConfig
}

// NewAnalyzer создает новый анализатор ставок финансирования
func NewAnalyzer(cfg config.FundingConfig) *Analyzer {
	return &Analyzer{
		config: cfg,
	}
}

// rateBand полоса оценки: первое совпадение сверху вниз выигрывает
type rateBand struct {
	match func(rate float64) bool
	score float64
	note  string
}

// Пороговые полосы для текущей ставки. Отрицательная ставка - шорты платят
// лонгам, толпа в шортах: контртрендовый сигнал на покупку.
var rateBands = []rateBand{
	{func(r float64) bool { return r < -0.001 }, 30, "экстремально отрицательная ставка: шорты переполнены"},
	{func(r float64) bool { return r < -0.0003 }, 15, "отрицательная ставка: перевес шортов"},
	{func(r float64) bool { return r < 0.0005 }, 0, "ставка в нейтральной зоне"},
	{func(r float64) bool { return r < 0.001 }, -15, "повышенная ставка: перевес лонгов"},
	{func(r float64) bool { return true }, -30, "экстремально высокая ставка: лонги переполнены"},
}

// Evaluate оценивает факторы финансирования по срезу рыночных метрик.
// Отсутствующие данные исключают соответствующий фактор без ошибки.
func (a *Analyzer) Evaluate(snapshot *models.MarketSnapshot) []models.FactorScore {
	var factors []models.FactorScore

	if snapshot.FundingRate != nil {
		rate := *snapshot.FundingRate
		for _, band := range rateBands {
			if band.match(rate) {
				factors = append(factors, models.FactorScore{
					Key:       FactorRate,
					Value:     band.score,
					Weight:    a.config.RateWeight,
					Rationale: fmt.Sprintf("%s (%.5f)", band.note, rate),
				})
				break
			}
		}
	}

	if trend, ok := a.evaluateTrend(snapshot.FundingHistory); ok {
		factors = append(factors, trend)
	}

	return factors
}

// evaluateTrend сравнивает среднее трёх последних ставок со средним более
// старых: падающая и уже отрицательная ставка - сильный сигнал на покупку,
// растущая выше 0.0008 - сильный сигнал на продажу.
func (a *Analyzer) evaluateTrend(history []float64) (models.FactorScore, bool) {
	// Нужно минимум 3 свежих значения и хотя бы одно старое для сравнения
	if len(history) < 4 {
		return models.FactorScore{}, false
	}

	recent := mean(history[len(history)-3:])
	older := mean(history[:len(history)-3])

	var score float64
	var note string
	switch {
	case recent < older && recent < 0:
		score, note = 20, "ставка падает и уже отрицательна"
	case recent < older:
		score, note = 10, "ставка снижается"
	case recent > older && recent > 0.0008:
		score, note = -20, "ставка растет и уже высока"
	case recent > older:
		score, note = -10, "ставка растет"
	default:
		score, note = 0, "ставка без выраженного тренда"
	}

	return models.FactorScore{
		Key:       FactorTrend,
		Value:     score,
		Weight:    a.config.TrendWeight,
		Rationale: fmt.Sprintf("%s (свежие %.5f, старые %.5f)", note, recent, older),
	}, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
