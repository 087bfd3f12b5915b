package aggregator

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mlukyanov/csba/internal/analysis/funding"
	"github.com/mlukyanov/csba/internal/analysis/liquidation"
	"github.com/mlukyanov/csba/internal/analysis/positioning"
	"github.com/mlukyanov/csba/internal/analysis/sentiment"
	"github.com/mlukyanov/csba/internal/analysis/technical"
	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/logger"
	"github.com/mlukyanov/csba/pkg/models"
)

// Analyzer объединяет все факторные анализаторы в итоговый сигнал
type Analyzer struct {
	config          config.AnalysisConfig
	fundingAnal     *funding.Analyzer
	positioningAnal *positioning.Analyzer
	sentimentAnal   *sentiment.Analyzer
	technicalAnal   *technical.Analyzer
	liquidationAnal *liquidation.Analyzer
}

// NewAnalyzer создает новый агрегатор сигналов
func NewAnalyzer(cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{
		config:          cfg,
		fundingAnal:     funding.NewAnalyzer(cfg.Funding),
		positioningAnal: positioning.NewAnalyzer(cfg.Positioning),
		sentimentAnal:   sentiment.NewAnalyzer(cfg.Sentiment),
		technicalAnal:   technical.NewAnalyzer(cfg.Technical),
		liquidationAnal: liquidation.NewAnalyzer(cfg.Liquidation),
	}
}

// Score строит агрегированный сигнал по срезу рыночных метрик и свечам.
// Любой вход может отсутствовать: оценка идет по доступным факторам,
// полное отсутствие факторов помечается флагом NoData. Неупорядоченные
// или неконечные свечи - ошибка входных данных.
func (a *Analyzer) Score(snapshot *models.MarketSnapshot, candles []*models.Candle) (*models.SignalResult, error) {
	if err := models.ValidateCandles(candles); err != nil {
		return nil, fmt.Errorf("некорректная свечная последовательность: %w", err)
	}

	var factors []models.FactorScore
	if len(candles) > 0 {
		factors = append(factors, a.technicalAnal.Evaluate(candles)...)
	}
	if snapshot != nil {
		factors = append(factors, a.fundingAnal.Evaluate(snapshot)...)
		factors = append(factors, a.positioningAnal.Evaluate(snapshot)...)
		factors = append(factors, a.sentimentAnal.Evaluate(snapshot)...)
		factors = append(factors, a.liquidationAnal.Evaluate(snapshot)...)
	}

	score, ok := Combine(factors)

	result := &models.SignalResult{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Score:     score,
		Factors:   factors,
		NoData:    !ok,
	}
	if snapshot != nil {
		result.Symbol = snapshot.Symbol
	}
	if len(candles) > 0 {
		result.CurrentPrice = candles[len(candles)-1].Close
		if result.Symbol == "" {
			result.Symbol = candles[len(candles)-1].Symbol
		}
	}
	result.Recommendation = recommend(score, result.NoData)

	if result.NoData {
		logger.Warn("Нет доступных факторов: сигнал не является нейтральной оценкой",
			zap.String("symbol", result.Symbol))
	} else {
		logger.Debug("Сигнал агрегирован",
			zap.String("symbol", result.Symbol),
			zap.Float64("score", score),
			zap.Int("factors", len(factors)))
	}

	return result, nil
}

// Combine рассчитывает взвешенное среднее по присутствующим факторам,
// округленное до двух знаков. Перенормировка на сумму присутствующих весов
// намеренна: частичные данные не должны тянуть агрегат к нулю только потому,
// что факторов меньше. ok=false означает, что факторов не было вовсе.
func Combine(factors []models.FactorScore) (score float64, ok bool) {
	var weightedSum, totalWeight float64
	for _, f := range factors {
		weightedSum += f.Value * f.Weight
		totalWeight += f.Weight
	}
	if totalWeight == 0 {
		return 0, false
	}
	return math.Round(weightedSum/totalWeight*100) / 100, true
}

// recommend переводит численную оценку в торговую рекомендацию
func recommend(score float64, noData bool) string {
	switch {
	case noData:
		return "НЕТ ДАННЫХ"
	case score >= 60:
		return "СИЛЬНАЯ ПОКУПКА"
	case score >= 20:
		return "ПОКУПКА"
	case score <= -60:
		return "СИЛЬНАЯ ПРОДАЖА"
	case score <= -20:
		return "ПРОДАЖА"
	default:
		return "НЕЙТРАЛЬНО"
	}
}
