// internal/analysis/sentiment/analyzer.go
package sentiment

import (
	"fmt"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/models"
)

// Factor ключ фактора индекса страха и жадности
const Factor = "fear_greed"

// Analyzer реализует контртрендовый анализатор индекса страха и жадности
type Analyzer struct {
	config config.SentimentConfig
}

// NewAnalyzer создает новый анализатор настроений
func NewAnalyzer(cfg config.SentimentConfig) *Analyzer {
	return &Analyzer{
		config: cfg,
	}
}

type indexBand struct {
	max   float64 // верхняя граница полосы включительно
	score float64
	note  string
}

// Семь полос от экстремального страха к экстремальной жадности,
// оценка монотонно убывает с ростом индекса.
var indexBands = []indexBand{
	{10, 30, "экстремальный страх"},
	{25, 15, "сильный страх"},
	{45, 5, "страх"},
	{55, 0, "нейтральные настроения"},
	{75, -5, "жадность"},
	{90, -15, "сильная жадность"},
}

// Evaluate оценивает фактор индекса страха и жадности (контртрендово):
// паника - покупать, эйфория - продавать.
func (a *Analyzer) Evaluate(snapshot *models.MarketSnapshot) []models.FactorScore {
	if snapshot.FearGreedIndex == nil {
		return nil
	}
	index := *snapshot.FearGreedIndex

	score, note := -30.0, "экстремальная жадность"
	for _, band := range indexBands {
		if index <= band.max {
			score, note = band.score, band.note
			break
		}
	}

	return []models.FactorScore{{
		Key:       Factor,
		Value:     score,
		Weight:    a.config.Weight,
		Rationale: fmt.Sprintf("%s (индекс %.0f)", note, index),
	}}
}
