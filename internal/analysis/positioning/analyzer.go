// internal/analysis/positioning/analyzer.go
package positioning

import (
	"fmt"
	"math"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/models"
)

// Factor ключ фактора соотношения лонг/шорт аккаунтов
const Factor = "long_short_ratio"

// Analyzer реализует контртрендовый анализатор соотношения лонг/шорт
type Analyzer struct {
	config config.PositioningConfig
}

// NewAnalyzer создает новый анализатор позиционирования
func NewAnalyzer(cfg config.PositioningConfig) *Analyzer {
	return &Analyzer{
		config: cfg,
	}
}

type ratioBand struct {
	match func(ratio float64) bool
	score float64
	note  string
}

// Соотношение трактуется контртрендово: чем больше аккаунтов в лонгах,
// тем выше риск сквиза вниз.
var ratioBands = []ratioBand{
	{func(r float64) bool { return r > 3.5 }, -25, "экстремальный перевес лонгов"},
	{func(r float64) bool { return r > 2.8 }, -10, "заметный перевес лонгов"},
	{func(r float64) bool { return r < 1.2 }, 25, "экстремальный перевес шортов"},
	{func(r float64) bool { return r < 1.8 }, 10, "заметный перевес шортов"},
	{func(r float64) bool { return true }, 0, "соотношение в нейтральной зоне"},
}

// Evaluate оценивает фактор соотношения лонг/шорт.
// При наличии значения ~8 периодов назад резкое изменение (|дельта| > 0.3)
// корректирует оценку на +/-5: рост доли лонгов - в минус, падение - в плюс.
func (a *Analyzer) Evaluate(snapshot *models.MarketSnapshot) []models.FactorScore {
	if snapshot.LongShortRatio == nil {
		return nil
	}
	ratio := *snapshot.LongShortRatio

	var score float64
	var note string
	for _, band := range ratioBands {
		if band.match(ratio) {
			score, note = band.score, band.note
			break
		}
	}

	rationale := fmt.Sprintf("%s (%.2f)", note, ratio)
	if snapshot.LongShortRatioPrev != nil {
		change := ratio - *snapshot.LongShortRatioPrev
		if math.Abs(change) > 0.3 {
			if change > 0 {
				score -= 5
				rationale += fmt.Sprintf(", рост за 8 периодов на %.2f", change)
			} else {
				score += 5
				rationale += fmt.Sprintf(", падение за 8 периодов на %.2f", -change)
			}
		}
	}

	return []models.FactorScore{{
		Key:       Factor,
		Value:     score,
		Weight:    a.config.Weight,
		Rationale: rationale,
	}}
}
