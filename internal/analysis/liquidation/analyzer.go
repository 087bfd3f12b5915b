// internal/analysis/liquidation/analyzer.go
package liquidation

import (
	"fmt"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/models"
)

// Factor ключ фактора перекоса ликвидаций
const Factor = "liquidation"

// Analyzer реализует анализатор перекоса объемов ликвидаций
type Analyzer struct {
	config config.LiquidationConfig
}

// NewAnalyzer создает новый анализатор ликвидаций
func NewAnalyzer(cfg config.LiquidationConfig) *Analyzer {
	return &Analyzer{
		config: cfg,
	}
}

type shareBand struct {
	match func(share float64) bool
	score float64
	note  string
}

// Волна ликвидаций лонгов обычно вымывает слабые руки у дна - сигнал
// на покупку; волна ликвидаций шортов - зеркально.
var shareBands = []shareBand{
	{func(s float64) bool { return s > 0.8 }, 15, "каскад ликвидаций лонгов"},
	{func(s float64) bool { return s > 0.6 }, 5, "перевес ликвидаций лонгов"},
	{func(s float64) bool { return s < 0.2 }, -15, "каскад ликвидаций шортов"},
	{func(s float64) bool { return s < 0.4 }, -5, "перевес ликвидаций шортов"},
	{func(s float64) bool { return true }, 0, "ликвидации сбалансированы"},
}

// Evaluate оценивает фактор перекоса ликвидаций по доле лонговых ликвидаций
// в общем объеме. При нулевом общем объеме фактор не определен и пропускается.
func (a *Analyzer) Evaluate(snapshot *models.MarketSnapshot) []models.FactorScore {
	if snapshot.LongLiquidations == nil || snapshot.ShortLiquidations == nil {
		return nil
	}
	long, short := *snapshot.LongLiquidations, *snapshot.ShortLiquidations
	total := long + short
	if total == 0 {
		return nil
	}

	share := long / total
	for _, band := range shareBands {
		if band.match(share) {
			return []models.FactorScore{{
				Key:       Factor,
				Value:     band.score,
				Weight:    a.config.Weight,
				Rationale: fmt.Sprintf("%s (доля лонгов %.2f)", band.note, share),
			}}
		}
	}
	return nil
}
