package liquidation

import (
	"testing"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/models"
)

func fptr(v float64) *float64 { return &v }

func TestShareBands(t *testing.T) {
	cases := []struct {
		name        string
		long, short float64
		want        float64
	}{
		{"каскад ликвидаций лонгов", 90, 10, 15},
		{"перевес ликвидаций лонгов", 70, 30, 5},
		{"сбалансировано", 50, 50, 0},
		{"перевес ликвидаций шортов", 30, 70, -5},
		{"каскад ликвидаций шортов", 10, 90, -15},
	}

	a := NewAnalyzer(config.LiquidationConfig{Weight: 10})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := &models.MarketSnapshot{
				LongLiquidations:  fptr(tc.long),
				ShortLiquidations: fptr(tc.short),
			}
			factors := a.Evaluate(snap)
			if len(factors) != 1 {
				t.Fatalf("ожидали один фактор, получили %d", len(factors))
			}
			if factors[0].Value != tc.want {
				t.Fatalf("доля %.2f: ожидали %.0f, получили %.0f", tc.long/(tc.long+tc.short), tc.want, factors[0].Value)
			}
		})
	}
}

func TestZeroVolumeSkipped(t *testing.T) {
	a := NewAnalyzer(config.LiquidationConfig{Weight: 10})
	snap := &models.MarketSnapshot{
		LongLiquidations:  fptr(0),
		ShortLiquidations: fptr(0),
	}
	if factors := a.Evaluate(snap); factors != nil {
		t.Fatalf("при нулевом объеме ожидали nil, получили %v", factors)
	}
}

func TestMissingVolumes(t *testing.T) {
	a := NewAnalyzer(config.LiquidationConfig{Weight: 10})
	if factors := a.Evaluate(&models.MarketSnapshot{LongLiquidations: fptr(10)}); factors != nil {
		t.Fatalf("при неполных данных ожидали nil, получили %v", factors)
	}
}
