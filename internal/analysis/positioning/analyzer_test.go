package positioning

import (
	"testing"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/models"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(config.PositioningConfig{Weight: 15})
}

func fptr(v float64) *float64 { return &v }

func TestRatioBands(t *testing.T) {
	cases := []struct {
		name  string
		ratio float64
		want  float64
	}{
		{"экстремальный перевес лонгов", 4.0, -25},
		{"заметный перевес лонгов", 3.0, -10},
		{"нейтральная зона", 2.0, 0},
		{"заметный перевес шортов", 1.5, 10},
		{"экстремальный перевес шортов", 0.9, 25},
	}

	a := newTestAnalyzer()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := &models.MarketSnapshot{LongShortRatio: fptr(tc.ratio)}
			factors := a.Evaluate(snap)
			if len(factors) != 1 {
				t.Fatalf("ожидали один фактор, получили %d", len(factors))
			}
			if factors[0].Value != tc.want {
				t.Fatalf("соотношение %.2f: ожидали %.0f, получили %.0f", tc.ratio, tc.want, factors[0].Value)
			}
		})
	}
}

func TestMissingRatio(t *testing.T) {
	a := newTestAnalyzer()
	if factors := a.Evaluate(&models.MarketSnapshot{}); factors != nil {
		t.Fatalf("при отсутствии данных ожидали nil, получили %v", factors)
	}
}

func TestSharpRiseAdjustment(t *testing.T) {
	a := newTestAnalyzer()
	snap := &models.MarketSnapshot{
		LongShortRatio:     fptr(2.0),
		LongShortRatioPrev: fptr(1.5),
	}
	factors := a.Evaluate(snap)
	// Нейтральная полоса 0, резкий рост лонгов дает -5
	if factors[0].Value != -5 {
		t.Fatalf("ожидали -5 после коррекции, получили %.0f", factors[0].Value)
	}
}

func TestSharpDropAdjustment(t *testing.T) {
	a := newTestAnalyzer()
	snap := &models.MarketSnapshot{
		LongShortRatio:     fptr(3.0),
		LongShortRatioPrev: fptr(3.6),
	}
	factors := a.Evaluate(snap)
	// Полоса -10, резкое падение лонгов дает +5
	if factors[0].Value != -5 {
		t.Fatalf("ожидали -5 после коррекции, получили %.0f", factors[0].Value)
	}
}

func TestSmallChangeNoAdjustment(t *testing.T) {
	a := newTestAnalyzer()
	snap := &models.MarketSnapshot{
		LongShortRatio:     fptr(2.0),
		LongShortRatioPrev: fptr(1.8),
	}
	factors := a.Evaluate(snap)
	if factors[0].Value != 0 {
		t.Fatalf("малое изменение не должно корректировать оценку, получили %.0f", factors[0].Value)
	}
}
