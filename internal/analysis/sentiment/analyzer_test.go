package sentiment

import (
	"testing"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/models"
)

func fptr(v float64) *float64 { return &v }

func TestIndexBands(t *testing.T) {
	cases := []struct {
		name  string
		index float64
		want  float64
	}{
		{"экстремальный страх", 5, 30},
		{"граница 10 включительно", 10, 30},
		{"сильный страх", 20, 15},
		{"страх", 40, 5},
		{"нейтральные настроения", 50, 0},
		{"жадность", 70, -5},
		{"сильная жадность", 85, -15},
		{"экстремальная жадность", 95, -30},
	}

	a := NewAnalyzer(config.SentimentConfig{Weight: 15})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			factors := a.Evaluate(&models.MarketSnapshot{FearGreedIndex: fptr(tc.index)})
			if len(factors) != 1 {
				t.Fatalf("ожидали один фактор, получили %d", len(factors))
			}
			if factors[0].Value != tc.want {
				t.Fatalf("индекс %.0f: ожидали %.0f, получили %.0f", tc.index, tc.want, factors[0].Value)
			}
		})
	}
}

func TestMonotonicDecrease(t *testing.T) {
	// С ростом индекса оценка не растет
	a := NewAnalyzer(config.SentimentConfig{Weight: 15})
	prev := 31.0
	for index := 0.0; index <= 100; index++ {
		factors := a.Evaluate(&models.MarketSnapshot{FearGreedIndex: fptr(index)})
		if factors[0].Value > prev {
			t.Fatalf("оценка выросла на индексе %.0f: %.0f > %.0f", index, factors[0].Value, prev)
		}
		prev = factors[0].Value
	}
}

func TestMissingIndex(t *testing.T) {
	a := NewAnalyzer(config.SentimentConfig{Weight: 15})
	if factors := a.Evaluate(&models.MarketSnapshot{}); factors != nil {
		t.Fatalf("при отсутствии данных ожидали nil, получили %v", factors)
	}
}
