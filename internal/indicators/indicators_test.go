package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRSIInsufficientData(t *testing.T) {
	// Меньше period+1 закрытий - нейтральное значение
	closes := []float64{100, 101, 102}
	if got := RSI(closes, 14); got != 50.0 {
		t.Fatalf("ожидали нейтральные 50, получили %.2f", got)
	}
}

func TestRSIMonotonicRise(t *testing.T) {
	// Монотонный рост: убытков нет, avgLoss=0 -> RSI=100
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if got := RSI(closes, 14); got != 100.0 {
		t.Fatalf("ожидали 100 на монотонном росте, получили %.4f", got)
	}
}

func TestRSIMonotonicFall(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	if got := RSI(closes, 14); got != 0.0 {
		t.Fatalf("ожидали 0 на монотонном падении, получили %.4f", got)
	}
}

func TestRSIWilderReference(t *testing.T) {
	// Классический набор данных Уайлдера
	closes := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08,
		45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41, 46.22, 45.64,
	}
	series := RSISeries(closes, 14)
	if !almostEqual(series[14], 70.4641, 0.001) {
		t.Fatalf("RSI[14]: ожидали 70.4641, получили %.4f", series[14])
	}
	if !almostEqual(series[19], 57.9150, 0.001) {
		t.Fatalf("RSI[19]: ожидали 57.9150, получили %.4f", series[19])
	}
	// До прогрева - нейтральные значения
	for i := 0; i < 14; i++ {
		if series[i] != 50.0 {
			t.Fatalf("RSI[%d] до прогрева: ожидали 50, получили %.2f", i, series[i])
		}
	}
}

func TestRSISeriesPrefixConsistency(t *testing.T) {
	// Значение на префиксе ряда совпадает с пересчетом по префиксу:
	// генератор ряда опирается на это свойство
	closes := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08,
		45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41, 46.22, 45.64,
	}
	full := RSISeries(closes, 14)
	for i := 14; i < len(closes); i++ {
		if got := RSI(closes[:i+1], 14); !almostEqual(got, full[i], 1e-12) {
			t.Fatalf("RSI префикса %d: %.6f != %.6f", i, got, full[i])
		}
	}
}

func TestEMAKnownValues(t *testing.T) {
	// k=2/3 при периоде 2, затравка - первое значение
	ema := EMA([]float64{1, 2, 3}, 2)
	want := []float64{1, 5.0 / 3.0, 23.0 / 9.0}
	for i := range want {
		if !almostEqual(ema[i], want[i], 1e-12) {
			t.Fatalf("EMA[%d]: ожидали %.6f, получили %.6f", i, want[i], ema[i])
		}
	}
}

func TestEMADeterministic(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	first := EMA(values, 5)
	second := EMA(values, 5)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("EMA недетерминирована на индексе %d", i)
		}
	}
}

func TestMACDPartialBelowSlowPeriod(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	res := MACD(closes)
	macd, signal, hist := res.Last()
	if macd != 0 || signal != 0 || hist != 0 {
		t.Fatalf("ожидали нулевые значения до 26 закрытий, получили %.4f %.4f %.4f", macd, signal, hist)
	}
}

func TestMACDRisingSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 0.2*float64(i)
	}
	res := MACD(closes)
	macd, _, hist := res.Last()
	if !almostEqual(macd, 1.37339, 0.001) {
		t.Fatalf("линия MACD: ожидали 1.37339, получили %.5f", macd)
	}
	if hist <= 0 {
		t.Fatalf("на устойчивом росте гистограмма должна быть положительной, получили %.5f", hist)
	}
	// В точке прогрева сигнальная затравлена линией MACD
	if res.Histogram[25] != 0 {
		t.Fatalf("гистограмма в точке затравки должна быть нулевой, получили %.5f", res.Histogram[25])
	}
}

func TestBollingerInsufficientData(t *testing.T) {
	if _, ok := BollingerBands([]float64{1, 2, 3}, 20); ok {
		t.Fatal("ожидали отказ при недостатке данных")
	}
}

func TestBollingerPercentB(t *testing.T) {
	bb, ok := BollingerBands([]float64{1, 2, 3, 4}, 4)
	if !ok {
		t.Fatal("ожидали успешный расчет")
	}
	if !almostEqual(bb.PercentB, 0.83541, 0.0001) {
		t.Fatalf("%%B: ожидали 0.83541, получили %.5f", bb.PercentB)
	}
	if bb.Upper <= bb.Middle || bb.Middle <= bb.Lower {
		t.Fatalf("полосы не упорядочены: %.4f %.4f %.4f", bb.Upper, bb.Middle, bb.Lower)
	}
}

func TestBollingerFlatWindow(t *testing.T) {
	closes := []float64{5, 5, 5, 5, 5}
	bb, ok := BollingerBands(closes, 5)
	if !ok {
		t.Fatal("ожидали успешный расчет")
	}
	if bb.PercentB != 0.5 {
		t.Fatalf("на плоском окне ожидали %%B=0.5, получили %.4f", bb.PercentB)
	}
}

func TestSMA(t *testing.T) {
	sma, ok := SMA([]float64{1, 2, 3, 4, 5, 6}, 3)
	if !ok || sma != 5 {
		t.Fatalf("ожидали 5 по последним трем значениям, получили %.4f (ok=%v)", sma, ok)
	}
	if _, ok := SMA([]float64{1, 2}, 3); ok {
		t.Fatal("ожидали отказ при недостатке данных")
	}
}
