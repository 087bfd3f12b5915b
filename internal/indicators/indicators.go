// internal/indicators/indicators.go
package indicators

import "math"

// Чистые функции расчета индикаторов по ценовому ряду. Состояния нет:
// повторный вызов на том же входе дает тот же результат, поэтому генератор
// сигнального ряда может вычислить полные массивы один раз и читать их
// по индексу вместо пересчета на каждом шаге.

// RSISeries рассчитывает RSI по Уайлдеру для каждого индекса ряда.
// Для индексов, где данных меньше period+1, возвращается нейтральное 50.
// Средние прирост/убыток за первые period дельт - простое среднее, дальше
// рекуррентное сглаживание avg = (avg*(period-1) +/- delta) / period.
func RSISeries(closes []float64, period int) []float64 {
	rsi := make([]float64, len(closes))
	for i := range rsi {
		rsi[i] = 50.0
	}
	if len(closes) < period+1 {
		return rsi
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change >= 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change >= 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		rsi[i] = rsiValue(avgGain, avgLoss)
	}
	return rsi
}

// RSI возвращает последнее значение RSI ряда.
// При недостатке данных - нейтральное 50.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50.0
	}
	series := RSISeries(closes, period)
	return series[len(series)-1]
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// EMA рассчитывает экспоненциальную скользящую среднюю для каждого индекса.
// Сглаживание k = 2/(period+1), затравка - первое значение ряда.
func EMA(values []float64, period int) []float64 {
	ema := make([]float64, len(values))
	if len(values) == 0 {
		return ema
	}
	k := 2.0 / float64(period+1)
	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		ema[i] = values[i]*k + ema[i-1]*(1-k)
	}
	return ema
}

// MACDResult содержит линии MACD по индексам исходного ряда
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// Last возвращает последние значения трёх линий (нули для пустого ряда)
func (m MACDResult) Last() (macd, signal, histogram float64) {
	n := len(m.MACD)
	if n == 0 {
		return 0, 0, 0
	}
	return m.MACD[n-1], m.Signal[n-1], m.Histogram[n-1]
}

// MACD рассчитывает MACD(12,26,9): линия = EMA(12)-EMA(26), сигнальная -
// EMA(9) от линии MACD начиная с момента, когда накоплено 26 значений.
// До 26 (соотв. 35) закрытий значения частичные: нули до прогрева линии,
// сигнальная растет от затравки.
func MACD(closes []float64) MACDResult {
	const (
		fast   = 12
		slow   = 26
		signal = 9
	)

	res := MACDResult{
		MACD:      make([]float64, len(closes)),
		Signal:    make([]float64, len(closes)),
		Histogram: make([]float64, len(closes)),
	}
	if len(closes) < slow {
		return res
	}

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	for i := slow - 1; i < len(closes); i++ {
		res.MACD[i] = emaFast[i] - emaSlow[i]
	}

	// Сигнальная линия - EMA(9) от линии MACD, затравка в точке прогрева
	k := 2.0 / float64(signal+1)
	res.Signal[slow-1] = res.MACD[slow-1]
	for i := slow; i < len(closes); i++ {
		res.Signal[i] = res.MACD[i]*k + res.Signal[i-1]*(1-k)
	}
	for i := slow - 1; i < len(closes); i++ {
		res.Histogram[i] = res.MACD[i] - res.Signal[i]
	}
	return res
}

// Bollinger содержит полосы Боллинджера и позицию цены внутри них
type Bollinger struct {
	Upper    float64
	Middle   float64
	Lower    float64
	PercentB float64 // <0 или >1 - закрытие вне полос
}

// BollingerBands рассчитывает полосы Боллинджера по скользящему окну:
// SMA +/- 2 стандартных отклонения (по населению, делитель period).
// ok=false при недостатке данных - фактор пропускается, а не оценивается.
func BollingerBands(closes []float64, period int) (Bollinger, bool) {
	if len(closes) < period {
		return Bollinger{}, false
	}

	window := closes[len(closes)-period:]
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(period)

	variance := 0.0
	for _, v := range window {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(period)
	std := math.Sqrt(variance)

	b := Bollinger{
		Upper:  mean + 2*std,
		Middle: mean,
		Lower:  mean - 2*std,
	}
	lastClose := closes[len(closes)-1]
	if b.Upper == b.Lower {
		// Плоское окно: цена ровно в середине вырожденной полосы
		b.PercentB = 0.5
	} else {
		b.PercentB = (lastClose - b.Lower) / (b.Upper - b.Lower)
	}
	return b, true
}

// SMA рассчитывает простую скользящую среднюю по последним period значениям.
// ok=false при недостатке данных.
func SMA(values []float64, period int) (float64, bool) {
	if len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}
