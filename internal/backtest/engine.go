package backtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mlukyanov/csba/internal/analysis/series"
	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/logger"
	"github.com/mlukyanov/csba/pkg/models"
)

// Params параметры симуляции
type Params struct {
	EntryThreshold    float64 // |оценка| для входа в позицию
	ReversalThreshold float64 // движение оценки против позиции для выхода
	StopLossPercent   float64 // стоп-лосс, в процентах от входа
	TakeProfitPercent float64 // тейк-профит, в процентах от входа
	ExecutionLag      int     // задержка исполнения, в барах
	MinCandles        int     // минимум свечей для осмысленной симуляции
}

// DefaultParams возвращает параметры по умолчанию
func DefaultParams() Params {
	return Params{
		EntryThreshold:    20,
		ReversalThreshold: 5,
		StopLossPercent:   3,
		TakeProfitPercent: 6,
		ExecutionLag:      1,
		MinCandles:        50,
	}
}

// ParamsFromConfig собирает параметры симуляции из конфигурации
func ParamsFromConfig(cfg config.BacktestConfig) Params {
	return Params{
		EntryThreshold:    cfg.EntryThreshold,
		ReversalThreshold: cfg.ReversalThreshold,
		StopLossPercent:   cfg.StopLossPercent,
		TakeProfitPercent: cfg.TakeProfitPercent,
		ExecutionLag:      cfg.ExecutionLag,
		MinCandles:        cfg.MinCandles,
	}
}

// Engine реализует симулятор торговли по сигнальному ряду
type Engine struct {
	params Params
}

// NewEngine создает новый симулятор
func NewEngine(params Params) *Engine {
	return &Engine{
		params: params,
	}
}

// simState состояние симуляции, явно протаскиваемое через цикл:
// не более одной открытой позиции в любой момент
type simState struct {
	position *models.Position
	trades   []models.Trade
}

func (st *simState) open(side models.PositionSide, price float64, index int) {
	st.position = &models.Position{
		Side:       side,
		EntryPrice: price,
		EntryIndex: index,
	}
}

func (st *simState) close(price float64, index int, reason models.CloseReason) {
	p := st.position
	st.trades = append(st.trades, models.Trade{
		Side:       p.Side,
		EntryPrice: p.EntryPrice,
		ExitPrice:  price,
		EntryIndex: p.EntryIndex,
		ExitIndex:  index,
		Reason:     reason,
		PnlPercent: pnlPercent(p.Side, p.EntryPrice, price),
	})
	st.position = nil
}

// pnlPercent нереализованный результат в процентах от цены входа
func pnlPercent(side models.PositionSide, entry, price float64) float64 {
	if side == models.SideShort {
		return (entry - price) / entry * 100
	}
	return (price - entry) / entry * 100
}

// Run прогоняет симуляцию по свечной последовательности: строит сигнальный
// ряд и ведет машину состояний позиции. Сигнал бара i исполняется по цене
// открытия бара i+lag - решение не может использовать еще не доступную
// информацию. Слишком короткая последовательность отклоняется сразу:
// одна-две сделки статистики не дают.
func (e *Engine) Run(candles []*models.Candle) (*models.BacktestResult, error) {
	if err := models.ValidateCandles(candles); err != nil {
		return nil, fmt.Errorf("некорректная свечная последовательность: %w", err)
	}
	if len(candles) < e.params.MinCandles {
		return nil, fmt.Errorf("недостаточно свечей для симуляции: %d (требуется минимум %d)",
			len(candles), e.params.MinCandles)
	}

	signals, err := series.Generate(candles)
	if err != nil {
		return nil, err
	}

	trades := e.simulate(candles, signals)

	result := &models.BacktestResult{
		ID:        uuid.NewString(),
		Symbol:    candles[0].Symbol,
		Interval:  candles[0].Interval,
		Start:     candles[0].OpenTime,
		End:       candles[len(candles)-1].OpenTime,
		Candles:   len(candles),
		Signals:   signals,
		Trades:    trades,
		Stats:     computeStats(trades),
		Timestamp: time.Now(),
	}

	logger.Info("Симуляция завершена",
		zap.String("symbol", result.Symbol),
		zap.Int("candles", result.Candles),
		zap.Int("trades", result.Stats.Trades),
		zap.Float64("total_pnl", result.Stats.TotalPnl))

	return result, nil
}

// simulate прогоняет машину состояний позиции по сигнальному ряду.
// Вход и выход на одном баре взаимоисключающие: новая позиция никогда
// не открывается в баре закрытия предыдущей.
func (e *Engine) simulate(candles []*models.Candle, signals []models.SignalPoint) []models.Trade {
	st := &simState{}
	for _, pt := range signals {
		execIdx := pt.Index + e.params.ExecutionLag
		if execIdx >= len(candles) {
			break
		}
		price := candles[execIdx].Open

		if st.position != nil {
			e.step(st, pt.Score, price, execIdx)
			continue
		}

		// Вход только когда есть куда выходить: позиция, открытая на
		// последнем баре, закрылась бы тем же индексом
		if execIdx >= len(candles)-1 {
			continue
		}
		switch {
		case pt.Score >= e.params.EntryThreshold:
			st.open(models.SideLong, price, execIdx)
		case pt.Score <= -e.params.EntryThreshold:
			st.open(models.SideShort, price, execIdx)
		}
	}

	// Принудительное закрытие в конце ряда по последнему закрытию
	if st.position != nil {
		last := len(candles) - 1
		st.close(candles[last].Close, last, models.CloseEndOfData)
	}
	return st.trades
}

// step обрабатывает бар с открытой позицией: защитные выходы проверяются
// раньше выхода по развороту сигнала. Стоп и тейк исполняются по своей
// пороговой цене, а не по цене срабатывания: зафиксированный результат
// равен настроенному порогу.
func (e *Engine) step(st *simState, score, price float64, index int) {
	p := st.position
	pnl := pnlPercent(p.Side, p.EntryPrice, price)

	switch {
	case pnl <= -e.params.StopLossPercent:
		st.close(e.exitPrice(p, -e.params.StopLossPercent), index, models.CloseStopLoss)
	case pnl >= e.params.TakeProfitPercent:
		st.close(e.exitPrice(p, e.params.TakeProfitPercent), index, models.CloseTakeProfit)
	case p.Side == models.SideLong && score < -e.params.ReversalThreshold:
		st.close(price, index, models.CloseReversal)
	case p.Side == models.SideShort && score > e.params.ReversalThreshold:
		st.close(price, index, models.CloseReversal)
	}
}

// exitPrice цена выхода, дающая ровно pnl процентов от входа
func (e *Engine) exitPrice(p *models.Position, pnl float64) float64 {
	if p.Side == models.SideShort {
		return p.EntryPrice * (1 - pnl/100)
	}
	return p.EntryPrice * (1 + pnl/100)
}
