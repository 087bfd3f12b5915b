// internal/exchange/snapshot.go
package exchange

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/logger"
	"github.com/mlukyanov/csba/pkg/models"
)

// SnapshotProvider собирает срез рыночных метрик из нескольких источников
type SnapshotProvider struct {
	binance  *BinanceClient
	external *ExternalClient
	config   config.FundingConfig
}

// NewSnapshotProvider создает новый сборщик срезов
func NewSnapshotProvider(binance *BinanceClient, external *ExternalClient, cfg config.FundingConfig) *SnapshotProvider {
	return &SnapshotProvider{
		binance:  binance,
		external: external,
		config:   cfg,
	}
}

// Collect параллельно запрашивает все метрики и собирает MarketSnapshot.
// Ошибка одного источника оставляет его поле пустым и не прерывает сбор:
// оценка пойдет по доступным факторам.
func (p *SnapshotProvider) Collect(ctx context.Context, symbol string) *models.MarketSnapshot {
	snapshot := &models.MarketSnapshot{
		Symbol:    symbol,
		Timestamp: time.Now(),
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		rate, err := p.binance.GetFundingRate(ctx, symbol)
		if err != nil {
			logger.Warn("Ставка финансирования недоступна", zap.String("symbol", symbol), zap.Error(err))
			return
		}
		snapshot.FundingRate = &rate

		history, err := p.binance.GetFundingHistory(ctx, symbol, p.config.Periods)
		if err != nil {
			logger.Warn("История ставок недоступна", zap.String("symbol", symbol), zap.Error(err))
			return
		}
		snapshot.FundingHistory = history
	}()

	go func() {
		defer wg.Done()
		current, prev, err := p.binance.GetLongShortRatio(ctx, symbol, "1h", 8)
		if err != nil {
			logger.Warn("Соотношение лонг/шорт недоступно", zap.String("symbol", symbol), zap.Error(err))
			return
		}
		snapshot.LongShortRatio = &current
		snapshot.LongShortRatioPrev = prev
	}()

	go func() {
		defer wg.Done()
		index, err := p.external.GetFearGreedIndex(ctx)
		if err != nil {
			logger.Warn("Индекс страха и жадности недоступен", zap.Error(err))
			return
		}
		snapshot.FearGreedIndex = &index
	}()

	go func() {
		defer wg.Done()
		long, short, err := p.external.GetLiquidations(ctx, symbol)
		if err != nil {
			logger.Warn("Объемы ликвидаций недоступны", zap.String("symbol", symbol), zap.Error(err))
			return
		}
		snapshot.LongLiquidations = &long
		snapshot.ShortLiquidations = &short
	}()

	wg.Wait()
	return snapshot
}
