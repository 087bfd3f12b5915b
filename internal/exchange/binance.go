package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2/futures"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/models"
)

// BinanceClient клиент для взаимодействия с фьючерсным рынком Binance
type BinanceClient struct {
	futures *futures.Client
}

// NewBinanceClient создает новый клиент Binance
func NewBinanceClient(cfg config.BinanceConfig) (*BinanceClient, error) {
	futuresClient := futures.NewClient(cfg.APIKey, cfg.APISecret)
	if cfg.Testnet {
		futures.UseTestnet = true
	}

	return &BinanceClient{
		futures: futuresClient,
	}, nil
}

// GetKlines получает исторические свечи, от старых к новым
func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*models.Candle, error) {
	klines, err := c.futures.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения свечей: %w", err)
	}

	candles := make([]*models.Candle, 0, len(klines))
	for _, k := range klines {
		candle := &models.Candle{
			Symbol:    symbol,
			Interval:  interval,
			OpenTime:  time.UnixMilli(k.OpenTime),
			CloseTime: time.UnixMilli(k.CloseTime),
		}
		var err error
		if candle.Open, err = strconv.ParseFloat(k.Open, 64); err != nil {
			return nil, fmt.Errorf("ошибка разбора свечи: %w", err)
		}
		if candle.High, err = strconv.ParseFloat(k.High, 64); err != nil {
			return nil, fmt.Errorf("ошибка разбора свечи: %w", err)
		}
		if candle.Low, err = strconv.ParseFloat(k.Low, 64); err != nil {
			return nil, fmt.Errorf("ошибка разбора свечи: %w", err)
		}
		if candle.Close, err = strconv.ParseFloat(k.Close, 64); err != nil {
			return nil, fmt.Errorf("ошибка разбора свечи: %w", err)
		}
		if candle.Volume, err = strconv.ParseFloat(k.Volume, 64); err != nil {
			return nil, fmt.Errorf("ошибка разбора свечи: %w", err)
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

// GetFundingRate получает текущую ставку финансирования
func (c *BinanceClient) GetFundingRate(ctx context.Context, symbol string) (float64, error) {
	rates, err := c.futures.NewPremiumIndexService().
		Symbol(symbol).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения ставки финансирования: %w", err)
	}
	if len(rates) == 0 {
		return 0, fmt.Errorf("нет данных о ставке финансирования для %s", symbol)
	}

	rate, err := strconv.ParseFloat(rates[0].LastFundingRate, 64)
	if err != nil {
		return 0, fmt.Errorf("ошибка разбора ставки финансирования: %w", err)
	}
	return rate, nil
}

// GetFundingHistory получает историю ставок финансирования, от старых к новым
func (c *BinanceClient) GetFundingHistory(ctx context.Context, symbol string, limit int) ([]float64, error) {
	rates, err := c.futures.NewFundingRateService().
		Symbol(symbol).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории ставок: %w", err)
	}

	history := make([]float64, 0, len(rates))
	for _, r := range rates {
		rate, err := strconv.ParseFloat(r.FundingRate, 64)
		if err != nil {
			continue
		}
		history = append(history, rate)
	}
	return history, nil
}

// GetLongShortRatio получает текущее соотношение лонг/шорт аккаунтов и
// значение periodsBack периодов назад (nil, если истории не хватает)
func (c *BinanceClient) GetLongShortRatio(ctx context.Context, symbol, period string, periodsBack int) (current float64, prev *float64, err error) {
	ratios, err := c.futures.NewLongShortRatioService().
		Symbol(symbol).
		Period(period).
		Limit(periodsBack + 1).
		Do(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("ошибка получения соотношения лонг/шорт: %w", err)
	}
	if len(ratios) == 0 {
		return 0, nil, fmt.Errorf("нет данных о соотношении лонг/шорт для %s", symbol)
	}

	// Данные приходят от старых к новым
	current, err = strconv.ParseFloat(ratios[len(ratios)-1].LongShortRatio, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("ошибка разбора соотношения: %w", err)
	}
	if len(ratios) > periodsBack {
		if p, perr := strconv.ParseFloat(ratios[0].LongShortRatio, 64); perr == nil {
			prev = &p
		}
	}
	return current, prev, nil
}
