// internal/storage/influxdb.go
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/pkg/models"
)

// Storage интерфейс архива рыночных данных и результатов.
// Хранятся только сырые свечи и итоговые записи сигналов/симуляций,
// промежуточные индикаторы не сохраняются.
type Storage interface {
	SaveCandles(ctx context.Context, candles []*models.Candle) error
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]*models.Candle, error)
	SaveSignal(ctx context.Context, signal *models.SignalResult) error
	SaveBacktest(ctx context.Context, result *models.BacktestResult) error
	Close()
}

// InfluxDBStorage реализует Storage поверх InfluxDB
type InfluxDBStorage struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	writeAPI api.WriteAPI
	org      string
	bucket   string
}

// NewInfluxDBStorage создает новое хранилище InfluxDB
func NewInfluxDBStorage(cfg config.StorageConfig) (*InfluxDBStorage, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	// Проверка соединения
	health, err := client.Health(context.Background())
	if err != nil {
		return nil, fmt.Errorf("ошибка соединения с InfluxDB: %w", err)
	}
	if health == nil || health.Status != "pass" {
		return nil, fmt.Errorf("InfluxDB не в состоянии 'pass': %+v", health)
	}

	return &InfluxDBStorage{
		client:   client,
		queryAPI: client.QueryAPI(cfg.Organization),
		writeAPI: client.WriteAPI(cfg.Organization, cfg.Bucket),
		org:      cfg.Organization,
		bucket:   cfg.Bucket,
	}, nil
}

// Close закрывает соединение с базой данных
func (s *InfluxDBStorage) Close() {
	s.writeAPI.Flush()
	s.client.Close()
}

// SaveCandles сохраняет свечную последовательность в архив
func (s *InfluxDBStorage) SaveCandles(ctx context.Context, candles []*models.Candle) error {
	for _, candle := range candles {
		point := influxdb2.NewPoint(
			"candles",
			map[string]string{
				"symbol":   candle.Symbol,
				"interval": candle.Interval,
			},
			map[string]interface{}{
				"open":   candle.Open,
				"high":   candle.High,
				"low":    candle.Low,
				"close":  candle.Close,
				"volume": candle.Volume,
			},
			candle.OpenTime,
		)
		s.writeAPI.WritePoint(point)
	}

	s.writeAPI.Flush()
	return nil
}

// GetCandles получает свечи из архива, от старых к новым
func (s *InfluxDBStorage) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]*models.Candle, error) {
	query := fmt.Sprintf(`
		from(bucket: "%s")
			|> range(start: -90d)
			|> filter(fn: (r) => r._measurement == "candles")
			|> filter(fn: (r) => r.symbol == "%s")
			|> filter(fn: (r) => r.interval == "%s")
			|> pivot(rowKey:["_time"], columnKey: ["_field"], valueColumn: "_value")
			|> sort(columns: ["_time"], desc: true)
			|> limit(n: %d)
			|> sort(columns: ["_time"])
	`, s.bucket, symbol, interval, limit)

	result, err := s.queryAPI.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса свечей: %w", err)
	}

	var candles []*models.Candle
	for result.Next() {
		record := result.Record()

		open, _ := record.ValueByKey("open").(float64)
		high, _ := record.ValueByKey("high").(float64)
		low, _ := record.ValueByKey("low").(float64)
		closePrice, _ := record.ValueByKey("close").(float64)
		volume, _ := record.ValueByKey("volume").(float64)

		candles = append(candles, &models.Candle{
			Symbol:    symbol,
			Interval:  interval,
			OpenTime:  record.Time(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			CloseTime: record.Time().Add(intervalDuration(interval)),
		})
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", result.Err())
	}

	return candles, nil
}

// SaveSignal сохраняет итоговый сигнал
func (s *InfluxDBStorage) SaveSignal(ctx context.Context, signal *models.SignalResult) error {
	keys := make([]string, 0, len(signal.Factors))
	for _, f := range signal.Factors {
		keys = append(keys, fmt.Sprintf("%s=%.1f", f.Key, f.Value))
	}

	point := influxdb2.NewPoint(
		"signals",
		map[string]string{
			"symbol": signal.Symbol,
		},
		map[string]interface{}{
			"id":             signal.ID,
			"score":          signal.Score,
			"recommendation": signal.Recommendation,
			"no_data":        signal.NoData,
			"price":          signal.CurrentPrice,
			"factors":        strings.Join(keys, ","),
		},
		signal.Timestamp,
	)

	s.writeAPI.WritePoint(point)
	s.writeAPI.Flush()
	return nil
}

// SaveBacktest сохраняет сводку прогона симуляции
func (s *InfluxDBStorage) SaveBacktest(ctx context.Context, result *models.BacktestResult) error {
	point := influxdb2.NewPoint(
		"backtests",
		map[string]string{
			"symbol":   result.Symbol,
			"interval": result.Interval,
		},
		map[string]interface{}{
			"id":           result.ID,
			"candles":      result.Candles,
			"trades":       result.Stats.Trades,
			"win_rate":     result.Stats.WinRate,
			"total_pnl":    result.Stats.TotalPnl,
			"max_drawdown": result.Stats.MaxDrawdown,
		},
		result.Timestamp,
	)

	s.writeAPI.WritePoint(point)
	s.writeAPI.Flush()
	return nil
}

// intervalDuration конвертирует строковый интервал в duration
func intervalDuration(interval string) time.Duration {
	switch interval {
	case "1m":
		return time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "1h":
		return time.Hour
	case "4h":
		return 4 * time.Hour
	case "1d":
		return 24 * time.Hour
	default:
		return time.Hour
	}
}
