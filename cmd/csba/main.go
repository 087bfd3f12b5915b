package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mlukyanov/csba/internal/analysis/aggregator"
	"github.com/mlukyanov/csba/internal/backtest"
	"github.com/mlukyanov/csba/internal/config"
	"github.com/mlukyanov/csba/internal/exchange"
	"github.com/mlukyanov/csba/internal/report"
	"github.com/mlukyanov/csba/internal/storage"
	"github.com/mlukyanov/csba/internal/ui"
	"github.com/mlukyanov/csba/pkg/logger"
	"github.com/mlukyanov/csba/pkg/models"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	mode := flag.String("mode", "score", "режим работы: score, backtest или watch")
	symbol := flag.String("symbol", "", "символ (перекрывает конфигурацию)")
	interval := flag.String("interval", "", "интервал свечей (перекрывает конфигурацию)")
	offline := flag.Bool("offline", false, "брать свечи из архива вместо биржи (только backtest)")
	logLevel := flag.String("log-level", "info", "уровень логирования: debug, info, warn, error")
	flag.Parse()

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "файл конфигурации не найден: %s\n", *configPath)
		os.Exit(1)
	}

	// В watch-режиме консольные логи ломают отрисовку TUI
	logger.Init(*logLevel, *mode == "watch")
	defer logger.GetLogger().Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}
	if *symbol != "" {
		cfg.Trading.Symbol = *symbol
	}
	if *interval != "" {
		cfg.Trading.Interval = *interval
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	client, err := exchange.NewBinanceClient(cfg.Binance)
	if err != nil {
		logger.Fatal("Ошибка инициализации клиента биржи", zap.Error(err))
	}
	external := exchange.NewExternalClient(cfg.Sources)
	provider := exchange.NewSnapshotProvider(client, external, cfg.Analysis.Funding)
	analyzer := aggregator.NewAnalyzer(cfg.Analysis)

	var store storage.Storage
	if cfg.Storage.Enabled {
		store, err = storage.NewInfluxDBStorage(cfg.Storage)
		if err != nil {
			logger.Fatal("Ошибка инициализации хранилища", zap.Error(err))
		}
		defer store.Close()
	}

	switch *mode {
	case "score":
		runScore(ctx, cfg, client, provider, analyzer, store)
	case "backtest":
		runBacktest(ctx, cfg, client, store, *offline)
	case "watch":
		runWatch(ctx, cfg, client, provider, analyzer)
	default:
		fmt.Fprintf(os.Stderr, "неизвестный режим: %s\n", *mode)
		os.Exit(1)
	}
}

// score собирает срез метрик и свечи, агрегирует сигнал и печатает отчет
func runScore(ctx context.Context, cfg *config.Config, client *exchange.BinanceClient,
	provider *exchange.SnapshotProvider, analyzer *aggregator.Analyzer, store storage.Storage) {

	candles, err := client.GetKlines(ctx, cfg.Trading.Symbol, cfg.Trading.Interval, cfg.Trading.CandleLimit)
	if err != nil {
		logger.Fatal("Ошибка получения свечей", zap.Error(err))
	}
	snapshot := provider.Collect(ctx, cfg.Trading.Symbol)

	result, err := analyzer.Score(snapshot, candles)
	if err != nil {
		logger.Fatal("Ошибка агрегации сигнала", zap.Error(err))
	}

	fmt.Print(report.RenderSignal(result))

	if store != nil {
		if err := store.SaveCandles(ctx, candles); err != nil {
			logger.Warn("Не удалось сохранить свечи в архив", zap.Error(err))
		}
		if err := store.SaveSignal(ctx, result); err != nil {
			logger.Warn("Не удалось сохранить сигнал", zap.Error(err))
		}
	}
}

// backtest строит сигнальный ряд по истории и прогоняет симуляцию
func runBacktest(ctx context.Context, cfg *config.Config, client *exchange.BinanceClient,
	store storage.Storage, offline bool) {

	var candles []*models.Candle
	var err error
	if offline {
		if store == nil {
			logger.Fatal("Офлайн-режим требует включенного хранилища")
		}
		candles, err = store.GetCandles(ctx, cfg.Trading.Symbol, cfg.Trading.Interval, cfg.Trading.CandleLimit)
	} else {
		candles, err = client.GetKlines(ctx, cfg.Trading.Symbol, cfg.Trading.Interval, cfg.Trading.CandleLimit)
	}
	if err != nil {
		logger.Fatal("Ошибка получения свечей", zap.Error(err))
	}

	engine := backtest.NewEngine(backtest.ParamsFromConfig(cfg.Backtest))
	result, err := engine.Run(candles)
	if err != nil {
		logger.Fatal("Ошибка симуляции", zap.Error(err))
	}

	fmt.Print(report.RenderBacktest(result))

	if store != nil && !offline {
		if err := store.SaveCandles(ctx, candles); err != nil {
			logger.Warn("Не удалось сохранить свечи в архив", zap.Error(err))
		}
	}
	if store != nil {
		if err := store.SaveBacktest(ctx, result); err != nil {
			logger.Warn("Не удалось сохранить результат симуляции", zap.Error(err))
		}
	}
}

// watch запускает TUI с периодическим пересчетом сигнала
func runWatch(ctx context.Context, cfg *config.Config, client *exchange.BinanceClient,
	provider *exchange.SnapshotProvider, analyzer *aggregator.Analyzer) {

	scoreFn := func(ctx context.Context) (*models.SignalResult, error) {
		candles, err := client.GetKlines(ctx, cfg.Trading.Symbol, cfg.Trading.Interval, cfg.Trading.CandleLimit)
		if err != nil {
			return nil, err
		}
		snapshot := provider.Collect(ctx, cfg.Trading.Symbol)
		return analyzer.Score(snapshot, candles)
	}

	termUI := ui.NewTermUI(ctx, time.Duration(cfg.Analysis.WatchSeconds)*time.Second, scoreFn)
	if err := termUI.Start(); err != nil {
		logger.Fatal("Ошибка терминального интерфейса", zap.Error(err))
	}
}
