package config

import (
	"os"

	"github.com/mlukyanov/csba/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Config представляет полную конфигурацию приложения
type Config struct {
	Binance  BinanceConfig  `yaml:"binance"`
	Sources  SourcesConfig  `yaml:"sources"`
	Trading  TradingConfig  `yaml:"trading"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Backtest BacktestConfig `yaml:"backtest"`
	Storage  StorageConfig  `yaml:"storage"`
	UI       UIConfig       `yaml:"ui"`
}

// BinanceConfig содержит настройки подключения к Binance
type BinanceConfig struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Testnet   bool   `yaml:"testnet"`
}

// SourcesConfig содержит настройки внешних HTTP-источников
type SourcesConfig struct {
	FearGreedURL    string `yaml:"fear_greed_url"`
	LiquidationsURL string `yaml:"liquidations_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	MaxRetries      int    `yaml:"max_retries"`
}

// TradingConfig содержит настройки рынка
type TradingConfig struct {
	Symbol      string `yaml:"symbol"`
	Interval    string `yaml:"interval"`
	CandleLimit int    `yaml:"candle_limit"`
}

// AnalysisConfig содержит настройки факторов и их весов
type AnalysisConfig struct {
	Funding      FundingConfig      `yaml:"funding"`
	Positioning  PositioningConfig  `yaml:"positioning"`
	Sentiment    SentimentConfig    `yaml:"sentiment"`
	Technical    TechnicalConfig    `yaml:"technical"`
	Liquidation  LiquidationConfig  `yaml:"liquidation"`
	WatchSeconds int                `yaml:"watch_interval_seconds"`
}

// FundingConfig настройки анализа ставок финансирования
type FundingConfig struct {
	RateWeight  float64 `yaml:"rate_weight"`
	TrendWeight float64 `yaml:"trend_weight"`
	Periods     int     `yaml:"periods"`
}

// PositioningConfig настройки анализа соотношения лонг/шорт
type PositioningConfig struct {
	Weight float64 `yaml:"weight"`
}

// SentimentConfig настройки анализа индекса страха и жадности
type SentimentConfig struct {
	Weight float64 `yaml:"weight"`
}

// TechnicalConfig настройки технических факторов
type TechnicalConfig struct {
	RSIWeight       float64 `yaml:"rsi_weight"`
	MACDWeight      float64 `yaml:"macd_weight"`
	BollingerWeight float64 `yaml:"bollinger_weight"`
	RSIPeriod       int     `yaml:"rsi_period"`
	BollingerPeriod int     `yaml:"bollinger_period"`
}

// LiquidationConfig настройки анализа перекоса ликвидаций
type LiquidationConfig struct {
	Weight float64 `yaml:"weight"`
}

// BacktestConfig параметры симуляции
type BacktestConfig struct {
	EntryThreshold    float64 `yaml:"entry_threshold"`
	ReversalThreshold float64 `yaml:"reversal_threshold"`
	StopLossPercent   float64 `yaml:"stop_loss_percent"`
	TakeProfitPercent float64 `yaml:"take_profit_percent"`
	ExecutionLag      int     `yaml:"execution_lag"`
	MinCandles        int     `yaml:"min_candles"`
}

// StorageConfig настройки архива рыночных данных (опционально)
type StorageConfig struct {
	Enabled      bool   `yaml:"enabled"`
	URL          string `yaml:"url"`
	Token        string `yaml:"token"`
	Organization string `yaml:"organization"`
	Bucket       string `yaml:"bucket"`
}

// UIConfig настройки watch-режима
type UIConfig struct {
	RefreshRate int `yaml:"refresh_rate_ms"`
}

// Load загружает конфигурацию из файла и подставляет значения по умолчанию
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("Ошибка чтения файла конфигурации", zap.Error(err))
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		logger.Fatal("Ошибка разбора файла конфигурации", zap.Error(err))
	}

	config.applyDefaults()

	logger.Debug("Загружена конфигурация", zap.String("path", path), zap.Any("config", config))
	logger.Info("Загружена конфигурация",
		zap.String("symbol", config.Trading.Symbol),
		zap.String("interval", config.Trading.Interval))
	return &config, nil
}

// applyDefaults подставляет значения по умолчанию вместо нулевых.
// Веса факторов соответствуют базовой модели, пороги бэктеста - консервативной
// внутридневной стратегии.
func (c *Config) applyDefaults() {
	if c.Trading.Symbol == "" {
		c.Trading.Symbol = "BTCUSDT"
	}
	if c.Trading.Interval == "" {
		c.Trading.Interval = "1h"
	}
	if c.Trading.CandleLimit <= 0 {
		c.Trading.CandleLimit = 200
	}

	if c.Analysis.Funding.RateWeight <= 0 {
		c.Analysis.Funding.RateWeight = 15
	}
	if c.Analysis.Funding.TrendWeight <= 0 {
		c.Analysis.Funding.TrendWeight = 10
	}
	if c.Analysis.Funding.Periods <= 0 {
		c.Analysis.Funding.Periods = 12
	}
	if c.Analysis.Positioning.Weight <= 0 {
		c.Analysis.Positioning.Weight = 15
	}
	if c.Analysis.Sentiment.Weight <= 0 {
		c.Analysis.Sentiment.Weight = 15
	}
	if c.Analysis.Technical.RSIWeight <= 0 {
		c.Analysis.Technical.RSIWeight = 15
	}
	if c.Analysis.Technical.MACDWeight <= 0 {
		c.Analysis.Technical.MACDWeight = 10
	}
	if c.Analysis.Technical.BollingerWeight <= 0 {
		c.Analysis.Technical.BollingerWeight = 10
	}
	if c.Analysis.Technical.RSIPeriod <= 0 {
		c.Analysis.Technical.RSIPeriod = 14
	}
	if c.Analysis.Technical.BollingerPeriod <= 0 {
		c.Analysis.Technical.BollingerPeriod = 20
	}
	if c.Analysis.Liquidation.Weight <= 0 {
		c.Analysis.Liquidation.Weight = 10
	}
	if c.Analysis.WatchSeconds <= 0 {
		c.Analysis.WatchSeconds = 60
	}

	if c.Backtest.EntryThreshold <= 0 {
		c.Backtest.EntryThreshold = 20
	}
	if c.Backtest.ReversalThreshold <= 0 {
		c.Backtest.ReversalThreshold = 5
	}
	if c.Backtest.StopLossPercent <= 0 {
		c.Backtest.StopLossPercent = 3
	}
	if c.Backtest.TakeProfitPercent <= 0 {
		c.Backtest.TakeProfitPercent = 6
	}
	if c.Backtest.ExecutionLag <= 0 {
		c.Backtest.ExecutionLag = 1
	}
	if c.Backtest.MinCandles <= 0 {
		c.Backtest.MinCandles = 50
	}

	if c.Sources.FearGreedURL == "" {
		c.Sources.FearGreedURL = "https://api.alternative.me/fng/?limit=1"
	}
	if c.Sources.TimeoutSeconds <= 0 {
		c.Sources.TimeoutSeconds = 10
	}
	if c.Sources.MaxRetries <= 0 {
		c.Sources.MaxRetries = 3
	}

	if c.UI.RefreshRate <= 0 {
		c.UI.RefreshRate = 500
	}
}
