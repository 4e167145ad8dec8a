package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения
type Config struct {
	Telegram TelegramConfig
	Oracle   OracleConfig
	Metrics  MetricsConfig
	LogLevel string
}

type TelegramConfig struct {
	BotToken string
}

type OracleConfig struct {
	BinanceBaseURL string
	BybitBaseURL   string
	OKXBaseURL     string
	Timeout        time.Duration
	CacheTTL       time.Duration
}

type MetricsConfig struct {
	Addr string // пустой addr отключает сервер метрик
}

// Load загружает конфигурацию из .env файла и окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	oracleTimeout, err := time.ParseDuration(getEnv("ORACLE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORACLE_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("ORACLE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORACLE_CACHE_TTL: %w", err)
	}

	config := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Oracle: OracleConfig{
			BinanceBaseURL: getEnv("BINANCE_BASE_URL", "https://api.binance.com"),
			BybitBaseURL:   getEnv("BYBIT_BASE_URL", "https://api.bybit.com"),
			OKXBaseURL:     getEnv("OKX_BASE_URL", "https://www.okx.com"),
			Timeout:        oracleTimeout,
			CacheTTL:       cacheTTL,
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ":9090"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate проверяет обязательные поля конфигурации
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
