package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillm/hedge-bot/internal/config"
	"github.com/kirillm/hedge-bot/internal/controller"
	"github.com/kirillm/hedge-bot/internal/domain"
	"github.com/kirillm/hedge-bot/internal/metrics"
	"github.com/kirillm/hedge-bot/internal/oracle"
	"github.com/kirillm/hedge-bot/internal/store"
	"github.com/kirillm/hedge-bot/internal/telegram"
	"github.com/kirillm/hedge-bot/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Spot Hedging Bot...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Клиенты бирж за кэширующей прослойкой: при сбое API отдаем
	// последнюю известную цену, пока она не устарела
	venues := map[domain.Venue]oracle.PriceSource{
		domain.VenueBinance: oracle.NewCachingSource(oracle.NewBinanceClient(cfg.Oracle.BinanceBaseURL), cfg.Oracle.CacheTTL),
		domain.VenueBybit:   oracle.NewCachingSource(oracle.NewBybitClient(cfg.Oracle.BybitBaseURL), cfg.Oracle.CacheTTL),
		domain.VenueOKX:     oracle.NewCachingSource(oracle.NewOKXClient(cfg.Oracle.OKXBaseURL), cfg.Oracle.CacheTTL),
	}
	priceOracle := oracle.NewOracle(venues, cfg.Oracle.Timeout, logger)

	sessions := store.NewSessionStore()
	ctrl := controller.New(sessions, priceOracle, logger)

	formatter := telegram.NewFormatter(telegram.LangEN)
	handlers := telegram.NewHandlers(ctrl, formatter)

	bot, err := telegram.NewBot(cfg.Telegram.BotToken, logger, handlers, formatter)
	if err != nil {
		logger.Error("Failed to start telegram bot: %v", err)
		os.Exit(1)
	}

	if cfg.Metrics.Addr != "" {
		metrics.Serve(ctx, cfg.Metrics.Addr, logger)
	}

	bot.Start(ctx)

	logger.Info("Shutdown complete")
}
