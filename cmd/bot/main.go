package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"github.com/romanzzaa/crypto-price-notifier/internal/bot"
	"github.com/romanzzaa/crypto-price-notifier/internal/config"
	"github.com/romanzzaa/crypto-price-notifier/internal/infrastructure/coinmarketcap"
	"github.com/romanzzaa/crypto-price-notifier/internal/registry"
	"github.com/romanzzaa/crypto-price-notifier/internal/usecase"
	"github.com/romanzzaa/crypto-price-notifier/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	cmcClient := coinmarketcap.NewClient(
		cfg.CoinMarketCap.APIURL,
		cfg.CoinMarketCap.Token,
		cfg.CoinMarketCap.Timeout,
		logger,
	)

	// Long-poll GetUpdates держит соединение до 60 секунд, таймаут
	// клиента обязан быть больше - но зависший TCP все равно обрубается.
	tgBot, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.Token, tgbotapi.APIEndpoint, &http.Client{
		Timeout: 90 * time.Second,
	})
	if err != nil {
		logger.Error("failed to init telegram bot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tgBot.Debug = false
	logger.Info("Telegram bot authorized", slog.String("username", tgBot.Self.UserName))

	subscriptions := registry.New()
	sender := bot.NewSender(tgBot, logger)
	checker := usecase.NewCheckService(subscriptions, cmcClient, sender, logger)
	scheduler := worker.NewScheduler(checker, cfg.Poll.Interval, logger)
	handler := bot.NewHandler(tgBot, subscriptions, cmcClient, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting bot...",
		slog.Duration("poll_interval", cfg.Poll.Interval))

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return scheduler.Run(groupCtx) })
	group.Go(func() error { return handler.Run(groupCtx) })

	if err := group.Wait(); err != nil {
		logger.Error("stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Bot stopped gracefully")
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
