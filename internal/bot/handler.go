package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/romanzzaa/crypto-price-notifier/internal/domain"
	"github.com/romanzzaa/crypto-price-notifier/internal/registry"
)

// Handler принимает команды из Telegram и транслирует их в операции
// над реестром подписок.
type Handler struct {
	bot      *tgbotapi.BotAPI
	registry *registry.Registry
	source   domain.PriceSource
	logger   *slog.Logger
}

func NewHandler(
	api *tgbotapi.BotAPI,
	reg *registry.Registry,
	source domain.PriceSource,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		bot:      api,
		registry: reg,
		source:   source,
		logger:   logger,
	}
}

// Run крутит long-poll до отмены контекста. Каждое входящее сообщение
// обрабатывается в своей горутине: команды разных чатов не ждут друг друга.
func (h *Handler) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		h.bot.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		go h.handleMessage(ctx, update.Message)
	}

	return nil
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		h.sendHelp(msg.Chat.ID, unknownCommand)
		return
	}

	switch msg.Command() {
	case "start":
		h.sendHelp(msg.Chat.ID, startGreeting)
	case "help":
		h.sendHelp(msg.Chat.ID, "")
	case "subscribe":
		h.cmdSubscribe(ctx, msg)
	case "subscriptions":
		h.cmdSubscriptions(msg)
	default:
		h.sendHelp(msg.Chat.ID, unknownCommand)
	}
}

// --- Commands ---

func (h *Handler) cmdSubscribe(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	asset, pair, removal, err := parseSubscribeArgs(msg.CommandArguments())
	if err != nil {
		h.logger.Warn("invalid subscribe arguments",
			slog.Int64("chat_id", chatID),
			slog.String("args", msg.CommandArguments()))
		h.send(chatID, formatErrorText)
		return
	}

	if removal {
		h.deleteSubscription(asset, chatID)
		return
	}

	exists, err := h.source.AssetExists(ctx, asset)
	if err != nil {
		h.logger.Error("asset lookup failed",
			slog.String("asset", asset),
			slog.String("err", err.Error()))
	}
	if err != nil || !exists {
		h.send(chatID, assetNotFoundText(asset))
		return
	}

	h.registry.Upsert(asset, chatID, pair)

	h.logger.Info("subscription updated",
		slog.Int64("chat_id", chatID),
		slog.String("asset", asset),
		slog.String("min", pair.Min.String()),
		slog.String("max", pair.Max.String()))

	h.send(chatID, subscriptionUpdatedText(asset, pair))
}

func (h *Handler) deleteSubscription(asset string, chatID int64) {
	if err := h.registry.Remove(asset, chatID); err != nil {
		h.send(chatID, subscriptionNotFoundText(asset))
		return
	}

	h.logger.Info("subscription deleted",
		slog.Int64("chat_id", chatID),
		slog.String("asset", asset))

	h.send(chatID, subscriptionDeletedText(asset))
}

func (h *Handler) cmdSubscriptions(msg *tgbotapi.Message) {
	var lines []string
	for asset, pair := range h.registry.ListFor(msg.Chat.ID) {
		lines = append(lines, subscriptionLine(asset, pair))
	}

	if len(lines) == 0 {
		h.send(msg.Chat.ID, noSubscriptionsText)
		return
	}

	// Реестр не гарантирует порядок - сортируем для стабильного вывода.
	sort.Strings(lines)

	h.send(msg.Chat.ID, "Ваши текущие подписки:\n"+strings.Join(lines, "\n"))
}

// --- Helpers ---

// parseSubscribeArgs разбирает "<АКТИВ> <минимум> <максимум>".
// Символ приводится к верхнему регистру, пороги - числа. Оба порога
// ровно ноль - это запрос на удаление; решаем по сырым значениям,
// до округления к рабочей точности.
func parseSubscribeArgs(raw string) (string, domain.ThresholdPair, bool, error) {
	parts := strings.Fields(raw)
	if len(parts) != 3 {
		return "", domain.ThresholdPair{}, false, fmt.Errorf("expected 3 arguments, got %d", len(parts))
	}

	asset := strings.ToUpper(parts[0])

	min, err := decimal.NewFromString(parts[1])
	if err != nil {
		return "", domain.ThresholdPair{}, false, fmt.Errorf("invalid min threshold: %w", err)
	}
	max, err := decimal.NewFromString(parts[2])
	if err != nil {
		return "", domain.ThresholdPair{}, false, fmt.Errorf("invalid max threshold: %w", err)
	}

	if min.IsZero() && max.IsZero() {
		return asset, domain.ThresholdPair{}, true, nil
	}

	return asset, domain.NewThresholdPair(min, max), false, nil
}

func (h *Handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("failed to send reply",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()))
	}
}

// sendHelp отвечает справкой в MarkdownV2, как исходный бот.
func (h *Handler) sendHelp(chatID int64, prepend string) {
	msg := tgbotapi.NewMessage(chatID, helpMessage(prepend))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("failed to send help",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()))
	}
}
