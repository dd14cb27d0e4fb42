package bot

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender доставляет уведомления о пробоях порогов. Реализует domain.Notifier.
// Доставка без ретраев: ошибка уходит вызывающему на лог и забывается.
type Sender struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

func NewSender(api *tgbotapi.BotAPI, logger *slog.Logger) *Sender {
	return &Sender{
		bot:    api,
		logger: logger,
	}
}

func (s *Sender) NotifyUser(chatID int64, text string) error {
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}

	s.logger.Debug("message delivered", slog.Int64("chat_id", chatID))
	return nil
}
