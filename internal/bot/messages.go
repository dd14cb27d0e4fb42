package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/romanzzaa/crypto-price-notifier/internal/domain"
)

// Тексты ответов бота

const (
	startGreeting  = "Привет! Я слежу за ценами криптовалют и предупреждаю о пробоях порогов."
	unknownCommand = "Я не понял эту команду."

	formatErrorText     = "Неверный формат. Нужно: /subscribe <АКТИВ> <минимум> <максимум>, пороги - числа."
	noSubscriptionsText = "У вас нет активных подписок."
)

// helpMessage собирает справку в MarkdownV2. Тело экранируется целиком,
// разметка остается только у заголовка.
func helpMessage(prepend string) string {
	esc := func(s string) string {
		return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
	}

	var sb strings.Builder
	if prepend != "" {
		sb.WriteString(esc(prepend))
		sb.WriteString("\n\n")
	}
	sb.WriteString("*" + esc("Доступные команды:") + "*\n")
	sb.WriteString(esc("/subscribe <АКТИВ> <минимум> <максимум> - подписаться на пороги цены (0 - порог не задан)") + "\n")
	sb.WriteString(esc("/subscribe <АКТИВ> 0 0 - удалить подписку") + "\n")
	sb.WriteString(esc("/subscriptions - показать текущие подписки") + "\n")
	sb.WriteString(esc("/help - показать эту справку") + "\n\n")
	sb.WriteString(esc("Пример: /subscribe BTC 25000 30000"))
	return sb.String()
}

func assetNotFoundText(asset string) string {
	return fmt.Sprintf("Криптовалюта %s не найдена.", asset)
}

func subscriptionDeletedText(asset string) string {
	return fmt.Sprintf("Подписка на %s удалена.", asset)
}

func subscriptionNotFoundText(asset string) string {
	return fmt.Sprintf("Подписка на %s не найдена.", asset)
}

func subscriptionUpdatedText(asset string, pair domain.ThresholdPair) string {
	return fmt.Sprintf("Обновлены пороги для %s: минимум %s, максимум %s",
		asset, formatBound(pair.Min), formatBound(pair.Max))
}

func subscriptionLine(asset string, pair domain.ThresholdPair) string {
	return fmt.Sprintf("%s: минимум %s, максимум %s",
		asset, formatBound(pair.Min), formatBound(pair.Max))
}

func formatBound(bound decimal.Decimal) string {
	if bound.IsZero() {
		return "не установлен"
	}
	return bound.String()
}
