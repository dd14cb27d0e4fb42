package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceSource - источник котировок (CoinMarketCap)
type PriceSource interface {
	// Вернуть последние цены в USD для набора символов одним запросом.
	// Символы, неизвестные источнику, в ответе просто отсутствуют - это не ошибка.
	GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)

	// Проверить, что источник вообще знает такой актив
	AssetExists(ctx context.Context, symbol string) (bool, error)
}

// Notifier - доставка уведомлений пользователю в Telegram
type Notifier interface {
	NotifyUser(chatID int64, text string) error
}
