package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/romanzzaa/crypto-price-notifier/internal/domain"
)

// Evaluate сравнивает цену с порогами подписки.
// Приоритет у максимума: если заданы оба и цена попадает под оба
// (min > max - кривой, но допустимый ввод), отвечаем Up.
// Гистерезиса нет: пока цена за порогом, пробой фиксируется на каждом тике.
func Evaluate(price decimal.Decimal, pair domain.ThresholdPair) domain.Direction {
	if pair.HasMax() && price.GreaterThanOrEqual(pair.Max) {
		return domain.DirectionUp
	}
	if pair.HasMin() && price.LessThanOrEqual(pair.Min) {
		return domain.DirectionDown
	}
	return domain.DirectionNone
}
