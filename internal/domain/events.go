package domain

import "github.com/shopspring/decimal"

// Direction - направление пробоя порога.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

// CrossingEvent - факт пробоя порога на одном тике опроса.
// Живет только внутри тика: создали, доставили уведомление, забыли.
type CrossingEvent struct {
	Asset     string
	ChatID    int64
	Price     decimal.Decimal
	Direction Direction
}
