package domain

import (
	"github.com/shopspring/decimal"
)

// PricePrecision - до скольких знаков округляем пороги и котировки,
// чтобы сравнения не плыли между тиками опроса.
const PricePrecision = 12

// ThresholdPair - пороги подписки для одного (актив, чат).
// Нулевая граница = "не задана": по соглашению команды /subscribe
// ноль не является допустимым порогом.
type ThresholdPair struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// NewThresholdPair нормализует границы к рабочей точности.
func NewThresholdPair(min, max decimal.Decimal) ThresholdPair {
	return ThresholdPair{
		Min: min.Round(PricePrecision),
		Max: max.Round(PricePrecision),
	}
}

// IsEmpty - обе границы не заданы. Такая пара означает удаление подписки,
// а не подписку с нулевыми порогами.
func (p ThresholdPair) IsEmpty() bool {
	return p.Min.IsZero() && p.Max.IsZero()
}

func (p ThresholdPair) HasMin() bool { return !p.Min.IsZero() }
func (p ThresholdPair) HasMax() bool { return !p.Max.IsZero() }
