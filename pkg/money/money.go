// Package money does price arithmetic on exact decimals and converts to the
// integer minor units payment providers expect.
package money

import "github.com/shopspring/decimal"

// ToMinorUnits converts a major-unit amount (e.g. 19.99) to minor units
// (1999), rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

// FromMinorUnits converts minor units back to a major-unit amount.
func FromMinorUnits(units int64) float64 {
	return decimal.New(units, -2).InexactFloat64()
}

// LineTotal returns the unit price rounded to cents, times quantity. This is
// the amount a provider charges for a line of ToMinorUnits(price) × quantity.
func LineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.New(ToMinorUnits(price), -2).Mul(decimal.NewFromInt(int64(quantity)))
}

// Sum adds amounts exactly and rounds the result to cents.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, amounts...).Round(2)
}

// Float returns d as a float64 rounded to cents.
func Float(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
