package service

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// percentOf returns part/whole*100 rounded to cents, or zero when whole <= 0.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func sumBy[T any](items []T, keep func(T) bool, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if keep == nil || keep(item) {
			total = total.Add(amount(item))
		}
	}
	return total
}
