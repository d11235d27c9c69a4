package service

import "github.com/shopspring/decimal"

// Currency precision is two decimal places. decimal.Round rounds half away
// from zero; all amounts here are non-negative, so every subtotal, tax,
// total and line price is rounded half-up by the same rule and a one-cent
// mismatch between them cannot occur.
const currencyPlaces = 2

func roundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(currencyPlaces)
}

func toAmount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
