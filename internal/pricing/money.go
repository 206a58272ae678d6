package pricing

import "github.com/shopspring/decimal"

// CurrencySymbol prefixes rendered amounts.
const CurrencySymbol = "R$"

// RoundCents rounds v to two decimal places, half away from zero.
// Used for display and export only; computation keeps full precision.
func RoundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatMoney renders v as "R$ 7.13".
func FormatMoney(v float64) string {
	return CurrencySymbol + " " + decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPercent renders v as "4.00%".
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}
