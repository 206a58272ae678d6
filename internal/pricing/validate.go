package pricing

import "math"

// Percentage bounds.
const (
	// MaxPercent is the upper clamp for each individual percentage.
	MaxPercent = 99.0

	// RescaledSum is the target sum when tax + card fee reach MaxPercent.
	RescaledSum = 98.0

	// SimplifiedTaxPercent is the fixed tax rate of the MEI regime.
	SimplifiedTaxPercent = 4.0
)

// Percentages are the three operator-entered rates of a product.
type Percentages struct {
	Tax     float64 `json:"tax_percent"`
	CardFee float64 `json:"card_fee_percent"`
	Profit  float64 `json:"desired_profit_percent"`
}

// ValidatePercentages clamps each rate to [0, MaxPercent] and, when tax and
// card fee together reach MaxPercent, rescales both so they sum to
// RescaledSum while keeping their ratio. The second result reports whether
// anything changed.
//
// The result always satisfies Tax+CardFee < MaxPercent, so the price
// denominator (1 - total/100) stays positive. Applying it to its own output
// changes nothing.
func ValidatePercentages(in Percentages) (Percentages, bool) {
	out := in
	adjusted := false

	for _, v := range []*float64{&out.Tax, &out.CardFee, &out.Profit} {
		clamped := clamp(*v, 0, MaxPercent)
		if clamped != *v {
			*v = clamped
			adjusted = true
		}
	}

	if sum := out.Tax + out.CardFee; sum >= MaxPercent {
		if sum > 0 {
			out.Tax = out.Tax * RescaledSum / sum
			out.CardFee = out.CardFee * RescaledSum / sum
		} else {
			out.Tax, out.CardFee = 0, 0
		}
		adjusted = true
	}

	return out, adjusted
}

// clamp limits v to [lo, hi]. NaN is treated as lo.
func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
