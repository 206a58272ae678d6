package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePercentages_InRangeUnchanged(t *testing.T) {
	in := Percentages{Tax: 6, CardFee: 3.5, Profit: 40}
	out, adjusted := ValidatePercentages(in)
	assert.False(t, adjusted)
	assert.Equal(t, in, out)
}

func TestValidatePercentages_Clamps(t *testing.T) {
	tests := []struct {
		name string
		in   Percentages
		want Percentages
	}{
		{"negative tax", Percentages{Tax: -5, CardFee: 2, Profit: 10}, Percentages{Tax: 0, CardFee: 2, Profit: 10}},
		{"negative card fee", Percentages{Tax: 5, CardFee: -2, Profit: 10}, Percentages{Tax: 5, CardFee: 0, Profit: 10}},
		{"negative profit", Percentages{Tax: 5, CardFee: 2, Profit: -10}, Percentages{Tax: 5, CardFee: 2, Profit: 0}},
		{"profit above max", Percentages{Tax: 5, CardFee: 2, Profit: 250}, Percentages{Tax: 5, CardFee: 2, Profit: 99}},
		{"NaN profit", Percentages{Tax: 5, CardFee: 2, Profit: math.NaN()}, Percentages{Tax: 5, CardFee: 2, Profit: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, adjusted := ValidatePercentages(tt.in)
			assert.True(t, adjusted)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestValidatePercentages_RescalesPreservingRatio(t *testing.T) {
	out, adjusted := ValidatePercentages(Percentages{Tax: 60, CardFee: 50, Profit: 30})
	require.True(t, adjusted)
	assert.InDelta(t, 53.4545, out.Tax, 1e-4)
	assert.InDelta(t, 44.5454, out.CardFee, 1e-4)
	assert.InDelta(t, RescaledSum, out.Tax+out.CardFee, 1e-9)
	assert.InDelta(t, 60.0/50.0, out.Tax/out.CardFee, 1e-9)
	assert.Equal(t, 30.0, out.Profit)
}

func TestValidatePercentages_BoundaryAt99(t *testing.T) {
	out, adjusted := ValidatePercentages(Percentages{Tax: 49.5, CardFee: 49.5})
	require.True(t, adjusted, "a sum of exactly 99 must be rescaled")
	assert.InDelta(t, 49.0, out.Tax, 1e-9)
	assert.InDelta(t, 49.0, out.CardFee, 1e-9)

	out, adjusted = ValidatePercentages(Percentages{Tax: 49.4, CardFee: 49.5})
	assert.False(t, adjusted)
	assert.Equal(t, 49.4, out.Tax)
}

func TestValidatePercentages_BothAboveMax(t *testing.T) {
	out, adjusted := ValidatePercentages(Percentages{Tax: 500, CardFee: 120})
	require.True(t, adjusted)
	assert.InDelta(t, 49.0, out.Tax, 1e-9)
	assert.InDelta(t, 49.0, out.CardFee, 1e-9)
}

func TestValidatePercentages_Properties(t *testing.T) {
	values := []float64{-50, -0.5, 0, 0.01, 1, 4, 12.5, 33.3, 49.5, 50, 60, 98, 98.99, 99, 99.01, 150, 1e9}
	for _, tax := range values {
		for _, fee := range values {
			in := Percentages{Tax: tax, CardFee: fee, Profit: tax}
			out, adjusted := ValidatePercentages(in)

			assert.GreaterOrEqual(t, out.Tax, 0.0)
			assert.LessOrEqual(t, out.Tax, MaxPercent)
			assert.GreaterOrEqual(t, out.CardFee, 0.0)
			assert.LessOrEqual(t, out.CardFee, MaxPercent)
			assert.Less(t, out.Tax+out.CardFee, MaxPercent, "tax=%v fee=%v", tax, fee)

			inRange := tax >= 0 && tax <= MaxPercent && fee >= 0 && fee <= MaxPercent
			if inRange && tax+fee < MaxPercent {
				assert.False(t, adjusted, "tax=%v fee=%v", tax, fee)
				assert.Equal(t, in, out)
			}

			again, adjustedAgain := ValidatePercentages(out)
			assert.False(t, adjustedAgain, "second pass must be a no-op: tax=%v fee=%v", tax, fee)
			assert.Equal(t, out, again)
		}
	}
}
