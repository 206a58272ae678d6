package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{7.129032258064516, "R$ 7.13"},
		{0, "R$ 0.00"},
		{1.005, "R$ 1.01"},
		{1234.5, "R$ 1234.50"},
		{0.125, "R$ 0.13"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.in), "FormatMoney(%v)", tt.in)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "4.00%", FormatPercent(4))
	assert.Equal(t, "53.45%", FormatPercent(53.45454545))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 7.13, RoundCents(7.129032258064516))
	assert.Equal(t, 0.13, RoundCents(0.125))
	assert.Equal(t, -0.13, RoundCents(-0.125))
}
