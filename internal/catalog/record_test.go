package catalog

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProduct() Product {
	return Product{
		Name:                   "Bolo de pote",
		CostMode:               Recipe,
		TotalInvestment:        42.37,
		VariableExpenses:       6.1,
		YieldUnits:             12,
		IngredientsDescription: "  [*] Farinha: 500g x R$ 6.00/kg = R$ 3.00\n",
		UseSimplifiedTax:       true,
		TaxPercent:             4,
		CardFeePercent:         3.19,
		DesiredProfitPercent:   35,
		UnitCost:               4.122500000000001,
		FinalPrice:             5.984516129032258,
	}
}

func TestProductRecordRoundTrip(t *testing.T) {
	p := sampleProduct()
	data, err := EncodeProduct(p)
	require.NoError(t, err)

	got, err := DecodeProduct(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProductRecordRoundTrip_NormalizedName(t *testing.T) {
	p := sampleProduct()
	p.Name = NormalizeName("  Pa\u0303o de mel ")
	data, err := EncodeProduct(p)
	require.NoError(t, err)

	got, err := DecodeProduct(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Equal(t, "P\u00e3o de mel", got.Name)
}

func TestEncodeProductIsCanonical(t *testing.T) {
	data, err := EncodeProduct(Product{Name: "X", CostMode: DirectCost, DirectUnitCost: 2})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"card_fee_percent":0,"cost_mode":1,`), string(data))
	assert.Contains(t, string(data), `"v":1`)
}

func TestEncodeProductFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr error
	}{
		{"empty name", func(p *Product) { p.Name = "" }, ErrEmptyName},
		{"long name", func(p *Product) { p.Name = strings.Repeat("x", MaxNameBytes+1) }, ErrRecordTooLarge},
		{"long description", func(p *Product) {
			p.IngredientsDescription = strings.Repeat("x", MaxDescriptionBytes+1)
		}, ErrRecordTooLarge},
		{"bad mode", func(p *Product) { p.CostMode = 0 }, ErrInvalidMode},
		{"NaN price", func(p *Product) { p.FinalPrice = math.NaN() }, ErrNotFinite},
		{"decomposed name", func(p *Product) { p.Name = "Pa\u0303o" }, ErrNotNormalized},
		{"decomposed description", func(p *Product) {
			p.IngredientsDescription = "- Pa\u0303o: 1 un x R$ 2.00 = R$ 2.00\n"
		}, ErrNotNormalized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProduct()
			tt.mutate(&p)
			_, err := EncodeProduct(p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeProductRejects(t *testing.T) {
	_, err := DecodeProduct([]byte(`{"v":2,"name":"x","cost_mode":1}`))
	assert.ErrorContains(t, err, "unsupported record version")

	_, err = DecodeProduct([]byte(`{"v":1,"name":"x","cost_mode":9}`))
	assert.ErrorIs(t, err, ErrInvalidMode)

	_, err = DecodeProduct([]byte(`{"v":1,`))
	assert.Error(t, err)
}

func TestConfigRecordRoundTrip(t *testing.T) {
	cfg := Config{WaterCost: 30, ElectricityCost: 70.35, GasCost: 0, MonthlyProductionUnits: 1000}
	data, err := EncodeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, `{"electricity_cost":70.35,"gas_cost":0,"monthly_production_units":1000,"v":1,"water_cost":30}`, string(data))

	got, err := DecodeConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEncodeConfigRejectsInf(t *testing.T) {
	_, err := EncodeConfig(Config{GasCost: math.Inf(-1)})
	assert.ErrorIs(t, err, ErrNotFinite)
}
