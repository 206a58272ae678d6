package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sipri/internal/catalog"
)

var bakeryConfig = catalog.Config{
	WaterCost:              30,
	ElectricityCost:        70,
	GasCost:                0,
	MonthlyProductionUnits: 1000,
}

func directProduct() catalog.Product {
	return catalog.Product{
		Name:                 "Pão de mel",
		CostMode:             catalog.DirectCost,
		DirectUnitCost:       5.00,
		TaxPercent:           4,
		CardFeePercent:       3,
		DesiredProfitPercent: 30,
	}
}

func TestApportionment(t *testing.T) {
	assert.InDelta(t, 0.10, Apportionment(bakeryConfig), 1e-12)

	noUnits := bakeryConfig
	noUnits.MonthlyProductionUnits = 0
	assert.Equal(t, 0.0, Apportionment(noUnits))

	noUnits.WaterCost, noUnits.ElectricityCost, noUnits.GasCost = 1e6, 2e6, 3e6
	assert.Equal(t, 0.0, Apportionment(noUnits))
}

func TestCompute_DirectCostExample(t *testing.T) {
	res := Compute(directProduct(), bakeryConfig)

	assert.False(t, res.Adjusted)
	assert.InDelta(t, 5.00, res.Breakdown.BaseUnitCost, 1e-9)
	assert.InDelta(t, 0.10, res.Breakdown.Apportioned, 1e-9)
	assert.InDelta(t, 5.10, res.Product.UnitCost, 1e-9)
	assert.InDelta(t, 1.53, res.Breakdown.ProfitAmount, 1e-9)
	assert.InDelta(t, 6.63, res.Breakdown.PriceWithProfit, 1e-9)
	assert.InDelta(t, 7.0, res.Breakdown.TotalPercent, 1e-9)
	assert.InDelta(t, 6.63/0.93, res.Product.FinalPrice, 1e-9)
	assert.Equal(t, "R$ 7.13", FormatMoney(res.Product.FinalPrice))
	assert.Equal(t, res.Breakdown.FinalPrice, res.Product.FinalPrice)
}

func TestCompute_RecipeMode(t *testing.T) {
	p := catalog.Product{
		Name:                 "Brigadeiro",
		CostMode:             catalog.Recipe,
		TotalInvestment:      24,
		VariableExpenses:     6,
		YieldUnits:           30,
		DesiredProfitPercent: 50,
	}
	res := Compute(p, catalog.Config{})

	assert.InDelta(t, 1.0, res.Product.UnitCost, 1e-9)
	assert.InDelta(t, 1.5, res.Product.FinalPrice, 1e-9)
	assert.Equal(t, 30, res.Product.YieldUnits)
}

func TestCompute_RecipeYieldForcedToOne(t *testing.T) {
	for _, yield := range []int{0, -4} {
		p := catalog.Product{Name: "x", CostMode: catalog.Recipe, TotalInvestment: 10, VariableExpenses: 2, YieldUnits: yield}
		res := Compute(p, catalog.Config{})
		assert.Equal(t, 1, res.Product.YieldUnits)
		assert.InDelta(t, 12.0, res.Product.UnitCost, 1e-9)
	}
}

func TestCompute_DirectModeIgnoresRecipeFields(t *testing.T) {
	p := directProduct()
	p.TotalInvestment = 999
	p.YieldUnits = 0
	res := Compute(p, catalog.Config{})
	assert.InDelta(t, 5.0, res.Product.UnitCost, 1e-9)
	assert.Equal(t, 0, res.Product.YieldUnits)
}

func TestCompute_SimplifiedTaxOverridesManualRate(t *testing.T) {
	p := directProduct()
	p.UseSimplifiedTax = true
	p.TaxPercent = 27.5

	res := Compute(p, bakeryConfig)
	assert.Equal(t, SimplifiedTaxPercent, res.Product.TaxPercent)
	assert.False(t, res.Adjusted, "forcing the regime rate is not a correction")
	assert.Equal(t, SimplifiedTaxPercent, res.Entered.Tax)
}

func TestCompute_SimplifiedTaxWithExcessiveCardFee(t *testing.T) {
	p := directProduct()
	p.UseSimplifiedTax = true
	p.CardFeePercent = 97

	first := Compute(p, catalog.Config{})
	require.True(t, first.Adjusted)
	assert.Equal(t, SimplifiedTaxPercent, first.Product.TaxPercent)
	assert.InDelta(t, RescaledSum-SimplifiedTaxPercent, first.Product.CardFeePercent, 1e-9)

	second := Compute(first.Product, catalog.Config{})
	assert.False(t, second.Adjusted)
	assert.Equal(t, first.Product, second.Product)
}

func TestCompute_RescaleWarnsAndKeepsDenominatorPositive(t *testing.T) {
	p := directProduct()
	p.TaxPercent = 60
	p.CardFeePercent = 50

	res := Compute(p, catalog.Config{})
	require.True(t, res.Adjusted)
	assert.Equal(t, 60.0, res.Entered.Tax)
	assert.Equal(t, 50.0, res.Entered.CardFee)
	assert.InDelta(t, 53.4545, res.Product.TaxPercent, 1e-4)
	assert.InDelta(t, 44.5454, res.Product.CardFeePercent, 1e-4)
	assert.InDelta(t, 98.0, res.Breakdown.TotalPercent, 1e-9)
	assert.InDelta(t, 5.0*1.3/0.02, res.Product.FinalPrice, 1e-6)
}

func TestCompute_Idempotent(t *testing.T) {
	inputs := []catalog.Product{
		directProduct(),
		{Name: "r", CostMode: catalog.Recipe, TotalInvestment: 17.3, VariableExpenses: 1.1, YieldUnits: 7, TaxPercent: 120, CardFeePercent: -3, DesiredProfitPercent: 45},
		{Name: "d", CostMode: catalog.DirectCost, DirectUnitCost: 0.33, TaxPercent: 70, CardFeePercent: 70, DesiredProfitPercent: 99},
	}
	for _, p := range inputs {
		first := Compute(p, bakeryConfig)
		second := Compute(first.Product, bakeryConfig)
		assert.False(t, second.Adjusted, p.Name)
		assert.Equal(t, first.Product.UnitCost, second.Product.UnitCost, p.Name)
		assert.Equal(t, first.Product.FinalPrice, second.Product.FinalPrice, p.Name)
		assert.Equal(t, first.Product, second.Product, p.Name)
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	p := directProduct()
	p.TaxPercent = 150
	_ = Compute(p, bakeryConfig)
	assert.Equal(t, 150.0, p.TaxPercent)
	assert.Equal(t, 0.0, p.FinalPrice)
}
