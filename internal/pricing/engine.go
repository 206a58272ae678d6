package pricing

import "github.com/roach88/sipri/internal/catalog"

// Breakdown holds the intermediate values of one computation.
type Breakdown struct {
	BaseUnitCost    float64 `json:"base_unit_cost"`
	Apportioned     float64 `json:"apportioned"`
	UnitCost        float64 `json:"unit_cost"`
	ProfitAmount    float64 `json:"profit_amount"`
	PriceWithProfit float64 `json:"price_with_profit"`
	TotalPercent    float64 `json:"total_percent"`
	FinalPrice      float64 `json:"final_price"`
}

// Result is the output of Compute.
type Result struct {
	// Product is the input with yield, percentages and derived fields updated.
	Product catalog.Product `json:"product"`

	Breakdown Breakdown `json:"breakdown"`

	// Adjusted reports that percentage validation changed at least one rate.
	// Entered holds the rates as they were before validation.
	Adjusted bool        `json:"adjusted"`
	Entered  Percentages `json:"entered"`
}

// Apportionment spreads the fixed monthly overhead across the monthly
// production. Zero (or negative) production disables apportionment.
func Apportionment(cfg catalog.Config) float64 {
	if cfg.MonthlyProductionUnits <= 0 {
		return 0
	}
	return cfg.FixedTotal() / float64(cfg.MonthlyProductionUnits)
}

// BaseUnitCost returns the cost of one unit before overhead. Recipe yields
// below one count as one.
func BaseUnitCost(p catalog.Product) float64 {
	if p.CostMode != catalog.Recipe {
		return p.DirectUnitCost
	}
	yield := float64(max(p.YieldUnits, 1))
	return p.TotalInvestment/yield + p.VariableExpenses/yield
}

// Compute derives UnitCost and FinalPrice for p under cfg.
//
// It forces a recipe yield of at least one, applies the simplified tax rate
// when p.UseSimplifiedTax is set, validates the percentages and grosses the
// profit-marked price up so that tax and card fee are paid out of the final
// price. Compute is idempotent: running it on its own output yields the same
// product.
func Compute(p catalog.Product, cfg catalog.Config) Result {
	if p.CostMode == catalog.Recipe && p.YieldUnits < 1 {
		p.YieldUnits = 1
	}

	var b Breakdown
	b.BaseUnitCost = BaseUnitCost(p)
	b.Apportioned = Apportionment(cfg)
	b.UnitCost = b.BaseUnitCost + b.Apportioned
	p.UnitCost = b.UnitCost

	if p.UseSimplifiedTax {
		p.TaxPercent = SimplifiedTaxPercent
	}

	entered := Percentages{Tax: p.TaxPercent, CardFee: p.CardFeePercent, Profit: p.DesiredProfitPercent}
	valid, adjusted := ValidatePercentages(entered)
	if p.UseSimplifiedTax && valid.Tax != SimplifiedTaxPercent {
		// The regime pins the tax rate, so only the card fee absorbs the rescale.
		valid.Tax = SimplifiedTaxPercent
		valid.CardFee = RescaledSum - SimplifiedTaxPercent
	}
	p.TaxPercent, p.CardFeePercent, p.DesiredProfitPercent = valid.Tax, valid.CardFee, valid.Profit

	b.ProfitAmount = p.UnitCost * p.DesiredProfitPercent / 100
	b.PriceWithProfit = p.UnitCost + b.ProfitAmount

	b.TotalPercent = p.TaxPercent + p.CardFeePercent
	if b.TotalPercent >= MaxPercent {
		b.TotalPercent = RescaledSum
	}

	b.FinalPrice = b.PriceWithProfit / (1 - b.TotalPercent/100)
	p.FinalPrice = b.FinalPrice

	return Result{
		Product:   p,
		Breakdown: b,
		Adjusted:  adjusted,
		Entered:   entered,
	}
}
