package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/sipri/internal/catalog"
	"github.com/roach88/sipri/internal/history"
	"github.com/roach88/sipri/internal/pricing"
)

// ProductView is a product together with its catalog position.
type ProductView struct {
	Position int `json:"position"`
	catalog.Product
}

// QuoteView is the JSON payload of product add/edit/show and quote.
type QuoteView struct {
	ProductView
	Breakdown pricing.Breakdown `json:"breakdown"`
}

func views(products []catalog.Product) []ProductView {
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = ProductView{Position: i + 1, Product: p}
	}
	return out
}

func renderProductList(w io.Writer, products []ProductView) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products registered.")
		return
	}
	fmt.Fprintf(w, "%3s  %-30s  %-6s  %12s  %12s\n", "#", "NAME", "MODE", "UNIT COST", "FINAL PRICE")
	for _, v := range products {
		fmt.Fprintf(w, "%3d  %-30s  %-6s  %12s  %12s\n",
			v.Position,
			v.Name,
			v.CostMode,
			pricing.FormatMoney(v.UnitCost),
			pricing.FormatMoney(v.FinalPrice))
	}
	fmt.Fprintf(w, "\n%d of %d products\n", len(products), catalog.MaxProducts)
}

func renderProduct(w io.Writer, v ProductView, b pricing.Breakdown) {
	if v.Position > 0 {
		fmt.Fprintf(w, "Product #%d: %s\n", v.Position, v.Name)
	} else {
		fmt.Fprintf(w, "Quote: %s\n", v.Name)
	}

	line := func(label, value string) {
		fmt.Fprintf(w, "  %-20s %s\n", label+":", value)
	}

	switch v.CostMode {
	case catalog.Recipe:
		line("Mode", "recipe")
		line("Total investment", pricing.FormatMoney(v.TotalInvestment))
		line("Variable expenses", pricing.FormatMoney(v.VariableExpenses))
		line("Yield", fmt.Sprintf("%d units", v.YieldUnits))
	default:
		line("Mode", "direct")
	}
	line("Base unit cost", pricing.FormatMoney(b.BaseUnitCost))
	line("Overhead per unit", pricing.FormatMoney(b.Apportioned))
	line("Unit cost", pricing.FormatMoney(v.UnitCost))

	tax := pricing.FormatPercent(v.TaxPercent)
	if v.UseSimplifiedTax {
		tax += " (MEI)"
	}
	line("Tax", tax)
	line("Card fee", pricing.FormatPercent(v.CardFeePercent))
	line("Profit", pricing.FormatPercent(v.DesiredProfitPercent))
	line("Profit amount", pricing.FormatMoney(b.ProfitAmount))
	line("Price with profit", pricing.FormatMoney(b.PriceWithProfit))
	line("Final price", pricing.FormatMoney(v.FinalPrice))

	if desc := strings.TrimRight(v.IngredientsDescription, "\n"); desc != "" {
		fmt.Fprintln(w, "  Ingredients:")
		for _, l := range strings.Split(desc, "\n") {
			fmt.Fprintf(w, "    %s\n", l)
		}
	}
}

func renderConfig(w io.Writer, cfg catalog.Config) {
	fmt.Fprintf(w, "  %-20s %s\n", "Water:", pricing.FormatMoney(cfg.WaterCost))
	fmt.Fprintf(w, "  %-20s %s\n", "Electricity:", pricing.FormatMoney(cfg.ElectricityCost))
	fmt.Fprintf(w, "  %-20s %s\n", "Gas:", pricing.FormatMoney(cfg.GasCost))
	fmt.Fprintf(w, "  %-20s %s\n", "Fixed total:", pricing.FormatMoney(cfg.FixedTotal()))
	fmt.Fprintf(w, "  %-20s %d\n", "Monthly production:", cfg.MonthlyProductionUnits)
	fmt.Fprintf(w, "  %-20s %s\n", "Overhead per unit:", pricing.FormatMoney(pricing.Apportionment(cfg)))
}

func renderHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No price history.")
		return
	}
	fmt.Fprintf(w, "%-20s  %-7s  %3s  %-30s  %12s  %12s\n", "RECORDED", "EVENT", "#", "NAME", "UNIT COST", "FINAL PRICE")
	for _, e := range entries {
		fmt.Fprintf(w, "%-20s  %-7s  %3d  %-30s  %12s  %12s\n",
			e.RecordedAt.Format("2006-01-02 15:04:05"),
			e.Event,
			e.Position,
			e.ProductName,
			pricing.FormatMoney(e.UnitCost),
			pricing.FormatMoney(e.FinalPrice))
	}
}
