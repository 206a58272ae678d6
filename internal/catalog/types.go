package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Errors returned by model validation and the Catalog collection.
var (
	ErrEmptyName      = errors.New("product name is empty")
	ErrInvalidMode    = errors.New("invalid cost mode")
	ErrInvalidCost    = errors.New("invalid cost")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrCapacity       = fmt.Errorf("product limit of %d reached", MaxProducts)
	ErrNoSuchProduct  = errors.New("no such product")
	ErrNotFinite      = errors.New("value is not a finite number")
	ErrRecordTooLarge = errors.New("record field exceeds its bound")
	ErrNotNormalized  = errors.New("text is not NFC normalized")
)

// CostMode selects how the base unit cost of a product is derived.
type CostMode int

const (
	// DirectCost uses the operator-supplied unit cost.
	DirectCost CostMode = 1
	// Recipe divides ingredient investment and variable expenses by the yield.
	Recipe CostMode = 2
)

// Valid reports whether m is one of the known modes.
func (m CostMode) Valid() bool {
	return m == DirectCost || m == Recipe
}

func (m CostMode) String() string {
	switch m {
	case DirectCost:
		return "direct"
	case Recipe:
		return "recipe"
	default:
		return fmt.Sprintf("CostMode(%d)", int(m))
	}
}

// ParseCostMode accepts "direct" or "recipe".
func ParseCostMode(s string) (CostMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "1":
		return DirectCost, nil
	case "recipe", "2":
		return Recipe, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Config holds the fixed monthly overhead apportioned across production.
// The zero value is the default when nothing has been persisted.
type Config struct {
	WaterCost              float64 `json:"water_cost"`
	ElectricityCost        float64 `json:"electricity_cost"`
	GasCost                float64 `json:"gas_cost"`
	MonthlyProductionUnits int     `json:"monthly_production_units"`
}

// FixedTotal is the sum of the monthly fixed expenses.
func (c Config) FixedTotal() float64 {
	return c.WaterCost + c.ElectricityCost + c.GasCost
}

// Validate rejects negative or non-finite values.
func (c Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"water_cost", c.WaterCost},
		{"electricity_cost", c.ElectricityCost},
		{"gas_cost", c.GasCost},
	} {
		if !isFinite(f.v) {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, f.name, ErrNotFinite))
		} else if f.v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, f.name))
		}
	}
	if c.MonthlyProductionUnits < 0 {
		errs = append(errs, fmt.Errorf("%w: monthly_production_units must not be negative", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Product is one priced item of the catalog.
//
// UnitCost and FinalPrice are derived by the pricing engine and are
// recomputed on every run; they are never edited directly.
type Product struct {
	Name                   string   `json:"name"`
	CostMode               CostMode `json:"cost_mode"`
	DirectUnitCost         float64  `json:"direct_unit_cost"`
	TotalInvestment        float64  `json:"total_investment"`
	VariableExpenses       float64  `json:"variable_expenses"`
	YieldUnits             int      `json:"yield_units"`
	IngredientsDescription string   `json:"ingredients_description"`
	UseSimplifiedTax       bool     `json:"use_simplified_tax"`
	TaxPercent             float64  `json:"tax_percent"`
	CardFeePercent         float64  `json:"card_fee_percent"`
	DesiredProfitPercent   float64  `json:"desired_profit_percent"`
	UnitCost               float64  `json:"unit_cost"`
	FinalPrice             float64  `json:"final_price"`
}

// Validate checks the operator-supplied fields of p. Percentages are not
// checked here; the pricing engine clamps them.
func (p Product) Validate() error {
	var errs []error
	if NormalizeName(p.Name) == "" {
		errs = append(errs, ErrEmptyName)
	}
	if !p.CostMode.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMode, int(p.CostMode)))
	}
	switch p.CostMode {
	case DirectCost:
		if !isFinite(p.DirectUnitCost) || p.DirectUnitCost <= 0 {
			errs = append(errs, fmt.Errorf("%w: direct unit cost must be greater than zero", ErrInvalidCost))
		}
	case Recipe:
		if !isFinite(p.TotalInvestment) || p.TotalInvestment < 0 {
			errs = append(errs, fmt.Errorf("%w: total investment must not be negative", ErrInvalidCost))
		}
		if !isFinite(p.VariableExpenses) || p.VariableExpenses < 0 {
			errs = append(errs, fmt.Errorf("%w: variable expenses must not be negative", ErrInvalidCost))
		}
	}
	for _, v := range []float64{p.TaxPercent, p.CardFeePercent, p.DesiredProfitPercent} {
		if !isFinite(v) {
			errs = append(errs, fmt.Errorf("percentage: %w", ErrNotFinite))
			break
		}
	}
	return errors.Join(errs...)
}

// IngredientPricing selects how an ingredient's price is quoted.
type IngredientPricing int

const (
	// PerWeight prices are per kilogram and quantities are grams.
	PerWeight IngredientPricing = 1
	// PerUnit prices are per unit and quantities are units.
	PerUnit IngredientPricing = 2
)

func (p IngredientPricing) String() string {
	switch p {
	case PerWeight:
		return "kg"
	case PerUnit:
		return "unit"
	default:
		return fmt.Sprintf("IngredientPricing(%d)", int(p))
	}
}

// Ingredient is one line of a recipe.
type Ingredient struct {
	Name     string            `json:"name"`
	Pricing  IngredientPricing `json:"pricing"`
	Price    float64           `json:"price"`
	Quantity float64           `json:"quantity"`
}

// NormalizeName trims surrounding whitespace, applies NFC normalization and
// truncates to MaxNameBytes on a rune boundary.
func NormalizeName(s string) string {
	return truncate(norm.NFC.String(strings.TrimSpace(s)), MaxNameBytes)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
