package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sipri/internal/catalog"
	"github.com/roach88/sipri/internal/recipe"
)

// PricingFlags are the cost and percentage inputs shared by product add,
// product edit and quote.
type PricingFlags struct {
	Cost             float64
	Recipe           string
	VariableExpenses float64
	MEI              bool
	Tax              float64
	CardFee          float64
	Profit           float64
}

func (f *PricingFlags) register(cmd *cobra.Command, cardFeeDefault, profitDefault float64) {
	cmd.Flags().Float64Var(&f.Cost, "cost", 0, "direct unit cost")
	cmd.Flags().StringVar(&f.Recipe, "recipe", "", "recipe file (.yaml, .yml or .cue) to derive the cost from")
	cmd.Flags().Float64Var(&f.VariableExpenses, "variable-expenses", 0, "packaging, delivery and other per-batch costs (recipe mode)")
	cmd.Flags().BoolVar(&f.MEI, "mei", false, "simplified tax regime: forces a 4% tax rate")
	cmd.Flags().Float64Var(&f.Tax, "tax", 0, "tax percentage")
	cmd.Flags().Float64Var(&f.CardFee, "card-fee", cardFeeDefault, "card machine fee percentage")
	cmd.Flags().Float64Var(&f.Profit, "profit", profitDefault, "desired profit percentage")
	cmd.MarkFlagsMutuallyExclusive("cost", "recipe")
	cmd.MarkFlagsMutuallyExclusive("cost", "variable-expenses")
}

// applyRecipe loads the recipe file and fills the recipe-mode fields of p.
// recipe.ErrCanceled is returned unwrapped so callers can decide whether
// cancellation aborts the command.
func applyRecipe(p *catalog.Product, path string) error {
	r, err := recipe.Load(path)
	if err != nil {
		return err
	}
	res, err := r.Collect()
	if err != nil {
		return err
	}
	p.CostMode = catalog.Recipe
	p.TotalInvestment = res.TotalCost
	p.YieldUnits = res.YieldUnits
	p.IngredientsDescription = res.Description
	return nil
}

// recipeFailure maps a recipe error to the command's error output.
func recipeFailure(out *OutputFormatter, err error) error {
	if errors.Is(err, recipe.ErrCanceled) {
		return fail(out, ExitFailure, ErrCodeCanceled, "registration canceled: recipe has no ingredients", nil)
	}
	return fail(out, ExitCommandError, ErrCodeRecipe, "failed to load recipe", err)
}

// normalizeName trims and bounds name, warning when it had to be cut.
func (s *session) normalizeName(name string) string {
	n := catalog.NormalizeName(name)
	if len(norm.NFC.String(strings.TrimSpace(name))) > len(n) {
		s.warn("name truncated to %d bytes: %q", catalog.MaxNameBytes, n)
	}
	return n
}

func parsePosition(out *OutputFormatter, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fail(out, ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("invalid product number %q", arg), nil)
	}
	return n, nil
}
