package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sipri/internal/catalog"
	"github.com/roach88/sipri/internal/pricing"
)

// Quote defaults match a typical card machine and a 30% markup.
const (
	defaultQuoteCardFee = 2.0
	defaultQuoteProfit  = 30.0
)

// QuoteOptions holds flags for the quote command.
type QuoteOptions struct {
	*RootOptions
	PricingFlags
	Name string
}

// NewQuoteCommand creates the quote command.
func NewQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QuoteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a product without registering it",
		Long: `Compute a price with the current overhead config without touching the
catalog or the price history.

Examples:
  sipri quote --cost 5
  sipri quote --recipe bolo.cue --variable-expenses 4 --mei --profit 40`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "quote", "label shown in the output")
	opts.PricingFlags.register(cmd, defaultQuoteCardFee, defaultQuoteProfit)
	cmd.MarkFlagsOneRequired("cost", "recipe")

	return cmd
}

func runQuote(opts *QuoteOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	p := catalog.Product{
		Name:                 s.normalizeName(opts.Name),
		CostMode:             catalog.DirectCost,
		DirectUnitCost:       opts.Cost,
		UseSimplifiedTax:     opts.MEI,
		TaxPercent:           opts.Tax,
		CardFeePercent:       opts.CardFee,
		DesiredProfitPercent: opts.Profit,
	}
	if opts.Recipe != "" {
		if err := applyRecipe(&p, opts.Recipe); err != nil {
			return recipeFailure(s.out, err)
		}
		p.VariableExpenses = opts.VariableExpenses
	}
	if err := p.Validate(); err != nil {
		return fail(s.out, ExitCommandError, ErrCodeInvalidInput, "invalid quote", err)
	}

	res := pricing.Compute(p, s.config)
	s.warnAdjusted(res)

	view := QuoteView{ProductView: ProductView{Product: res.Product}, Breakdown: res.Breakdown}
	return s.success(view, func() {
		renderProduct(s.out.Writer, view.ProductView, view.Breakdown)
	})
}
