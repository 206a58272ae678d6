package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sipri/internal/history"
	"github.com/roach88/sipri/internal/pricing"
	"github.com/roach88/sipri/internal/store"
)

// NewRecalcCommand creates the recalc command.
func NewRecalcCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc",
		Short: "Recompute every stored price with the current config",
		Long: `Recompute unit cost and final price of every product with the current
overhead config, save the catalog and record the new prices in the
price history.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecalc(rootOpts, cmd)
		},
	}
}

func runRecalc(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	if err := s.guard(store.KindProduct); err != nil {
		return err
	}

	products := s.catalog.Products()
	entries := make([]history.Entry, 0, len(products))
	changed := 0
	for i, p := range products {
		res := pricing.Compute(p, s.config)
		s.warnAdjusted(res)
		if res.Product != p {
			changed++
		}
		if err := s.catalog.Replace(i+1, res.Product); err != nil {
			return fail(s.out, ExitFailure, ErrCodeGeneric, "recalc failed", err)
		}
		entries = append(entries, history.FromProduct(history.EventRecalc, i+1, res.Product))
	}

	if len(products) > 0 {
		s.saveProducts()
		s.record(entries...)
	}

	updated := views(s.catalog.Products())
	return s.success(updated, func() {
		fmt.Fprintf(s.out.Writer, "Recalculated %d products (%d changed)\n\n", len(updated), changed)
		renderProductList(s.out.Writer, updated)
	})
}
