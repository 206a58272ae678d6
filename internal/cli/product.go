package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sipri/internal/catalog"
	"github.com/roach88/sipri/internal/history"
	"github.com/roach88/sipri/internal/pricing"
	"github.com/roach88/sipri/internal/recipe"
	"github.com/roach88/sipri/internal/store"
)

// NewProductCommand groups the catalog commands.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Register, list, edit and delete products",
	}
	cmd.AddCommand(NewProductAddCommand(rootOpts))
	cmd.AddCommand(NewProductListCommand(rootOpts))
	cmd.AddCommand(NewProductShowCommand(rootOpts))
	cmd.AddCommand(NewProductEditCommand(rootOpts))
	cmd.AddCommand(NewProductDeleteCommand(rootOpts))
	return cmd
}

// ProductAddOptions holds flags for product add.
type ProductAddOptions struct {
	*RootOptions
	PricingFlags
	Name string
}

// NewProductAddCommand creates the product add command.
func NewProductAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a product and compute its price",
		Long: `Register a product by direct unit cost or by recipe file.

The price is computed with the current overhead config and the whole
catalog is saved. A failed save is reported as a warning; the computed
price is still shown.

Examples:
  sipri product add --name "Pão de mel" --cost 5 --tax 4 --card-fee 3 --profit 30
  sipri product add --name Brigadeiro --recipe brigadeiro.yaml --variable-expenses 6 --mei`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "product name (required)")
	_ = cmd.MarkFlagRequired("name")
	opts.PricingFlags.register(cmd, 0, 0)
	cmd.MarkFlagsOneRequired("cost", "recipe")

	return cmd
}

func runProductAdd(opts *ProductAddOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	if err := s.guard(store.KindProduct); err != nil {
		return err
	}

	if s.catalog.Full() {
		return fail(s.out, ExitFailure, ErrCodeCapacity, catalog.ErrCapacity.Error(), nil)
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
		return fail(s.out, ExitCommandError, ErrCodeInvalidInput, "invalid product", err)
	}

	res := pricing.Compute(p, s.config)
	s.warnAdjusted(res)

	pos, err := s.catalog.Add(res.Product)
	if err != nil {
		return fail(s.out, ExitFailure, ErrCodeCapacity, err.Error(), nil)
	}
	s.saveProducts()
	s.record(history.FromProduct(history.EventAdd, pos, res.Product))

	view := QuoteView{ProductView: ProductView{Position: pos, Product: res.Product}, Breakdown: res.Breakdown}
	return s.success(view, func() {
		renderProduct(s.out.Writer, view.ProductView, view.Breakdown)
	})
}

// NewProductListCommand creates the product list command.
func NewProductListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List registered products",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			products := views(s.catalog.Products())
			return s.success(products, func() {
				renderProductList(s.out.Writer, products)
			})
		},
	}
}

// NewProductShowCommand creates the product show command.
func NewProductShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <n>",
		Short:         "Show one product with its price breakdown",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductShow(rootOpts, args[0], cmd)
		},
	}
}

func runProductShow(opts *RootOptions, arg string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	n, err := parsePosition(s.out, arg)
	if err != nil {
		return err
	}
	p, err := s.catalog.Get(n)
	if err != nil {
		return fail(s.out, ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}

	// The breakdown is derived from the current config; the stored price is
	// only refreshed by a mutation or recalc.
	res := pricing.Compute(p, s.config)
	if pricing.RoundCents(res.Product.FinalPrice) != pricing.RoundCents(p.FinalPrice) {
		s.warn("stored price %s differs from %s under the current config; run `sipri recalc`",
			pricing.FormatMoney(p.FinalPrice), pricing.FormatMoney(res.Product.FinalPrice))
	}

	view := QuoteView{ProductView: ProductView{Position: n, Product: p}, Breakdown: res.Breakdown}
	return s.success(view, func() {
		renderProduct(s.out.Writer, view.ProductView, view.Breakdown)
	})
}

// ProductEditOptions holds flags for product edit.
type ProductEditOptions struct {
	*RootOptions
	PricingFlags
	Name string
}

// NewProductEditCommand creates the product edit command.
func NewProductEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductEditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <n>",
		Short: "Change fields of a product and recompute its price",
		Long: `Change fields of the product at position n. Only the flags given are
applied; everything else keeps its stored value.

A recipe file with no ingredients keeps the previous recipe.

Examples:
  sipri product edit 2 --profit 45
  sipri product edit 2 --recipe brigadeiro-v2.yaml
  sipri product edit 1 --mei=false --tax 6`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductEdit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new product name")
	opts.PricingFlags.register(cmd, 0, 0)

	return cmd
}

func runProductEdit(opts *ProductEditOptions, arg string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	if err := s.guard(store.KindProduct); err != nil {
		return err
	}
	n, err := parsePosition(s.out, arg)
	if err != nil {
		return err
	}
	p, err := s.catalog.Get(n)
	if err != nil {
		return fail(s.out, ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name = s.normalizeName(opts.Name)
	}
	if flags.Changed("cost") {
		p.CostMode = catalog.DirectCost
		p.DirectUnitCost = opts.Cost
	}
	if opts.Recipe != "" {
		err := applyRecipe(&p, opts.Recipe)
		switch {
		case errors.Is(err, recipe.ErrCanceled):
			s.warn("recipe has no ingredients; keeping the previous cost fields")
		case err != nil:
			return recipeFailure(s.out, err)
		}
	}
	if flags.Changed("variable-expenses") {
		if p.CostMode != catalog.Recipe {
			return fail(s.out, ExitCommandError, ErrCodeInvalidInput,
				"--variable-expenses applies to recipe products only", nil)
		}
		p.VariableExpenses = opts.VariableExpenses
	}
	if flags.Changed("mei") {
		p.UseSimplifiedTax = opts.MEI
	}
	if flags.Changed("tax") {
		p.TaxPercent = opts.Tax
	}
	if flags.Changed("card-fee") {
		p.CardFeePercent = opts.CardFee
	}
	if flags.Changed("profit") {
		p.DesiredProfitPercent = opts.Profit
	}

	if err := p.Validate(); err != nil {
		return fail(s.out, ExitCommandError, ErrCodeInvalidInput, "invalid product", err)
	}

	res := pricing.Compute(p, s.config)
	s.warnAdjusted(res)

	if err := s.catalog.Replace(n, res.Product); err != nil {
		return fail(s.out, ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	s.saveProducts()
	s.record(history.FromProduct(history.EventEdit, n, res.Product))

	view := QuoteView{ProductView: ProductView{Position: n, Product: res.Product}, Breakdown: res.Breakdown}
	return s.success(view, func() {
		renderProduct(s.out.Writer, view.ProductView, view.Breakdown)
	})
}

// ProductDeleteOptions holds flags for product delete.
type ProductDeleteOptions struct {
	*RootOptions
	Yes bool
}

// NewProductDeleteCommand creates the product delete command.
func NewProductDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductDeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <n>",
		Short:         "Delete a product; later products move up one position",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductDelete(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm the deletion")

	return cmd
}

func runProductDelete(opts *ProductDeleteOptions, arg string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	if err := s.guard(store.KindProduct); err != nil {
		return err
	}
	n, err := parsePosition(s.out, arg)
	if err != nil {
		return err
	}
	if !opts.Yes {
		return fail(s.out, ExitCommandError, ErrCodeInvalidInput, "refusing to delete without --yes", nil)
	}

	removed, err := s.catalog.Remove(n)
	if err != nil {
		return fail(s.out, ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	s.saveProducts()
	s.record(history.FromProduct(history.EventDelete, n, removed))

	view := ProductView{Position: n, Product: removed}
	return s.success(view, func() {
		fmt.Fprintf(s.out.Writer, "Deleted #%d: %s (%d products left)\n", n, removed.Name, s.catalog.Len())
	})
}
