package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/sipri/internal/history"
	"github.com/roach88/sipri/internal/logging"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Product string
	Limit   int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show how prices changed over time",
		Long: `List price history entries in the order they were recorded.

Examples:
  sipri history
  sipri history --product Brigadeiro --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Product, "product", "", "only entries for this product name")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "only the most recent N entries")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.Logger(cmd)

	if opts.NoHistory {
		return fail(out, ExitCommandError, ErrCodeHistory, "price history is disabled", nil)
	}
	ledger, err := history.Open(opts.historyPath(), history.WithLogger(logging.Named(logger, "history")))
	if err != nil {
		return fail(out, ExitCommandError, ErrCodeHistory, "failed to open price history", err)
	}
	defer ledger.Close()

	entries, err := ledger.List(context.Background(), history.Filter{
		ProductName: opts.Product,
		Limit:       opts.Limit,
	})
	if err != nil {
		return fail(out, ExitCommandError, ErrCodeHistory, "failed to read price history", err)
	}

	if out.Format == "json" {
		return out.Success(entries)
	}
	renderHistory(out.Writer, entries)
	return nil
}
