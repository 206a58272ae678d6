package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sipri/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the price list to an Excel workbook",
		Long: `Write every product with its stored unit cost and final price, plus an
overhead summary, to an .xlsx workbook.

Examples:
  sipri export --output precos.xlsx`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output .xlsx file (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return fail(s.out, ExitCommandError, ErrCodeWriteFailed, "failed to create export file", err)
	}
	products := s.catalog.Products()
	if err := export.WriteXLSX(f, products, s.config); err != nil {
		f.Close()
		os.Remove(opts.Output)
		return fail(s.out, ExitCommandError, ErrCodeWriteFailed, "failed to write export", err)
	}
	if err := f.Close(); err != nil {
		return fail(s.out, ExitCommandError, ErrCodeWriteFailed, "failed to write export", err)
	}

	result := map[string]any{"output": opts.Output, "products": len(products)}
	return s.success(result, func() {
		fmt.Fprintf(s.out.Writer, "Exported %d products to %s\n", len(products), opts.Output)
	})
}
