package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sipri/internal/history"
	"github.com/roach88/sipri/internal/logging"
	"github.com/roach88/sipri/internal/store"
)

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore products|config",
		Short: "Promote the backup file to primary",
		Long: `Replace products.dat or config.dat with its .bak file, for example after
a save was interrupted between rotating the backup and renaming the new
file into place. The replaced primary becomes the new backup, so running
restore twice undoes it.`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     []string{"products", "config"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(rootOpts, args[0], cmd)
		},
	}
}

func runRestore(opts *RootOptions, arg string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	kind, err := store.ParseKind(arg)
	if err != nil {
		return fail(out, ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
	}

	st := store.New(opts.dataDir(), logging.Named(opts.Logger(cmd), "store"))
	if err := st.RestoreBackup(kind); err != nil {
		if errors.Is(err, store.ErrNoBackup) {
			return fail(out, ExitFailure, ErrCodeNoBackup, fmt.Sprintf("no %s backup to restore", kind), nil)
		}
		return fail(out, ExitCommandError, ErrCodeWriteFailed, "restore failed", err)
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	if kind == store.KindProduct {
		products := s.catalog.Products()
		entries := make([]history.Entry, len(products))
		for i, p := range products {
			entries[i] = history.FromProduct(history.EventRestore, i+1, p)
		}
		s.record(entries...)
	}

	result := map[string]any{"restored": kind.String(), "products": s.catalog.Len()}
	return s.success(result, func() {
		fmt.Fprintf(s.out.Writer, "Restored %s from backup\n", kind)
	})
}
