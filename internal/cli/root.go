package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/sipri/internal/logging"
	"github.com/roach88/sipri/internal/settings"
)

// RootOptions holds global flags for all commands.
//
// Flag values win over SIPRI_* environment variables and the env file;
// unset flags are filled from settings before any subcommand runs.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	DataDir   string
	HistoryDB string
	EnvFile   string
	NoHistory bool
	LogLevel  string

	// IgnoreBackup allows saves while a backup has no primary beside it.
	IgnoreBackup bool

	logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sipri CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sipri",
		Short: "SIPRI - small-business pricing calculator",
		Long: `Register products by direct unit cost or by ingredient recipe,
configure fixed monthly overhead, taxes, card fees and profit margin,
and keep the resulting price list on disk between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text) [SIPRI_FORMAT]")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", ".", "directory holding products.dat and config.dat [SIPRI_DATA_DIR]")
	cmd.PersistentFlags().StringVar(&opts.HistoryDB, "history-db", "history.db", "price history database, relative to the data dir [SIPRI_HISTORY_DB]")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "env file to read settings from (default .env)")
	cmd.PersistentFlags().BoolVar(&opts.NoHistory, "no-history", false, "do not record price history [SIPRI_HISTORY=false]")
	cmd.PersistentFlags().BoolVar(&opts.IgnoreBackup, "ignore-backup", false, "save even though a .bak file has no primary (the backup is eventually overwritten)")

	// Add subcommands
	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewQuoteCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewRecalcCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewRestoreCommand(opts))

	return cmd
}

// resolve fills options the user did not set on the command line from
// settings and builds the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	s, err := settings.Load(o.EnvFile)
	if err != nil {
		return fail(o.formatter(cmd), ExitCommandError, ErrCodeInvalidInput, "failed to load settings", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("data-dir") {
		o.DataDir = s.DataDir
	}
	if !flags.Changed("history-db") {
		o.HistoryDB = s.HistoryDB
	}
	if !flags.Changed("format") {
		o.Format = s.Format
	}
	if !flags.Changed("no-history") {
		o.NoHistory = !s.History
	}
	o.LogLevel = s.LogLevel

	if !isValidFormat(o.Format) {
		format := o.Format
		o.Format = "text"
		return fail(o.formatter(cmd), ExitCommandError, ErrCodeInvalidInput,
			fmt.Sprintf("invalid format %q: must be one of %v", format, ValidFormats), nil)
	}

	level := o.LogLevel
	if o.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return fail(o.formatter(cmd), ExitCommandError, ErrCodeInvalidInput, "failed to build logger", err)
	}
	o.logger = logger
	return nil
}

// Logger returns the resolved logger, or a warn-level logger on the
// command's stderr when resolve has not run (commands built directly).
func (o *RootOptions) Logger(cmd *cobra.Command) *zap.Logger {
	if o.logger == nil {
		level := "warn"
		if o.Verbose {
			level = "debug"
		}
		o.logger = logging.Must(logging.New(level, cmd.ErrOrStderr()))
	}
	return o.logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Warnings go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) dataDir() string {
	if o.DataDir == "" {
		return "."
	}
	return o.DataDir
}

func (o *RootOptions) historyPath() string {
	s := settings.Settings{DataDir: o.dataDir(), HistoryDB: o.HistoryDB}
	if s.HistoryDB == "" {
		s.HistoryDB = "history.db"
	}
	return s.HistoryPath()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
