package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/sipri/internal/catalog"
	"github.com/roach88/sipri/internal/history"
	"github.com/roach88/sipri/internal/logging"
	"github.com/roach88/sipri/internal/pricing"
	"github.com/roach88/sipri/internal/store"
)

// session is the state every catalog command starts from: the config and
// product collection loaded from the data directory.
type session struct {
	opts     *RootOptions
	out      *OutputFormatter
	logger   *zap.Logger
	store    *store.Store
	catalog  *catalog.Catalog
	config   catalog.Config
	warnings []string

	// orphaned holds the record kinds whose primary is missing while a
	// backup is present.
	orphaned map[store.Kind]bool
}

// openSession loads config and products. A missing product file is a first
// run, not an error.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := opts.formatter(cmd)
	logger := opts.Logger(cmd)
	st := store.New(opts.dataDir(), logging.Named(logger, "store"))

	cfg, cfgFound, err := st.LoadConfig()
	if err != nil {
		return nil, fail(out, ExitCommandError, ErrCodeLoadFailed, "failed to load config", err)
	}
	products, found, err := st.LoadProducts()
	if err != nil {
		return nil, fail(out, ExitCommandError, ErrCodeLoadFailed, "failed to load products", err)
	}

	logger.Debug("session opened",
		zap.String("data_dir", st.Dir()),
		zap.Bool("config_found", cfgFound),
		zap.Bool("products_found", found),
		zap.Int("products", len(products)))

	s := &session{
		opts:     opts,
		out:      out,
		logger:   logger,
		store:    st,
		catalog:  catalog.New(products),
		config:   cfg,
		orphaned: map[store.Kind]bool{},
	}
	for _, kind := range []store.Kind{store.KindProduct, store.KindConfig} {
		if st.Orphaned(kind) {
			s.orphaned[kind] = true
			s.warn("%s.dat missing but %s.bak present; run `sipri restore %s`", kind, kind, kind)
		}
	}
	return s, nil
}

// guard refuses a save of kind while its backup is orphaned, unless the
// operator passed --ignore-backup.
func (s *session) guard(kind store.Kind) error {
	if !s.orphaned[kind] || s.opts.IgnoreBackup {
		return nil
	}
	return fail(s.out, ExitFailure, ErrCodeUnrestored,
		fmt.Sprintf("%s.dat is missing but %s.bak is present; run `sipri restore %s` or pass --ignore-backup", kind, kind, kind), nil)
}

// warn records a non-fatal problem and shows it immediately in text mode.
func (s *session) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.warnings = append(s.warnings, msg)
	s.logger.Debug("warning", zap.String("message", msg))
	s.out.Warn(msg)
}

// warnAdjusted reports a percentage correction made by the engine.
func (s *session) warnAdjusted(res pricing.Result) {
	if !res.Adjusted {
		return
	}
	p := res.Product
	s.warn("%s: percentages adjusted (tax %s -> %s, card fee %s -> %s, profit %s -> %s)",
		p.Name,
		pricing.FormatPercent(res.Entered.Tax), pricing.FormatPercent(p.TaxPercent),
		pricing.FormatPercent(res.Entered.CardFee), pricing.FormatPercent(p.CardFeePercent),
		pricing.FormatPercent(res.Entered.Profit), pricing.FormatPercent(p.DesiredProfitPercent))
}

// saveProducts persists the whole collection. A failure is a warning: the
// in-memory result of the command still stands.
func (s *session) saveProducts() {
	if err := s.store.SaveProducts(s.catalog.Products()); err != nil {
		s.warn("products not saved: %v", err)
	}
}

func (s *session) saveConfig() {
	if err := s.store.SaveConfig(s.config); err != nil {
		s.warn("config not saved: %v", err)
	}
}

// record appends entries to the price history unless it is disabled.
func (s *session) record(entries ...history.Entry) {
	if s.opts.NoHistory || len(entries) == 0 {
		return
	}
	ledger, err := history.Open(s.opts.historyPath(), history.WithLogger(logging.Named(s.logger, "history")))
	if err != nil {
		s.warn("price history unavailable: %v", err)
		return
	}
	defer ledger.Close()

	if err := ledger.Record(context.Background(), entries); err != nil {
		s.warn("price history not recorded: %v", err)
	}
}

// success writes data with the collected warnings.
func (s *session) success(data any, text func()) error {
	if s.out.Format == "json" {
		return s.out.Success(data, s.warnings...)
	}
	text()
	return nil
}
