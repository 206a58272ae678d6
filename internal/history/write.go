package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Record inserts entries in one transaction. Entries without an id or
// timestamp get one from the ledger's generator and clock; both are assigned
// once, before the first attempt, so a retried write inserts the same rows.
func (l *Ledger) Record(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]Entry, len(entries))
	copy(rows, entries)
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = l.ids.Generate()
		}
		if rows[i].RecordedAt.IsZero() {
			rows[i].RecordedAt = l.clock.Now()
		}
	}

	op := func() error {
		err := l.insert(ctx, rows)
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		l.logger.Warn("history write failed, retrying",
			zap.Error(err),
			zap.Duration("next_attempt_in", wait))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(l.newBackOff(), ctx), notify); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

func (l *Ledger) insert(ctx context.Context, rows []Entry) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_history
		(id, recorded_at, event, position, product_name, cost_mode,
		 unit_cost, final_price, tax_percent, card_fee_percent, profit_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range rows {
		_, err := stmt.ExecContext(ctx,
			e.ID,
			e.RecordedAt.UnixMicro(),
			string(e.Event),
			e.Position,
			e.ProductName,
			int(e.CostMode),
			e.UnitCost,
			e.FinalPrice,
			e.TaxPercent,
			e.CardFeePercent,
			e.ProfitPercent,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// isRetryable reports lock contention that may clear on its own.
func isRetryable(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
