package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/sipri/internal/catalog"
)

// List returns entries matching f in insertion order.
//
// Returns an empty slice (not nil) when nothing matches.
func (l *Ledger) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductName != "" {
		where = append(where, "product_name = ?")
		args = append(args, f.ProductName)
	}

	query := `
		SELECT seq, id, recorded_at, event, position, product_name, cost_mode,
		       unit_cost, final_price, tax_percent, card_fee_percent, profit_percent
		FROM price_history`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.Limit > 0 {
		// Newest N, returned oldest first.
		query = "SELECT * FROM (" + query + " ORDER BY seq DESC LIMIT ?) ORDER BY seq ASC"
		args = append(args, f.Limit)
	} else {
		query += " ORDER BY seq ASC"
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e          Entry
		recordedAt int64
		event      string
		mode       int
	)
	err := rows.Scan(
		&e.Seq,
		&e.ID,
		&recordedAt,
		&event,
		&e.Position,
		&e.ProductName,
		&mode,
		&e.UnitCost,
		&e.FinalPrice,
		&e.TaxPercent,
		&e.CardFeePercent,
		&e.ProfitPercent,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("scan history entry: %w", err)
	}
	e.RecordedAt = time.UnixMicro(recordedAt).UTC()
	e.Event = Event(event)
	e.CostMode = catalog.CostMode(mode)
	return e, nil
}
