package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sipri/internal/catalog"
	"github.com/roach88/sipri/internal/testutil"
)

// createTestLedger opens a ledger in a temp dir with a deterministic clock
// and the given ids.
func createTestLedger(t *testing.T, ids ...string) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	l, err := Open(path,
		WithClock(testutil.NewDeterministicClock()),
		WithIDGenerator(testutil.NewFixedIDGenerator(ids...)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func product(name string, price float64) catalog.Product {
	return catalog.Product{
		Name:                 name,
		CostMode:             catalog.DirectCost,
		DirectUnitCost:       price / 2,
		TaxPercent:           4,
		CardFeePercent:       3,
		DesiredProfitPercent: 30,
		UnitCost:             price / 2,
		FinalPrice:           price,
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 3; i++ {
		l, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, l.Close())
	}

	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	var version int
	require.NoError(t, l.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	var name string
	err = l.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_price_history_product'",
	).Scan(&name)
	assert.NoError(t, err, "product index missing")
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/history.db")
	assert.Error(t, err)
}

func TestRecord_ListInInsertionOrder(t *testing.T) {
	l := createTestLedger(t, "id-1", "id-2", "id-3")
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, []Entry{
		FromProduct(EventAdd, 1, product("Bolo", 20)),
		FromProduct(EventAdd, 2, product("Pão", 8)),
	}))
	require.NoError(t, l.Record(ctx, []Entry{
		FromProduct(EventEdit, 1, product("Bolo", 22)),
	}))

	entries, err := l.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.Less(t, entries[0].Seq, entries[1].Seq)
	assert.Less(t, entries[1].Seq, entries[2].Seq)

	first := entries[0]
	assert.Equal(t, EventAdd, first.Event)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, "Bolo", first.ProductName)
	assert.Equal(t, catalog.DirectCost, first.CostMode)
	assert.Equal(t, 20.0, first.FinalPrice)
	assert.Equal(t, 10.0, first.UnitCost)
	assert.Equal(t, 4.0, first.TaxPercent)
	assert.Equal(t, 3.0, first.CardFeePercent)
	assert.Equal(t, 30.0, first.ProfitPercent)
	assert.True(t, first.RecordedAt.Equal(testutil.Epoch))
	assert.True(t, entries[2].RecordedAt.After(entries[1].RecordedAt))
}

func TestList_FilterAndLimit(t *testing.T) {
	l := createTestLedger(t, "a", "b", "c", "d")
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, []Entry{
		FromProduct(EventAdd, 1, product("Bolo", 20)),
		FromProduct(EventAdd, 2, product("Pão", 8)),
		FromProduct(EventRecalc, 1, product("Bolo", 21)),
		FromProduct(EventRecalc, 1, product("Bolo", 23)),
	}))

	bolo, err := l.List(ctx, Filter{ProductName: "Bolo"})
	require.NoError(t, err)
	require.Len(t, bolo, 3)

	recent, err := l.List(ctx, Filter{ProductName: "Bolo", Limit: 2})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID, "limit keeps the newest, oldest first")
	assert.Equal(t, "d", recent[1].ID)

	none, err := l.List(ctx, Filter{ProductName: "Torta"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRecord_KeepsCallerIDs(t *testing.T) {
	l := createTestLedger(t)
	ctx := context.Background()

	e := FromProduct(EventDelete, 3, product("Torta", 40))
	e.ID = "caller-id"
	require.NoError(t, l.Record(ctx, []Entry{e}))
	// Same id again is ignored.
	require.NoError(t, l.Record(ctx, []Entry{e}))

	entries, err := l.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "caller-id", entries[0].ID)
}

func TestRecord_EmptyIsNoop(t *testing.T) {
	l := createTestLedger(t)
	require.NoError(t, l.Record(context.Background(), nil))
}

func TestRecord_ClosedLedgerFailsWithoutRetry(t *testing.T) {
	l := createTestLedger(t, "x")
	require.NoError(t, l.Close())

	err := l.Record(context.Background(), []Entry{FromProduct(EventAdd, 1, product("Bolo", 20))})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record history")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, isRetryable(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.False(t, isRetryable(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.False(t, isRetryable(os.ErrNotExist))
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
