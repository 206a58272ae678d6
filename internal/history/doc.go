// Package history keeps a SQLite ledger of computed prices.
//
// Every mutation of the catalog (add, edit, delete, recalc, restore) appends
// one entry per affected product, so an operator can see how a product's
// price moved as costs and rates changed.
//
// # Ordering
//
// Entries are ordered by seq, an autoincrement column assigned at insert
// time, never by recorded_at. Wall-clock time is informational only.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Writes that still hit SQLITE_BUSY or SQLITE_LOCKED after the busy timeout
// are retried with exponential backoff.
package history
