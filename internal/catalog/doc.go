// Package catalog defines the pricing data model shared by every other package.
//
// It holds the Config singleton (fixed monthly overhead), the Product record,
// the ordered Catalog collection and the canonical record encoding used by the
// on-disk store. catalog imports nothing internal.
//
// Key constraints:
//   - Product identity is its 1-based position in the Catalog; removal shifts
//     later products down by one.
//   - Names are trimmed, NFC normalized and bounded to MaxNameBytes.
//   - Encoded records never contain NaN or Inf.
//   - All JSON tags use snake_case.
package catalog
