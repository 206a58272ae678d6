// Package pricing computes unit cost and final price for catalog products.
//
// The engine is a pure function of a Product and the Config overhead. It
// never fails: out-of-range inputs are clamped and reported through the
// Adjusted flag so the caller decides how to warn the operator.
//
// Order of operations in Compute:
//  1. base unit cost (direct cost, or recipe totals divided by yield)
//  2. fixed overhead apportioned per produced unit
//  3. simplified-tax (MEI) override of the tax percentage
//  4. percentage validation
//  5. profit markup, then gross-up for tax and card fee
package pricing
