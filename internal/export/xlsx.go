// Package export writes the catalog as a spreadsheet price list.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/sipri/internal/catalog"
	"github.com/roach88/sipri/internal/pricing"
)

// SheetName is the worksheet holding the price list.
const SheetName = "Prices"

// Headers are the column titles of the price list.
var Headers = []string{
	"#", "Name", "Mode", "Unit cost", "Tax %", "Card fee %", "Profit %", "Final price",
}

// WriteXLSX writes products as a one-sheet workbook to w. Amounts are
// rounded to cents; an overhead summary follows the product rows.
func WriteXLSX(w io.Writer, products []catalog.Product, cfg catalog.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, p := range products {
		row := []any{
			i + 1,
			p.Name,
			p.CostMode.String(),
			pricing.RoundCents(p.UnitCost),
			pricing.RoundCents(p.TaxPercent),
			pricing.RoundCents(p.CardFeePercent),
			pricing.RoundCents(p.DesiredProfitPercent),
			pricing.RoundCents(p.FinalPrice),
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("write product %d: %w", i+1, err)
			}
		}
	}

	// Blank row, then the overhead summary.
	summary := [][]any{
		{"Fixed monthly costs", pricing.RoundCents(cfg.FixedTotal())},
		{"Monthly production", cfg.MonthlyProductionUnits},
		{"Overhead per unit", pricing.RoundCents(pricing.Apportionment(cfg))},
	}
	start := len(products) + 3
	for i, line := range summary {
		for col, value := range line {
			cell, _ := excelize.CoordinatesToCellName(col+2, start+i)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
