package catalog

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// EncodeProduct serializes p to its canonical record payload.
// It fails when the name is empty, a text field is not NFC normalized, a
// bounded field is too long or a number is not finite; a failing record
// aborts the whole save. Names from NormalizeName always qualify.
func EncodeProduct(p Product) ([]byte, error) {
	name := p.Name
	if !norm.NFC.IsNormalString(name) || !norm.NFC.IsNormalString(p.IngredientsDescription) {
		return nil, fmt.Errorf("encode product %q: %w", name, ErrNotNormalized)
	}
	if name == "" {
		return nil, fmt.Errorf("encode product: %w", ErrEmptyName)
	}
	if len(name) > MaxNameBytes {
		return nil, fmt.Errorf("encode product %q: name: %w", name, ErrRecordTooLarge)
	}
	if len(p.IngredientsDescription) > MaxDescriptionBytes {
		return nil, fmt.Errorf("encode product %q: ingredients description: %w", name, ErrRecordTooLarge)
	}
	if !p.CostMode.Valid() {
		return nil, fmt.Errorf("encode product %q: %w: %d", name, ErrInvalidMode, int(p.CostMode))
	}

	data, err := MarshalCanonical(map[string]any{
		"v":                       RecordVersion,
		"name":                    name,
		"cost_mode":               int(p.CostMode),
		"direct_unit_cost":        p.DirectUnitCost,
		"total_investment":        p.TotalInvestment,
		"variable_expenses":       p.VariableExpenses,
		"yield_units":             p.YieldUnits,
		"ingredients_description": p.IngredientsDescription,
		"use_simplified_tax":      p.UseSimplifiedTax,
		"tax_percent":             p.TaxPercent,
		"card_fee_percent":        p.CardFeePercent,
		"desired_profit_percent":  p.DesiredProfitPercent,
		"unit_cost":               p.UnitCost,
		"final_price":             p.FinalPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("encode product %q: %w", name, err)
	}
	return data, nil
}

type productRecord struct {
	Version int `json:"v"`
	Product
}

// DecodeProduct parses a record payload written by EncodeProduct.
func DecodeProduct(data []byte) (Product, error) {
	var rec productRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Product{}, fmt.Errorf("decode product: %w", err)
	}
	if rec.Version != RecordVersion {
		return Product{}, fmt.Errorf("decode product: unsupported record version %d", rec.Version)
	}
	if !rec.CostMode.Valid() {
		return Product{}, fmt.Errorf("decode product: %w: %d", ErrInvalidMode, int(rec.CostMode))
	}
	return rec.Product, nil
}

// EncodeConfig serializes c to its canonical record payload.
func EncodeConfig(c Config) ([]byte, error) {
	data, err := MarshalCanonical(map[string]any{
		"v":                        RecordVersion,
		"water_cost":               c.WaterCost,
		"electricity_cost":         c.ElectricityCost,
		"gas_cost":                 c.GasCost,
		"monthly_production_units": c.MonthlyProductionUnits,
	})
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

type configRecord struct {
	Version int `json:"v"`
	Config
}

// DecodeConfig parses a record payload written by EncodeConfig.
func DecodeConfig(data []byte) (Config, error) {
	var rec configRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if rec.Version != RecordVersion {
		return Config{}, fmt.Errorf("decode config: unsupported record version %d", rec.Version)
	}
	return rec.Config, nil
}
