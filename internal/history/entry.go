package history

import (
	"time"

	"github.com/roach88/sipri/internal/catalog"
)

// Event names the mutation that produced an entry.
type Event string

const (
	EventAdd     Event = "add"
	EventEdit    Event = "edit"
	EventDelete  Event = "delete"
	EventRecalc  Event = "recalc"
	EventRestore Event = "restore"
)

// Entry is one row of the ledger.
type Entry struct {
	Seq            int64            `json:"seq"`
	ID             string           `json:"id"`
	RecordedAt     time.Time        `json:"recorded_at"`
	Event          Event            `json:"event"`
	Position       int              `json:"position"`
	ProductName    string           `json:"product_name"`
	CostMode       catalog.CostMode `json:"cost_mode"`
	UnitCost       float64          `json:"unit_cost"`
	FinalPrice     float64          `json:"final_price"`
	TaxPercent     float64          `json:"tax_percent"`
	CardFeePercent float64          `json:"card_fee_percent"`
	ProfitPercent  float64          `json:"profit_percent"`
}

// FromProduct builds an entry for p at its 1-based position.
func FromProduct(event Event, position int, p catalog.Product) Entry {
	return Entry{
		Event:          event,
		Position:       position,
		ProductName:    p.Name,
		CostMode:       p.CostMode,
		UnitCost:       p.UnitCost,
		FinalPrice:     p.FinalPrice,
		TaxPercent:     p.TaxPercent,
		CardFeePercent: p.CardFeePercent,
		ProfitPercent:  p.DesiredProfitPercent,
	}
}

// Filter narrows List results.
type Filter struct {
	// ProductName matches exactly when non-empty.
	ProductName string
	// Limit keeps only the most recent entries when positive.
	Limit int
}
