package models

import (
	"time"

	"ledger/internal/summary"

	"github.com/shopspring/decimal"
)

// Record is a single income or expense entry. Both kinds share one table and
// are told apart by Kind.
type Record struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index:idx_records_owner_kind_date,priority:1" json:"user_id"`
	Kind        summary.Kind    `gorm:"size:16;not null;index:idx_records_owner_kind_date,priority:2" json:"kind"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category    string          `gorm:"size:50;not null" json:"category"`
	Description string          `gorm:"size:200;not null" json:"description"`
	Date        time.Time       `gorm:"not null;index:idx_records_owner_kind_date,priority:3" json:"date"`
}

// ToSummary converts the row into the engine's record view.
func (r Record) ToSummary() summary.Record {
	return summary.Record{
		ID:          r.ID,
		Kind:        r.Kind,
		Owner:       r.UserID,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        r.Date,
	}
}

// ToSummaryRecords converts a slice of rows, preserving order.
func ToSummaryRecords(rows []Record) []summary.Record {
	out := make([]summary.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToSummary())
	}
	return out
}
