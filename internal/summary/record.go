package summary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the storage-independent view of a single income or expense entry.
type Record struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Owner       string          `json:"owner"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// FeedEntry is a record as shown in the recent-activity feed.
type FeedEntry struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

func newFeedEntry(r Record, kind Kind) FeedEntry {
	return FeedEntry{
		ID:          r.ID,
		Kind:        kind,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        r.Date,
	}
}

func sumAmounts(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}
