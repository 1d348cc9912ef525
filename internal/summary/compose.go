package summary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is what the store returned for one kind: the filter-scoped records
// and the owner's full history.
type Snapshot struct {
	Filtered []Record
	All      []Record
}

// ComposeInput carries both snapshots and the instant to compute against.
type ComposeInput struct {
	Now     time.Time
	Income  Snapshot
	Expense Snapshot
}

// CombinedSummary reconciles the income and expense summaries.
type CombinedSummary struct {
	Income           Summary         `json:"income"`
	Expense          Summary         `json:"expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
}

// Compose aggregates both kinds and derives the balance and transaction
// count. The transaction count is the number of filter-scoped records of
// both kinds.
func Compose(in ComposeInput) CombinedSummary {
	income := NewAggregator(KindIncome, in.Now).Aggregate(in.Income.Filtered, in.Income.All)
	expense := NewAggregator(KindExpense, in.Now).Aggregate(in.Expense.Filtered, in.Expense.All)

	return CombinedSummary{
		Income:           income,
		Expense:          expense,
		Balance:          income.Total.Sub(expense.Total),
		TransactionCount: income.Count + expense.Count,
	}
}
