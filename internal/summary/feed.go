package summary

import "slices"

// DefaultFeedSize caps the feed when no explicit size is given.
const DefaultFeedSize = 10

// MergeFeed tags expenses and incomes with their kind, orders them newest
// first and keeps at most max entries (DefaultFeedSize when max <= 0).
//
// Entries with equal dates keep their concatenation order: expenses before
// incomes, each in input order. The inputs are not modified.
func MergeFeed(expenses, incomes []Record, max int) []FeedEntry {
	if max <= 0 {
		max = DefaultFeedSize
	}

	entries := make([]FeedEntry, 0, len(expenses)+len(incomes))
	for _, r := range expenses {
		entries = append(entries, newFeedEntry(r, KindExpense))
	}
	for _, r := range incomes {
		entries = append(entries, newFeedEntry(r, KindIncome))
	}

	slices.SortStableFunc(entries, func(a, b FeedEntry) int {
		return b.Date.Compare(a.Date)
	})

	if len(entries) > max {
		entries = entries[:max]
	}
	return entries
}
