// Package summary turns owner-scoped income and expense snapshots into the
// derived views the dashboard consumes: category breakdowns, monthly and
// daily rollups, calendar-month comparisons, balance and the recent-activity
// feed.
//
// Everything in this package is pure. Callers fetch records, inject the
// current time and receive freshly computed values; nothing is cached and no
// input is mutated.
package summary

import "fmt"

// Kind tags a record as income or expense. Each kind owns a closed category
// vocabulary.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// CategoryAll is the filter sentinel meaning "any category".
const CategoryAll = "All"

var (
	expenseCategories = []string{
		"Food", "Travel", "Rent", "Utilities", "Entertainment",
		"Shopping", "Healthcare", "Education", "Transport", "Other",
	}
	incomeCategories = []string{
		"Salary", "Business", "Investments", "Gifts", "Other",
	}
)

// Kinds lists every record kind in display order.
func Kinds() []Kind {
	return []Kind{KindIncome, KindExpense}
}

// ParseKind converts s into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", &ValidationError{Field: "kind", Value: s, Reason: "must be income or expense"}
	}
	return k, nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Categories returns a copy of the kind's category vocabulary.
func (k Kind) Categories() []string {
	switch k {
	case KindIncome:
		return append([]string(nil), incomeCategories...)
	case KindExpense:
		return append([]string(nil), expenseCategories...)
	}
	return nil
}

// HasCategory reports whether category belongs to the kind's vocabulary.
func (k Kind) HasCategory(category string) bool {
	for _, c := range k.Categories() {
		if c == category {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// AllCategories returns the union of every kind's vocabulary, without
// duplicates, in first-seen order.
func AllCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range Kinds() {
		for _, c := range k.Categories() {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func mustKind(k Kind) {
	if !k.Valid() {
		panic(fmt.Sprintf("summary: unknown record kind %q", string(k)))
	}
}
