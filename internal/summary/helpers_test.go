package summary

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const testOwner = "0192f0c2-7a55-7b2c-8e3f-1d2a3b4c5d6e"

var seq int

func at(t *testing.T, s string) time.Time {
	t.Helper()
	if d, err := time.Parse(dateLayout, s); err == nil {
		return d.Add(12 * time.Hour)
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func rec(t *testing.T, kind Kind, amount, category, date string) Record {
	t.Helper()
	seq++
	return Record{
		ID:          fmt.Sprintf("rec-%d", seq),
		Kind:        kind,
		Owner:       testOwner,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: category + " entry",
		Date:        at(t, date),
	}
}

func expense(t *testing.T, amount, category, date string) Record {
	t.Helper()
	return rec(t, KindExpense, amount, category, date)
}

func income(t *testing.T, amount, category, date string) Record {
	t.Helper()
	return rec(t, KindIncome, amount, category, date)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got),
		append([]any{fmt.Sprintf("want %s, got %s", want, got)}, msgAndArgs...)...)
}
