package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	t.Run("nothing recorded yields zeros", func(t *testing.T) {
		c := Compose(ComposeInput{Now: now})

		assert.True(t, c.Balance.IsZero())
		assert.Equal(t, 0, c.TransactionCount)
		assert.Equal(t, KindIncome, c.Income.Kind)
		assert.Equal(t, KindExpense, c.Expense.Kind)
		assert.NotNil(t, c.Income.CategoryBuckets)
		assert.NotNil(t, c.Expense.DailyBuckets)
	})

	t.Run("balance is income minus expense", func(t *testing.T) {
		incomes := []Record{
			income(t, "3000", "Salary", "2024-03-01"),
			income(t, "250.50", "Business", "2024-03-05"),
		}
		expenses := []Record{
			expense(t, "1200", "Rent", "2024-03-02"),
			expense(t, "80.25", "Food", "2024-03-03"),
		}

		c := Compose(ComposeInput{
			Now:     now,
			Income:  Snapshot{Filtered: incomes, All: incomes},
			Expense: Snapshot{Filtered: expenses, All: expenses},
		})

		assertDecimal(t, "3250.50", c.Income.Total)
		assertDecimal(t, "1280.25", c.Expense.Total)
		assertDecimal(t, "1970.25", c.Balance)
		assert.Equal(t, 4, c.TransactionCount)
	})

	t.Run("balance goes negative when spending exceeds income", func(t *testing.T) {
		expenses := []Record{expense(t, "99.99", "Shopping", "2024-03-10")}

		c := Compose(ComposeInput{
			Now:     now,
			Expense: Snapshot{Filtered: expenses, All: expenses},
		})

		assertDecimal(t, "-99.99", c.Balance)
		assert.Equal(t, 1, c.TransactionCount)
	})

	t.Run("transaction count follows the filter for both kinds", func(t *testing.T) {
		incomes := []Record{
			income(t, "100", "Salary", "2024-01-01"),
			income(t, "100", "Salary", "2024-03-01"),
		}
		expenses := []Record{
			expense(t, "10", "Food", "2024-01-02"),
			expense(t, "10", "Food", "2024-03-02"),
			expense(t, "10", "Food", "2024-03-03"),
		}
		f, err := BuildFilter(testOwner, FilterParams{StartDate: "2024-03-01"}, now.Location(), nil)
		require.NoError(t, err)

		c := Compose(ComposeInput{
			Now:     now,
			Income:  Snapshot{Filtered: f.Apply(incomes), All: incomes},
			Expense: Snapshot{Filtered: f.Apply(expenses), All: expenses},
		})

		assert.Equal(t, 3, c.TransactionCount)
		assertDecimal(t, "80", c.Balance)
		assertDecimal(t, "100", c.Income.CurrentMonthTotal)
		assertDecimal(t, "20", c.Expense.CurrentMonthTotal)
		assert.Len(t, c.Income.MonthlyBuckets, 2)
	})

	t.Run("same input gives the same result", func(t *testing.T) {
		incomes := []Record{income(t, "5", "Gifts", "2024-02-01")}
		expenses := []Record{expense(t, "3", "Utilities", "2024-02-02"), expense(t, "3", "Healthcare", "2024-02-03")}
		in := ComposeInput{
			Now:     now,
			Income:  Snapshot{Filtered: incomes, All: incomes},
			Expense: Snapshot{Filtered: expenses, All: expenses},
		}

		assert.Equal(t, Compose(in), Compose(in))
	})
}
