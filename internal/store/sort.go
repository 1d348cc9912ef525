package store

import (
	"strings"

	"gorm.io/gorm/clause"

	"ledger/internal/summary"
)

// SortField is a whitelisted column records can be ordered by.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
)

// Sort orders record queries. Ties are broken by id in the same direction,
// which for UUIDv7 keys means creation order.
type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort is newest first.
var DefaultSort = Sort{Field: SortByDate, Desc: true}

// ParseSort builds a Sort from query values; empty values take the defaults
// (date, desc).
func ParseSort(field, order string) (Sort, error) {
	s := DefaultSort
	switch f := SortField(strings.TrimSpace(field)); f {
	case "":
	case SortByDate, SortByAmount, SortByCategory:
		s.Field = f
	default:
		return Sort{}, &summary.ValidationError{Field: "sortBy", Value: field, Reason: "use date, amount or category"}
	}
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "desc":
		s.Desc = true
	case "asc":
		s.Desc = false
	default:
		return Sort{}, &summary.ValidationError{Field: "sortOrder", Value: order, Reason: "use asc or desc"}
	}
	return s, nil
}

func (s Sort) clauses() []clause.OrderByColumn {
	field := s.Field
	if field == "" {
		field = SortByDate
	}
	return []clause.OrderByColumn{
		{Column: clause.Column{Name: string(field)}, Desc: s.Desc},
		{Column: clause.Column{Name: "id"}, Desc: s.Desc},
	}
}
