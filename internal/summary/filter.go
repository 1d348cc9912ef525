package summary

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// FilterParams are the raw, user-supplied filter values. Empty strings mean
// "not supplied".
type FilterParams struct {
	Category  string `form:"category" json:"category,omitempty"`
	StartDate string `form:"startDate" json:"startDate,omitempty"`
	EndDate   string `form:"endDate" json:"endDate,omitempty"`
}

// Filter is a normalized, owner-scoped predicate over records. Start and End
// are inclusive; a nil bound is open.
type Filter struct {
	Owner    string
	Category string
	Start    *time.Time
	End      *time.Time
}

// ValidationError reports a filter or record value the engine refuses to
// interpret.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// BuildFilter normalizes params into a Filter for owner.
//
// The category is checked against categories (AllCategories when nil). Dates
// are RFC3339 instants or YYYY-MM-DD calendar dates interpreted in loc; a
// calendar start date begins at midnight and a calendar end date runs to the
// last instant of that day, so equal start and end dates select one whole day.
// Inverted bounds are accepted and simply match nothing.
func BuildFilter(owner string, params FilterParams, loc *time.Location, categories []string) (Filter, error) {
	if strings.TrimSpace(owner) == "" {
		return Filter{}, &ValidationError{Field: "owner", Reason: "is required"}
	}
	if loc == nil {
		loc = time.UTC
	}

	f := Filter{Owner: owner}

	if c := strings.TrimSpace(params.Category); c != "" && c != CategoryAll {
		if categories == nil {
			categories = AllCategories()
		}
		if !slices.Contains(categories, c) {
			return Filter{}, &ValidationError{Field: "category", Value: c, Reason: "unknown category"}
		}
		f.Category = c
	}

	if s := strings.TrimSpace(params.StartDate); s != "" {
		t, err := parseBound(s, loc, false)
		if err != nil {
			return Filter{}, &ValidationError{Field: "startDate", Value: s, Reason: "use RFC3339 or YYYY-MM-DD"}
		}
		f.Start = &t
	}

	if s := strings.TrimSpace(params.EndDate); s != "" {
		t, err := parseBound(s, loc, true)
		if err != nil {
			return Filter{}, &ValidationError{Field: "endDate", Value: s, Reason: "use RFC3339 or YYYY-MM-DD"}
		}
		f.End = &t
	}

	return f, nil
}

func parseBound(s string, loc *time.Location, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, err
	}
	if end {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}

// Match reports whether r satisfies every constraint of f.
func (f Filter) Match(r Record) bool {
	if r.Owner != f.Owner {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Start != nil && r.Date.Before(*f.Start) {
		return false
	}
	if f.End != nil && r.Date.After(*f.End) {
		return false
	}
	return true
}

// Apply returns the records matching f, preserving input order.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Unbounded returns a copy of f with the category and date constraints
// removed, keeping only the owner scope.
func (f Filter) Unbounded() Filter {
	return Filter{Owner: f.Owner}
}
