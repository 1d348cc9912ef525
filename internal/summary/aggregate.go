package summary

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Trend windows: number of most recent non-empty buckets kept.
const (
	MonthlyWindow = 6
	DailyWindow   = 30
)

// CategoryBucket totals one category.
type CategoryBucket struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthlyBucket totals one calendar month.
type MonthlyBucket struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// DailyBucket totals one calendar day.
type DailyBucket struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Day   int             `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// Summary aggregates a single record kind.
//
// Total, Count and CategoryBuckets follow the active filter. The month totals
// and the monthly/daily series always cover every record the owner has, so
// trend views stay stable while filters change.
type Summary struct {
	Kind               Kind             `json:"kind"`
	Total              decimal.Decimal  `json:"total"`
	Count              int              `json:"count"`
	CurrentMonthTotal  decimal.Decimal  `json:"current_month_total"`
	PreviousMonthTotal decimal.Decimal  `json:"previous_month_total"`
	CategoryBuckets    []CategoryBucket `json:"category_buckets"`
	MonthlyBuckets     []MonthlyBucket  `json:"monthly_buckets"`
	DailyBuckets       []DailyBucket    `json:"daily_buckets"`
}

// EmptySummary returns the zero-valued summary for kind with non-nil slices.
func EmptySummary(kind Kind) Summary {
	return Summary{
		Kind:               kind,
		Total:              decimal.Zero,
		CurrentMonthTotal:  decimal.Zero,
		PreviousMonthTotal: decimal.Zero,
		CategoryBuckets:    []CategoryBucket{},
		MonthlyBuckets:     []MonthlyBucket{},
		DailyBuckets:       []DailyBucket{},
	}
}

// Aggregator computes a Summary for one record kind relative to a fixed
// "now". Calendar boundaries are taken in now's location.
type Aggregator struct {
	kind Kind
	now  time.Time
}

// NewAggregator returns an Aggregator for kind. It panics on an unknown kind.
func NewAggregator(kind Kind, now time.Time) *Aggregator {
	mustKind(kind)
	return &Aggregator{kind: kind, now: now}
}

// Kind returns the record kind the aggregator accepts.
func (a *Aggregator) Kind() Kind { return a.kind }

// Aggregate summarizes filtered (the records selected by the active filter)
// and all (every record of the owner). Records of another kind are ignored.
func (a *Aggregator) Aggregate(filtered, all []Record) Summary {
	filtered = a.ofKind(filtered)
	all = a.ofKind(all)

	s := EmptySummary(a.kind)
	s.Total = sumAmounts(filtered)
	s.Count = len(filtered)
	s.CategoryBuckets = categoryBuckets(filtered)

	loc := a.now.Location()
	curStart, curEnd := monthBounds(a.now, 0)
	prevStart, prevEnd := monthBounds(a.now, -1)
	for _, r := range all {
		d := r.Date.In(loc)
		switch {
		case within(d, curStart, curEnd):
			s.CurrentMonthTotal = s.CurrentMonthTotal.Add(r.Amount)
		case within(d, prevStart, prevEnd):
			s.PreviousMonthTotal = s.PreviousMonthTotal.Add(r.Amount)
		}
	}

	s.MonthlyBuckets = monthlyBuckets(all, loc, MonthlyWindow)
	s.DailyBuckets = dailyBuckets(all, loc, DailyWindow)
	return s
}

func (a *Aggregator) ofKind(records []Record) []Record {
	for i, r := range records {
		if r.Kind != a.kind {
			out := slices.Clone(records[:i])
			for _, rest := range records[i+1:] {
				if rest.Kind == a.kind {
					out = append(out, rest)
				}
			}
			return out
		}
	}
	return records
}

// monthBounds returns [start, end) of the calendar month offset months away
// from t. Computing from the first of the month avoids day overflow.
func monthBounds(t time.Time, offset int) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m+time.Month(offset), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// categoryBuckets groups by category in first-appearance order, then stably
// sorts by total descending so equal totals keep that order.
func categoryBuckets(records []Record) []CategoryBucket {
	index := make(map[string]int)
	buckets := []CategoryBucket{}
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(buckets)
			index[r.Category] = i
			buckets = append(buckets, CategoryBucket{Category: r.Category, Total: decimal.Zero})
		}
		buckets[i].Total = buckets[i].Total.Add(r.Amount)
		buckets[i].Count++
	}
	slices.SortStableFunc(buckets, func(a, b CategoryBucket) int {
		return b.Total.Cmp(a.Total)
	})
	return buckets
}

type monthKey struct{ year, month int }

func monthlyBuckets(records []Record, loc *time.Location, limit int) []MonthlyBucket {
	totals := make(map[monthKey]decimal.Decimal)
	for _, r := range records {
		y, m, _ := r.Date.In(loc).Date()
		k := monthKey{y, int(m)}
		totals[k] = totals[k].Add(r.Amount)
	}

	buckets := make([]MonthlyBucket, 0, len(totals))
	for k, total := range totals {
		buckets = append(buckets, MonthlyBucket{Year: k.year, Month: k.month, Total: total})
	}
	slices.SortFunc(buckets, func(a, b MonthlyBucket) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return cmp.Compare(b.Month, a.Month)
	})
	if len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

type dayKey struct{ year, month, day int }

func dailyBuckets(records []Record, loc *time.Location, limit int) []DailyBucket {
	totals := make(map[dayKey]decimal.Decimal)
	for _, r := range records {
		y, m, d := r.Date.In(loc).Date()
		k := dayKey{y, int(m), d}
		totals[k] = totals[k].Add(r.Amount)
	}

	buckets := make([]DailyBucket, 0, len(totals))
	for k, total := range totals {
		buckets = append(buckets, DailyBucket{Year: k.year, Month: k.month, Day: k.day, Total: total})
	}
	slices.SortFunc(buckets, func(a, b DailyBucket) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Month, a.Month); c != 0 {
			return c
		}
		return cmp.Compare(b.Day, a.Day)
	})
	if len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}
