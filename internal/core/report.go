package core

import (
	"sort"
	"time"
)

// DefaultTrendMonths is the trailing-window size used when a caller does not
// ask for a specific one.
const DefaultTrendMonths = 6

type (
	// CategorySpend is one slice of the category distribution, carrying the
	// registry display metadata so the caller can render it directly.
	CategorySpend struct {
		Label  string  `json:"label"`
		Amount float64 `json:"amount"`
		Color  string  `json:"color"`
		Icon   string  `json:"icon"`
	}

	// MonthSpend is one bar of the trailing monthly trend.
	MonthSpend struct {
		Month string  `json:"month"` // short month name, e.g. "Mar"
		Year  int     `json:"year"`
		Total float64 `json:"total"`
	}

	// DaySpend is one day-of-month bucket of the current month.
	DaySpend struct {
		Day   int     `json:"day"`
		Total float64 `json:"total"`
	}
)

// TotalAmount sums the amounts of a sequence of expenses. Zero for an empty
// sequence. Callers apply any date filtering before calling.
func TotalAmount(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// SpendingByCategory groups expenses by their resolved category and returns
// one entry per distinct category, sorted by amount descending. Ties keep
// grouping-encounter order. Unknown category keys are folded into the
// registry fallback before grouping, so they never produce a separate entry.
func SpendingByCategory(expenses []Expense) []CategorySpend {
	totals := make(map[string]int64)
	var order []string
	for _, e := range expenses {
		cat := ResolveCategory(e.CategoryKey)
		if _, seen := totals[cat.Key]; !seen {
			order = append(order, cat.Key)
		}
		totals[cat.Key] += e.Amount.Cents
	}

	out := make([]CategorySpend, 0, len(order))
	for _, key := range order {
		cat := ResolveCategory(key)
		out = append(out, CategorySpend{
			Label:  cat.Label,
			Amount: Money{Cents: totals[key]}.Units(),
			Color:  cat.Color,
			Icon:   cat.Icon,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// MonthlySpending buckets expenses into the trailing months-month window
// ending at now's calendar month. The result always has exactly months
// entries in chronological order, zero-filled for months with no spending,
// so a chart gets a fixed-width time axis. Expenses dated outside the window
// are ignored rather than erroring. months <= 0 falls back to the default.
func MonthlySpending(expenses []Expense, now time.Time, months int) []MonthSpend {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	type key struct{ year, month int }
	index := make(map[key]int, months)
	out := make([]MonthSpend, months)

	// Anchor on the first of the month so stepping back never normalizes
	// across month boundaries (Mar 31 minus one month is Mar 3).
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	// Initialize every month of the window so gaps show as zero bars.
	for i := 0; i < months; i++ {
		m := base.AddDate(0, -(months - 1 - i), 0)
		k := key{m.Year(), int(m.Month())}
		index[k] = i
		out[i] = MonthSpend{
			Month: m.Month().String()[:3],
			Year:  m.Year(),
		}
	}

	cents := make([]int64, months)
	for _, e := range expenses {
		k := key{e.Date.Year(), e.Date.Month()}
		if i, ok := index[k]; ok {
			cents[i] += e.Amount.Cents
		}
	}
	for i := range out {
		out[i].Total = Money{Cents: cents[i]}.Units()
	}
	return out
}

// DailySpending groups expenses by day of month. Unlike the monthly trend it
// is deliberately sparse: days with no spending produce no entry, because the
// consumer renders a bar per recorded day. Output follows encounter order;
// callers sort by day when order matters.
func DailySpending(expenses []Expense) []DaySpend {
	totals := make(map[int]int64)
	var order []int
	for _, e := range expenses {
		day := e.Date.Day()
		if _, seen := totals[day]; !seen {
			order = append(order, day)
		}
		totals[day] += e.Amount.Cents
	}

	out := make([]DaySpend, 0, len(order))
	for _, day := range order {
		out = append(out, DaySpend{Day: day, Total: Money{Cents: totals[day]}.Units()})
	}
	return out
}

// MonthWindow returns the inclusive date range covering the trailing months
// window ending at now's month: the first day of the oldest month through the
// last day of the current month. Callers use it to fetch the rows that
// MonthlySpending will bucket.
func MonthWindow(now time.Time, months int) (Date, Date) {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := base.AddDate(0, -(months - 1), 0)
	first := NewDate(start.Year(), int(start.Month()), 1)
	// Day 0 of next month is the last day of now's month.
	last := Date{Time: time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC)}
	return first, last
}

// CurrentMonthRange returns the first and last calendar day of now's month.
func CurrentMonthRange(now time.Time) (Date, Date) {
	first := NewDate(now.Year(), int(now.Month()), 1)
	last := Date{Time: time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC)}
	return first, last
}
