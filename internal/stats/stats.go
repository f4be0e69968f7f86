// Package stats implements the pure aggregation functions over ledger
// entries: totals, category breakdowns, daily histograms and percentage
// deltas. Every function is deterministic, takes an immutable snapshot of
// entries and retains no state between calls.
package stats

import "ledger/internal/core"

// Summary holds the aggregate totals for a set of entries.
type Summary struct {
	TotalIncome      core.Money
	TotalExpense     core.Money
	Balance          core.Money
	TransactionCount int

	// OverallBalance is the all-time income-minus-expense value, set only
	// when the caller requested overall-balance mode and the unranged
	// lookup succeeded. When set, Balance carries the same value.
	OverallBalance *core.Money
}

// CategoryBucket is one grouped-and-summed output unit for a category.
type CategoryBucket struct {
	Name  string
	Value core.Money
	Color string
}

// TrendPoint is one month of the trailing-12-months trend series.
type TrendPoint struct {
	Month   string // human label, e.g. "Jan 2024"
	Key     string // machine key, e.g. "2024-01"
	Income  core.Money
	Expense core.Money
	Balance core.Money
}

// Change holds period-over-period percentage deltas.
type Change struct {
	Income   float64
	Expenses float64
	Balance  float64
}

// Comparison pairs two period summaries with their percentage deltas.
type Comparison struct {
	Current  Summary
	Previous Summary
	Change   Change
}

// Summarize reduces a list of entries into income/expense/balance totals.
// Balance is income minus expense; overall-balance overrides are applied
// by the caller, not here.
func Summarize(entries []core.Entry) Summary {
	var s Summary
	for _, e := range entries {
		if e.Type == core.Income {
			s.TotalIncome = s.TotalIncome.Add(e.Amount)
		} else {
			s.TotalExpense = s.TotalExpense.Add(e.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	s.TransactionCount = len(entries)
	return s
}

// CategoryBreakdown groups expense entries by category name, summing
// amounts per bucket. Income entries are ignored. Grouping is by the
// category NAME string, so two categories sharing a name merge into one
// bucket; entries without a category fall into "Uncategorized". Buckets
// come back in first-seen order, not sorted.
func CategoryBreakdown(entries []core.Entry) []CategoryBucket {
	index := make(map[string]int)
	buckets := make([]CategoryBucket, 0)
	for _, e := range entries {
		if e.Type != core.Expense {
			continue
		}
		name := e.CategoryName()
		i, seen := index[name]
		if !seen {
			i = len(buckets)
			index[name] = i
			buckets = append(buckets, CategoryBucket{Name: name, Color: e.CategoryColor()})
		}
		buckets[i].Value = buckets[i].Value.Add(e.Amount)
	}
	return buckets
}

// DailyExpenses builds a sparse yyyy-MM-dd -> summed expense map. Income
// entries contribute nothing but are not an error; days without expenses
// are absent rather than present with zero.
func DailyExpenses(entries []core.Entry) map[string]core.Money {
	byDay := make(map[string]core.Money)
	for _, e := range entries {
		if e.Type != core.Expense {
			continue
		}
		key := e.Date.Key()
		byDay[key] = byDay[key].Add(e.Amount)
	}
	return byDay
}

// PercentChange computes the percentage delta from a previous-period
// baseline. A zero or negative baseline is reported as 0, never +Inf:
// true zero-baseline growth is deliberately suppressed.
func PercentChange(current, previous core.Money) float64 {
	if previous.Cents <= 0 {
		return 0
	}
	return float64(current.Cents-previous.Cents) / float64(previous.Cents) * 100
}

// Compare computes the period-over-period deltas between two summaries.
// The balance delta uses each period's own income-minus-expense value so
// that an all-time override on either summary cannot zero out the metric.
func Compare(current, previous Summary) Comparison {
	return Comparison{
		Current:  current,
		Previous: previous,
		Change: Change{
			Income:   PercentChange(current.TotalIncome, previous.TotalIncome),
			Expenses: PercentChange(current.TotalExpense, previous.TotalExpense),
			Balance: PercentChange(
				current.TotalIncome.Sub(current.TotalExpense),
				previous.TotalIncome.Sub(previous.TotalExpense),
			),
		},
	}
}
