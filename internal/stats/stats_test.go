package stats

import (
	"reflect"
	"testing"

	"ledger/internal/core"
)

func entry(t core.EntryType, cents int64, date core.Date, cat *core.Category) core.Entry {
	return core.Entry{Type: t, Amount: core.Money{Cents: cents}, Date: date, Category: cat}
}

// The scenario from the dashboard contract: one income and two expenses,
// one of them uncategorized.
func januaryEntries() []core.Entry {
	food := &core.Category{Name: "Food", Color: "#ef4444"}
	return []core.Entry{
		entry(core.Income, 10000, core.NewDate(2024, 1, 5), nil),
		entry(core.Expense, 4000, core.NewDate(2024, 1, 5), food),
		entry(core.Expense, 1000, core.NewDate(2024, 1, 6), nil),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(januaryEntries())
	if s.TotalIncome.Cents != 10000 {
		t.Fatalf("expected income 10000, got %d", s.TotalIncome.Cents)
	}
	if s.TotalExpense.Cents != 5000 {
		t.Fatalf("expected expense 5000, got %d", s.TotalExpense.Cents)
	}
	if s.Balance.Cents != 5000 {
		t.Fatalf("expected balance 5000, got %d", s.Balance.Cents)
	}
	if s.TransactionCount != 3 {
		t.Fatalf("expected count 3, got %d", s.TransactionCount)
	}
	if s.OverallBalance != nil {
		t.Fatalf("overall balance must not be set by Summarize")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalIncome.Cents != 0 || s.TotalExpense.Cents != 0 || s.Balance.Cents != 0 || s.TransactionCount != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestSummarizeNegativeBalance(t *testing.T) {
	s := Summarize([]core.Entry{
		entry(core.Income, 100, core.NewDate(2024, 1, 1), nil),
		entry(core.Expense, 300, core.NewDate(2024, 1, 2), nil),
	})
	if s.Balance.Cents != -200 {
		t.Fatalf("expected balance -200, got %d", s.Balance.Cents)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	got := CategoryBreakdown(januaryEntries())
	want := []CategoryBucket{
		{Name: "Food", Value: core.Money{Cents: 4000}, Color: "#ef4444"},
		{Name: core.UncategorizedName, Value: core.Money{Cents: 1000}, Color: core.UncategorizedColor},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestCategoryBreakdownFirstSeenOrder(t *testing.T) {
	a := &core.Category{Name: "Zoo", Color: "#111111"}
	b := &core.Category{Name: "Art", Color: "#222222"}
	entries := []core.Entry{
		entry(core.Expense, 100, core.NewDate(2024, 1, 1), a),
		entry(core.Expense, 200, core.NewDate(2024, 1, 2), b),
		entry(core.Expense, 300, core.NewDate(2024, 1, 3), a),
	}
	got := CategoryBreakdown(entries)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	// First-seen order, not alphabetical and not by value
	if got[0].Name != "Zoo" || got[1].Name != "Art" {
		t.Fatalf("expected [Zoo Art], got [%s %s]", got[0].Name, got[1].Name)
	}
	if got[0].Value.Cents != 400 {
		t.Fatalf("expected Zoo total 400, got %d", got[0].Value.Cents)
	}
}

// Categories sharing a name merge into one bucket: grouping is by the
// name string, not the id.
func TestCategoryBreakdownMergesByName(t *testing.T) {
	first := &core.Category{ID: 1, Name: "Food", Color: "#ef4444"}
	second := &core.Category{ID: 2, Name: "Food", Color: "#00ff00"}
	got := CategoryBreakdown([]core.Entry{
		entry(core.Expense, 100, core.NewDate(2024, 1, 1), first),
		entry(core.Expense, 250, core.NewDate(2024, 1, 2), second),
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 merged bucket, got %d", len(got))
	}
	if got[0].Value.Cents != 350 {
		t.Fatalf("expected merged total 350, got %d", got[0].Value.Cents)
	}
	// First-seen category supplies the color
	if got[0].Color != "#ef4444" {
		t.Fatalf("expected first-seen color, got %q", got[0].Color)
	}
}

// Bucket values must add up to the expense total of the same entry set.
func TestCategoryBreakdownSumsMatchExpenseTotal(t *testing.T) {
	entries := januaryEntries()
	var bucketSum int64
	for _, b := range CategoryBreakdown(entries) {
		bucketSum += b.Value.Cents
	}
	if expense := Summarize(entries).TotalExpense.Cents; bucketSum != expense {
		t.Fatalf("bucket sum %d != expense total %d", bucketSum, expense)
	}
}

func TestDailyExpenses(t *testing.T) {
	got := DailyExpenses(januaryEntries())
	want := map[string]core.Money{
		"2024-01-05": {Cents: 4000},
		"2024-01-06": {Cents: 1000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	// Income days without expenses stay absent, never zero-valued
	if _, present := got["2024-01-07"]; present {
		t.Fatalf("zero-expense day must be absent from the map")
	}
}

func TestDailyExpensesSumsMatchExpenseTotal(t *testing.T) {
	entries := januaryEntries()
	var daySum int64
	for _, v := range DailyExpenses(entries) {
		daySum += v.Cents
	}
	if expense := Summarize(entries).TotalExpense.Cents; daySum != expense {
		t.Fatalf("day sum %d != expense total %d", daySum, expense)
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name     string
		current  int64
		previous int64
		want     float64
	}{
		{"growth", 15000, 10000, 50},
		{"decline", 5000, 10000, -50},
		{"flat", 10000, 10000, 0},
		{"zero baseline suppressed", 50000, 0, 0},
		{"negative baseline suppressed", 50000, -100, 0},
	}
	for _, tc := range cases {
		got := PercentChange(core.Money{Cents: tc.current}, core.Money{Cents: tc.previous})
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

// The comparison contract: an empty previous period suppresses every
// delta to 0 rather than reporting infinite growth.
func TestCompareZeroBaseline(t *testing.T) {
	current := Summary{
		TotalIncome:  core.Money{Cents: 20000},
		TotalExpense: core.Money{Cents: 5000},
		Balance:      core.Money{Cents: 15000},
	}
	c := Compare(current, Summary{})
	if c.Change.Income != 0 || c.Change.Expenses != 0 || c.Change.Balance != 0 {
		t.Fatalf("expected all-zero change, got %+v", c.Change)
	}
}

func TestCompare(t *testing.T) {
	current := Summarize([]core.Entry{
		entry(core.Income, 30000, core.NewDate(2024, 2, 1), nil),
		entry(core.Expense, 10000, core.NewDate(2024, 2, 2), nil),
	})
	previous := Summarize([]core.Entry{
		entry(core.Income, 20000, core.NewDate(2024, 1, 1), nil),
		entry(core.Expense, 8000, core.NewDate(2024, 1, 2), nil),
	})
	c := Compare(current, previous)
	if c.Change.Income != 50 {
		t.Fatalf("expected income change 50, got %v", c.Change.Income)
	}
	if c.Change.Expenses != 25 {
		t.Fatalf("expected expenses change 25, got %v", c.Change.Expenses)
	}
	// (20000 - 12000) / 12000 * 100
	if want := float64(20000-12000) / 12000 * 100; c.Change.Balance != want {
		t.Fatalf("expected balance change %v, got %v", want, c.Change.Balance)
	}
}

// Pure function law: same input, same output, no input mutation.
func TestAggregatorsAreIdempotent(t *testing.T) {
	entries := januaryEntries()
	snapshot := make([]core.Entry, len(entries))
	copy(snapshot, entries)

	first := Summarize(entries)
	second := Summarize(entries)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Summarize not idempotent: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(CategoryBreakdown(entries), CategoryBreakdown(entries)) {
		t.Fatalf("CategoryBreakdown not idempotent")
	}
	if !reflect.DeepEqual(DailyExpenses(entries), DailyExpenses(entries)) {
		t.Fatalf("DailyExpenses not idempotent")
	}
	if !reflect.DeepEqual(entries, snapshot) {
		t.Fatalf("aggregators mutated their input")
	}
}
