package core

import (
	"testing"
	"time"
)

func TestEntryTypeValidate(t *testing.T) {
	if err := Income.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Expense.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := EntryType("transfer").Validate(); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestEntryValidate(t *testing.T) {
	good := Entry{
		Type:   Expense,
		Amount: Money{Cents: 100},
		Date:   NewDate(2025, 1, 1),
		Category: &Category{
			Name:  "Food",
			Color: "#ef4444",
		},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Entry{
		{Type: "giro", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1)},
		{Type: Income, Amount: Money{Cents: 0}, Date: NewDate(2025, 1, 1)},
		{Type: Income, Amount: Money{Cents: 1}, Date: Date{}},
		{Type: Expense, Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Category: &Category{Name: "  "}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestEntryCategoryDefaults(t *testing.T) {
	e := Entry{Type: Expense, Amount: Money{Cents: 100}, Date: NewDate(2025, 1, 1)}
	if got := e.CategoryName(); got != UncategorizedName {
		t.Fatalf("expected %q, got %q", UncategorizedName, got)
	}
	if got := e.CategoryColor(); got != UncategorizedColor {
		t.Fatalf("expected %q, got %q", UncategorizedColor, got)
	}

	e.Category = &Category{Name: "Food", Color: "#ef4444"}
	if got := e.CategoryName(); got != "Food" {
		t.Fatalf("expected Food, got %q", got)
	}
	if got := e.CategoryColor(); got != "#ef4444" {
		t.Fatalf("expected #ef4444, got %q", got)
	}
}

func TestDateKeys(t *testing.T) {
	d := NewDate(2024, 1, 5)
	if got := d.Key(); got != "2024-01-05" {
		t.Fatalf("expected 2024-01-05, got %q", got)
	}
	if got := d.MonthKey(); got != "2024-01" {
		t.Fatalf("expected 2024-01, got %q", got)
	}
}
