package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// UncategorizedName and UncategorizedColor are used for entries without a category.
const (
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#6b7280"
)

type (
	// EntryType discriminates the direction of an entry. Amounts are always
	// non-negative; the sign is carried here, never by the number.
	EntryType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Category is an optional tag on an entry.
	Category struct {
		ID    int64
		Name  string
		Color string
	}

	// Entry is one income or expense record.
	Entry struct {
		ID       int64
		Type     EntryType
		Amount   Money
		Date     Date
		Category *Category // nil means uncategorized
		Note     string
	}
)

var (
	ErrInvalidType   = errors.New("invalid entry type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrNoteTooLong   = errors.New("note too long (max 200 characters)")
)

func (t EntryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// NewDate creates a new Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a day key in yyyy-MM-dd form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf truncates t to day granularity in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Key returns the day key in yyyy-MM-dd form.
func (d Date) Key() string {
	return d.Format("2006-01-02")
}

// MonthKey returns the machine month key in yyyy-MM form.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// Before reports whether d is on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m minus other. The result may be negative (balances).
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (e Entry) Validate() error {
	if err := e.Type.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Note) > 200 {
		return ErrNoteTooLong
	}
	if e.Category != nil && strings.TrimSpace(e.Category.Name) == "" {
		return errors.New("category name cannot be empty")
	}
	return nil
}

// CategoryName returns the grouping name for the entry's category.
// Entries without a category fall into the Uncategorized bucket.
func (e Entry) CategoryName() string {
	if e.Category == nil || strings.TrimSpace(e.Category.Name) == "" {
		return UncategorizedName
	}
	return e.Category.Name
}

// CategoryColor returns the display color for the entry's category.
func (e Entry) CategoryColor() string {
	if e.Category == nil || e.Category.Color == "" {
		return UncategorizedColor
	}
	return e.Category.Color
}
