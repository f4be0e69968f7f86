package core

import (
	"errors"
	"time"
)

// Range is an inclusive [Start, End] day-granularity window. A zero Start
// or End leaves that side unbounded; the zero Range is fully unbounded.
type Range struct {
	Start Date
	End   Date
}

// Unbounded is the all-time range.
var Unbounded = Range{}

var ErrInvalidRange = errors.New("range start must not be after end")

// NewRange builds a bounded range and rejects inverted bounds. Callers are
// responsible for supplying ordered bounds; there is no defensive swap.
func NewRange(start, end Date) (Range, error) {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: start, End: end}, nil
}

// IsUnbounded reports whether neither side of the range is set.
func (r Range) IsUnbounded() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether d falls inside the range, bounds included.
func (r Range) Contains(d Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// Today returns the single-day range for the reference time.
func Today(now time.Time) Range {
	d := DateOf(now)
	return Range{Start: d, End: d}
}

// ThisWeek returns the Monday-to-today range for the reference time.
func ThisWeek(now time.Time) Range {
	offset := (int(now.Weekday()) + 6) % 7 // Monday = 0
	start := DateOf(now.AddDate(0, 0, -offset))
	return Range{Start: start, End: DateOf(now)}
}

// ThisMonth returns the first-of-month-to-today range for the reference time.
func ThisMonth(now time.Time) Range {
	return Range{Start: NewDate(now.Year(), int(now.Month()), 1), End: DateOf(now)}
}

// TrailingDays returns the range covering the last n days ending today.
func TrailingDays(now time.Time, n int) Range {
	return Range{Start: DateOf(now.AddDate(0, 0, -(n - 1))), End: DateOf(now)}
}

// YearToDate returns the January-1st-to-today range for the reference time.
func YearToDate(now time.Time) Range {
	return Range{Start: NewDate(now.Year(), 1, 1), End: DateOf(now)}
}

// MonthWindow returns the full calendar month range containing the month
// offset months before the reference time. The end date uses the actual
// number of days in that month: time.Date normalizes day 0 of the next
// month to the last day, so leap years need no special case.
func MonthWindow(now time.Time, offset int) Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -offset, 0)
	last := first.AddDate(0, 1, -1)
	return Range{Start: DateOf(first), End: DateOf(last)}
}

// MonthLabel formats a range's start month as a human-readable label,
// e.g. "Jan 2024".
func (r Range) MonthLabel() string {
	return r.Start.Format("Jan 2006")
}
