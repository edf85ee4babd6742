package service

import (
	"fmt"
	"time"
)

const (
	minYear = 2000
	maxYear = 2100
)

func validateYearMonth(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidInput, minYear, maxYear)
	}
	return nil
}

// dateOnly keeps the calendar date of t, read in t's own location, as UTC
// midnight. Every stored date and every range boundary uses this form.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}

func firstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// endOfMonth returns the last instant of t's month.
func endOfMonth(t time.Time) time.Time {
	return firstOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// calendarRange widens [start, end] to whole calendar days.
func calendarRange(start, end time.Time) (time.Time, time.Time) {
	return dateOnly(start), dateOnly(end).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}
	if start.After(end) {
		return fmt.Errorf("%w: period start must be before or equal to period end", ErrInvalidInput)
	}
	return nil
}
