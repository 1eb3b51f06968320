package domain

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for all issue dates.
const dateLayout = "2006-01-02"

// Date is a civil date with day precision. Issue start and due dates carry no
// clock component on the wire, so comparisons and durations work in whole
// days.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate constructs a date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf truncates a time to its civil date in the time's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// Time returns the date at UTC midnight.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysBetween returns the signed day count from a to b.
func DaysBetween(a, b Date) int {
	return int(b.Time().Sub(a.Time()) / (24 * time.Hour))
}

// DueUrgency buckets a due date by how soon it falls relative to today.
type DueUrgency int

// Urgency buckets, most urgent first. The day thresholds mirror the card
// badge coloring: overdue, due within a day, within three days, within a
// week, later.
const (
	DueOverdue DueUrgency = iota
	DueImminent
	DueSoon
	DueThisWeek
	DueLater
)

// UrgencyOf buckets due relative to today.
func UrgencyOf(due, today Date) DueUrgency {
	days := DaysBetween(today, due)
	switch {
	case days < 0:
		return DueOverdue
	case days <= 1:
		return DueImminent
	case days <= 3:
		return DueSoon
	case days <= 7:
		return DueThisWeek
	default:
		return DueLater
	}
}
