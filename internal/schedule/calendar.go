package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all plan dates. Dates are calendar days
// with no time or timezone component.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC-midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders a time as a YYYY-MM-DD string.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// Midnight truncates a time to its calendar day in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
// Saturdays and Sundays are the only non-working days; no holiday calendar
// is modeled.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextBusinessDay returns d itself when d is a weekday, otherwise the
// following Monday.
func NextBusinessDay(d time.Time) time.Time {
	for IsWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddBusinessDays steps forward from d one calendar day at a time, counting
// only weekdays, until n weekdays have been traversed. d itself is not
// counted, so AddBusinessDays(monday, 1) is tuesday and a task starting on
// day s with duration k ends on AddBusinessDays(s, k-1).
func AddBusinessDays(d time.Time, n int) time.Time {
	for added := 0; added < n; {
		d = d.AddDate(0, 0, 1)
		if !IsWeekend(d) {
			added++
		}
	}
	return d
}

// BusinessDaysBetween counts the weekdays in the inclusive range [from, to].
// Returns 0 when to precedes from.
func BusinessDaysBetween(from, to time.Time) int {
	from, to = Midnight(from), Midnight(to)
	n := 0
	for !from.After(to) {
		if !IsWeekend(from) {
			n++
		}
		from = from.AddDate(0, 0, 1)
	}
	return n
}
