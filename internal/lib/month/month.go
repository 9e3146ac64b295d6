// Package month contains calendar-month helpers shared by storage, services
// and the analytics pipeline. Every value produced here is the first instant
// of a month in UTC, so two months can be compared with Before/After/Equal.
package month

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the textual month format used in codes, buckets and requests.
const Layout = "01/2006"

// ErrInvalid is returned when a month label cannot be parsed.
var ErrInvalid = errors.New("month must be in format MM/YYYY")

// Parse converts "MM/YYYY" into the first day of that month in UTC.
func Parse(label string) (time.Time, error) {
	const op = "month.Parse"

	t, err := time.Parse(Layout, strings.TrimSpace(label))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %q: %w", op, label, ErrInvalid)
	}
	return t, nil
}

// Format returns the "MM/YYYY" label of the month t falls into.
func Format(t time.Time) string {
	return Start(t).Format(Layout)
}

// Start truncates t to the first instant of its month.
func Start(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last calendar day of the month t falls into.
func End(t time.Time) time.Time {
	return Add(t, 1).AddDate(0, 0, -1)
}

// Add moves n months forward (or backward for negative n) from the month of t.
// Unlike time.AddDate it never spills into the following month on day 31.
func Add(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// Between counts whole months from the month of `from` to the month of `to`.
// The result is negative when from is after to.
func Between(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// Months lists every month from `from` to `to` inclusive. An inverted window
// yields an empty, non-nil slice.
func Months(from, to time.Time) []time.Time {
	n := Between(from, to)
	if n < 0 {
		return []time.Time{}
	}

	result := make([]time.Time, 0, n+1)
	for i := 0; i <= n; i++ {
		result = append(result, Add(from, i))
	}
	return result
}

// Range is Months rendered as "MM/YYYY" labels.
func Range(from, to time.Time) []string {
	months := Months(from, to)
	labels := make([]string, 0, len(months))
	for _, m := range months {
		labels = append(labels, m.Format(Layout))
	}
	return labels
}

// Covers reports whether month m lies inside [start, end] at month granularity.
func Covers(start, end, m time.Time) bool {
	m = Start(m)
	return !m.Before(Start(start)) && !m.After(Start(end))
}

// Overlaps reports whether two inclusive month intervals share at least one month.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !Start(aStart).After(Start(bEnd)) && !Start(bStart).After(Start(aEnd))
}
