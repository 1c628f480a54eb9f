package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for stay dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Truncate drops the time-of-day component.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EachDate calls fn for every date in [from, to), check-out exclusive.
func EachDate(from, to time.Time, fn func(time.Time)) {
	for d := Truncate(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
