// Package datetime provides calendar date utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-schedule/pkg/constants"
)

const (
	// DateLayout is the ISO-8601 date format expected in config files and
	// API payloads.
	DateLayout = constants.DateLayout
)

// ParseDate parses an ISO-8601 calendar date. A full RFC 3339 timestamp is
// also accepted, in which case only its date part is kept.
func ParseDate(value string) (civil.Date, error) {
	trimmed := strings.TrimSpace(value)
	if d, err := civil.ParseDate(trimmed); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return civil.DateOf(t), nil
}

// MustParseDate parses a date string and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(value string) civil.Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// AddMonths returns the date offset by the given number of calendar months.
// Day overflow normalizes forward the way time.AddDate does, so Jan 31 plus
// one month is Mar 2 (or Mar 3 in a non-leap year).
func AddMonths(d civil.Date, months int) civil.Date {
	return civil.DateOf(d.In(time.UTC).AddDate(0, months, 0))
}

// InWindow reports whether d falls in the half-open period window
// (previous, current].
func InWindow(d, previous, current civil.Date) bool {
	return previous.Before(d) && !d.After(current)
}

// Label renders a date as a short month label such as "Feb 2024".
func Label(d civil.Date) string {
	return d.In(time.UTC).Format(constants.DisplayDateLayout)
}

// Format renders a date in DateLayout.
func Format(d civil.Date) string {
	return d.In(time.UTC).Format(DateLayout)
}
