package entities

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the calendar date format used on the wire and in seed files.
const DateLayout = "2006-01-02"

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// LowerKey lowercases s for case-insensitive uniqueness keys. The value is
// otherwise kept as is, so the key always matches the stored record.
// A Caser is stateful, so a fresh one is built per call.
func LowerKey(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ToDate drops the clock part of t, keeping its calendar date in UTC.
func ToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// today returns the current calendar date.
func today() time.Time {
	return ToDate(timeNow())
}
