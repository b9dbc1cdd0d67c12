package domain

import "time"

// DateOf returns the calendar date of t as UTC midnight. The date is taken in
// t's own location, so a local evening stays on the same calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
