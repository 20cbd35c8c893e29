package interest

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form used on the wire.
const DateLayout = "2006-01-02"

// ParseDate accepts either a calendar date or a full RFC 3339 instant.
// field names the input in the returned *ValidationError.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &ValidationError{Field: field, Reason: ReasonFillAllFields}
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Reason: ReasonInvalidDate}
	}
	return t, nil
}

// CalendarDate reduces t to its calendar date at UTC midnight. A value already
// at UTC midnight is a calendar date and is kept as is; any other instant,
// such as a local midnight written as UTC, is read in loc.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return u
	}
	if loc == nil {
		loc = time.UTC
	}
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
}
