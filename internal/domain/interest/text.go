package interest

import (
	"strconv"
	"strings"
	"time"
)

// Translator maps a message key to localized text.
type Translator interface {
	T(key string) string
}

// FormatDurationText renders the span between start and end, e.g.
// "1 year, 2 months, 5 days". Zero components are omitted, except that an
// all-zero span renders as "0 days".
func FormatDurationText(start, end time.Time, tr Translator) string {
	d := ComputeDuration(start, end)

	parts := make([]string, 0, 3)
	if d.Years > 0 {
		parts = append(parts, unit(tr, d.Years, "year", "years"))
	}
	if d.Months > 0 {
		parts = append(parts, unit(tr, d.Months, "month", "months"))
	}
	if d.Days > 0 || len(parts) == 0 {
		parts = append(parts, unit(tr, d.Days, "day", "days"))
	}
	return strings.Join(parts, ", ")
}

func unit(tr Translator, n int, singular, plural string) string {
	key := plural
	if n == 1 {
		key = singular
	}
	return strconv.Itoa(n) + " " + tr.T(key)
}
