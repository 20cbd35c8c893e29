// Package interest computes simple interest over a date range.
//
// Elapsed time uses calendar-field subtraction where a borrowed month is always
// 30 days. This is the lending convention the calculator implements and differs
// from actual day counts for partial months.
package interest

import "time"

// daysPerMonth is the fixed month length used both for borrowing and for
// prorating the remaining days into a fraction of a month.
const daysPerMonth = 30

// Duration is the elapsed span between two dates.
type Duration struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// IsZero reports whether every component is zero
func (d Duration) IsZero() bool {
	return d.Years == 0 && d.Months == 0 && d.Days == 0
}

// TotalMonths converts the duration into months, counting days as 1/30 month.
func (d Duration) TotalMonths() float64 {
	return float64(d.Years*12+d.Months) + float64(d.Days)/daysPerMonth
}

// ComputeDuration returns the span from start to end. An end before start
// yields a zero duration rather than an error.
func ComputeDuration(start, end time.Time) Duration {
	if end.Before(start) {
		return Duration{}
	}

	startYear, startMonth, startDay := start.Date()
	endYear, endMonth, endDay := end.Date()

	ey, em, ed := endYear, int(endMonth), endDay
	if ed < startDay {
		ed += daysPerMonth
		em--
	}
	if em < int(startMonth) {
		em += 12
		ey--
	}

	return Duration{
		Years:  ey - startYear,
		Months: em - int(startMonth),
		Days:   ed - startDay,
	}
}
