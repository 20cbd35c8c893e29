package interest

import "time"

// Result holds the output of ComputeInterest. No rounding is applied.
type Result struct {
	Interest float64 `json:"interest"`
	// MonthlyRate is rate/12 in percent mode. Otherwise it is the back-computed
	// figure rate*12/principal*100, which is only ever displayed.
	MonthlyRate float64  `json:"monthlyRate"`
	Duration    Duration `json:"duration"`
}

// ComputeInterest applies simple interest to principal between start and end.
//
// With percentMode the rate is a yearly percentage:
//
//	interest = principal * rate * months / (100 * 12)
//
// Otherwise the rate is currency units owed per 100 of principal per month:
//
//	interest = principal * rate * months / 100
//
// Inputs are expected to be validated already; see Calculate.
func ComputeInterest(principal, rate float64, start, end time.Time, percentMode bool) Result {
	d := ComputeDuration(start, end)
	totalMonths := d.TotalMonths()

	var res Result
	res.Duration = d
	if percentMode {
		res.Interest = (principal * rate * totalMonths) / (100 * 12)
		res.MonthlyRate = rate / 12
	} else {
		res.Interest = (principal * rate * totalMonths) / 100
		res.MonthlyRate = ((rate * 12) / principal) * 100
	}
	return res
}
