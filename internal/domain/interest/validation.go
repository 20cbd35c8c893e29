package interest

import (
	"fmt"
	"math"
	"time"
)

// Reason keys double as translation keys for the UI.
const (
	ReasonFillAllFields     = "fillAllFields"
	ReasonEndDateError      = "endDateError"
	ReasonInvalidNumbers    = "invalidNumbers"
	ReasonPrincipalTooLarge = "principalTooLarge"
	ReasonRateTooLarge      = "rateTooLarge"
	ReasonInvalidDate       = "invalidDate"
)

const (
	// DefaultMaxPrincipal is the largest principal the calculator accepts.
	DefaultMaxPrincipal = 999999999
	// DefaultMaxRate bounds the rate in either mode.
	DefaultMaxRate = 200
)

// ValidationError is returned instead of a Result when inputs are unusable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Limits bounds the accepted inputs. A zero bound is not enforced.
type Limits struct {
	MaxPrincipal float64
	MaxRate      float64
}

// DefaultLimits returns the limits used when none are configured
func DefaultLimits() Limits {
	return Limits{MaxPrincipal: DefaultMaxPrincipal, MaxRate: DefaultMaxRate}
}

// Input is a calculation request with already-parsed values.
type Input struct {
	Principal   float64
	Rate        float64
	PercentMode bool
	StartDate   time.Time
	EndDate     time.Time
}

// Validate checks the preconditions of ComputeInterest.
func (l Limits) Validate(in Input) error {
	if in.StartDate.IsZero() {
		return &ValidationError{Field: "startDate", Reason: ReasonFillAllFields}
	}
	if in.EndDate.IsZero() {
		return &ValidationError{Field: "endDate", Reason: ReasonFillAllFields}
	}
	if in.EndDate.Before(in.StartDate) {
		return &ValidationError{Field: "endDate", Reason: ReasonEndDateError}
	}
	if !isPositive(in.Principal) {
		return &ValidationError{Field: "principal", Reason: ReasonInvalidNumbers}
	}
	if l.MaxPrincipal > 0 && in.Principal > l.MaxPrincipal {
		return &ValidationError{Field: "principal", Reason: ReasonPrincipalTooLarge}
	}
	if !isPositive(in.Rate) {
		return &ValidationError{Field: "interestRate", Reason: ReasonInvalidNumbers}
	}
	if l.MaxRate > 0 && in.Rate > l.MaxRate {
		return &ValidationError{Field: "interestRate", Reason: ReasonRateTooLarge}
	}
	return nil
}

// Calculate validates in and, only when it is valid, computes the interest.
// A result that overflows to a non-finite value is rejected as invalid input.
func (l Limits) Calculate(in Input) (Result, error) {
	if err := l.Validate(in); err != nil {
		return Result{}, err
	}

	res := ComputeInterest(in.Principal, in.Rate, in.StartDate, in.EndDate, in.PercentMode)
	if !isFinite(res.Interest) || !isFinite(in.Principal+res.Interest) || !isFinite(res.MonthlyRate) {
		return Result{}, &ValidationError{Field: "interestRate", Reason: ReasonInvalidNumbers}
	}
	return res, nil
}

func isPositive(v float64) bool {
	return isFinite(v) && v > 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
