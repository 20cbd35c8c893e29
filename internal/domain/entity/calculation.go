package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/damon-houk/vaddi-calculator/internal/domain/apperrors"
)

// Calculation is a persisted interest calculation.
// Field names on the wire match the history blob written by earlier clients.
type Calculation struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Label         string    `json:"label"`
	Principal     float64   `json:"principal"`
	InterestRate  float64   `json:"interestRate"`
	IsPercentMode bool      `json:"isPercentMode"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Interest      float64   `json:"interest"`
	Total         float64   `json:"total"`
}

// NewCalculation builds a record whose total is always principal + interest.
func NewCalculation(id string, timestamp time.Time, label string, principal, rate float64,
	percentMode bool, start, end time.Time, interest float64) *Calculation {
	return &Calculation{
		ID:            id,
		Timestamp:     timestamp,
		Label:         label,
		Principal:     principal,
		InterestRate:  rate,
		IsPercentMode: percentMode,
		StartDate:     start,
		EndDate:       end,
		Interest:      interest,
		Total:         principal + interest,
	}
}

// Validate ensures the record can be stored
func (c *Calculation) Validate() error {
	if c.ID == "" {
		return apperrors.ErrEmptyID
	}

	if c.Principal <= 0 {
		return fmt.Errorf("%w: principal must be a positive value", apperrors.ErrInvalidCalculation)
	}

	if c.InterestRate <= 0 {
		return fmt.Errorf("%w: interest rate must be a positive value", apperrors.ErrInvalidCalculation)
	}

	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("%w: end date is before start date", apperrors.ErrInvalidCalculation)
	}

	if c.Interest < 0 || math.IsNaN(c.Interest) || math.IsInf(c.Interest, 0) {
		return fmt.Errorf("%w: interest must be a non-negative number", apperrors.ErrInvalidCalculation)
	}

	if c.Total != c.Principal+c.Interest {
		return fmt.Errorf("%w: total does not equal principal plus interest", apperrors.ErrInvalidCalculation)
	}

	return nil
}
