package handler

import (
	"time"

	"github.com/damon-houk/vaddi-calculator/internal/domain/interest"
)

// CalculationRequest is the body of the quote and calculation endpoints.
// Amounts are pointers so that an absent field is told apart from zero.
type CalculationRequest struct {
	Principal     *float64 `json:"principal"`
	InterestRate  *float64 `json:"interestRate"`
	IsPercentMode bool     `json:"isPercentMode"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	Label         string   `json:"label,omitempty"`
}

// DisplayAmounts are pre-formatted strings in South Asian digit grouping
type DisplayAmounts struct {
	Principal string `json:"principal"`
	Rate      string `json:"rate"`
	Interest  string `json:"interest"`
	Total     string `json:"total"`
}

// QuoteResponse is returned by the quote endpoint
type QuoteResponse struct {
	Interest     float64           `json:"interest"`
	Total        float64           `json:"total"`
	MonthlyRate  float64           `json:"monthlyRate"`
	Duration     interest.Duration `json:"duration"`
	DurationText string            `json:"durationText"`
	Display      DisplayAmounts    `json:"display"`
}

// CalculationResponse is one stored calculation plus display data
type CalculationResponse struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Label         string            `json:"label"`
	Principal     float64           `json:"principal"`
	InterestRate  float64           `json:"interestRate"`
	IsPercentMode bool              `json:"isPercentMode"`
	StartDate     string            `json:"startDate"`
	EndDate       string            `json:"endDate"`
	Interest      float64           `json:"interest"`
	Total         float64           `json:"total"`
	Duration      interest.Duration `json:"duration"`
	DurationText  string            `json:"durationText"`
	Display       DisplayAmounts    `json:"display"`
}

// CreateCalculationResponse is returned after a calculation is computed and stored
type CreateCalculationResponse struct {
	CalculationResponse
	MonthlyRate float64 `json:"monthlyRate"`
	Saved       bool    `json:"saved"`
	Warning     string  `json:"warning,omitempty"`
}

// HistoryResponse lists stored calculations, most recent first
type HistoryResponse struct {
	Calculations []CalculationResponse `json:"calculations"`
	Count        int                   `json:"count"`
}

// DurationResponse is returned by the duration endpoint
type DurationResponse struct {
	interest.Duration
	TotalMonths float64 `json:"totalMonths"`
	Text        string  `json:"text"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	Field       string `json:"field,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
