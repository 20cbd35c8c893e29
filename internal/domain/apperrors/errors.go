// Package apperrors holds the sentinel errors shared across layers.
package apperrors

import "errors"

var (
	// ErrCalculationNotFound indicates that no stored calculation has the given ID.
	ErrCalculationNotFound = errors.New("calculation not found")

	// ErrStorageUnavailable indicates that the backing key-value store could not be
	// read or written. The operation was not durable.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidCalculation indicates a record that breaks the calculation invariants.
	ErrInvalidCalculation = errors.New("invalid calculation")

	// ErrEmptyID indicates a calculation without an ID.
	ErrEmptyID = errors.New("ID cannot be empty")
)
