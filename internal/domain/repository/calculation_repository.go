// Package repository declares the persistence contracts used by the services.
package repository

import (
	"context"

	"github.com/damon-houk/vaddi-calculator/internal/domain/entity"
)

// CalculationRepository defines the calculation history store.
// The history is ordered most-recent-first by insertion and bounded in size.
type CalculationRepository interface {
	// Save prepends a calculation, evicting the oldest entries beyond the cap
	Save(ctx context.Context, calc *entity.Calculation) error

	// List returns the whole history, most recent first. Unreadable stored data
	// is reported as an empty history, not as an error.
	List(ctx context.Context) ([]entity.Calculation, error)

	// FindByID returns a single stored calculation
	FindByID(ctx context.Context, id string) (*entity.Calculation, error)

	// DeleteByID removes every calculation with the given ID. A missing ID is not an error.
	DeleteByID(ctx context.Context, id string) error

	// ClearAll drops the whole history
	ClearAll(ctx context.Context) error
}
