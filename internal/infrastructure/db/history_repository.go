package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/damon-houk/vaddi-calculator/internal/domain/apperrors"
	"github.com/damon-houk/vaddi-calculator/internal/domain/entity"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/vaddi-calculator/internal/metrics"
)

const (
	// DefaultHistoryKey is the namespace key the history blob lives under.
	DefaultHistoryKey = "vaddi-calculator-history"
	// DefaultMaxEntries caps the history length.
	DefaultMaxEntries = 50
)

// HistoryOptions configures a HistoryRepository
type HistoryOptions struct {
	Key        string
	MaxEntries int
}

// HistoryRepository stores the whole calculation history as one JSON array
// under a single key. Every operation reads the full array, changes it in
// memory and writes it back whole.
type HistoryRepository struct {
	store      BlobStore
	key        string
	maxEntries int
	logger     logger.Logger

	// serialises read-transform-write cycles within the process
	mu sync.Mutex
}

// NewHistoryRepository creates a history store over a blob store.
// Zero options fall back to DefaultHistoryKey and DefaultMaxEntries.
func NewHistoryRepository(store BlobStore, opts HistoryOptions, log logger.Logger) *HistoryRepository {
	if opts.Key == "" {
		opts.Key = DefaultHistoryKey
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &HistoryRepository{
		store:      store,
		key:        opts.Key,
		maxEntries: opts.MaxEntries,
		logger: log.WithFields(map[string]interface{}{
			"component": "history",
			"key":       opts.Key,
		}),
	}
}

// Save prepends calc and truncates the history to the cap. Eviction follows
// insertion order, not the record timestamps.
func (r *HistoryRepository) Save(ctx context.Context, calc *entity.Calculation) (err error) {
	defer func() { metrics.HistoryOperations.WithLabelValues("save", metrics.Status(err)).Inc() }()

	if calc == nil {
		return fmt.Errorf("%w: nil calculation", apperrors.ErrInvalidCalculation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx)
	if err != nil {
		return err
	}

	updated := make([]entity.Calculation, 0, len(current)+1)
	updated = append(updated, *calc)
	updated = append(updated, current...)

	evicted := 0
	if len(updated) > r.maxEntries {
		evicted = len(updated) - r.maxEntries
		updated = updated[:r.maxEntries]
	}

	if err := r.write(ctx, updated); err != nil {
		return err
	}

	r.logger.Debug("Calculation saved", map[string]interface{}{
		"id":      calc.ID,
		"entries": len(updated),
		"evicted": evicted,
	})
	return nil
}

// List returns the stored history, most recent first. A missing or
// undecodable blob yields an empty slice; only backend failures are returned.
func (r *HistoryRepository) List(ctx context.Context) (calcs []entity.Calculation, err error) {
	defer func() { metrics.HistoryOperations.WithLabelValues("list", metrics.Status(err)).Inc() }()

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

// FindByID returns the first stored calculation with the given ID
func (r *HistoryRepository) FindByID(ctx context.Context, id string) (*entity.Calculation, error) {
	calcs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range calcs {
		if calcs[i].ID == id {
			return &calcs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrCalculationNotFound, id)
}

// DeleteByID removes every calculation whose ID matches. Nothing is written
// when no entry matches.
func (r *HistoryRepository) DeleteByID(ctx context.Context, id string) (err error) {
	defer func() { metrics.HistoryOperations.WithLabelValues("delete", metrics.Status(err)).Inc() }()

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]entity.Calculation, 0, len(current))
	for _, c := range current {
		if c.ID != id {
			kept = append(kept, c)
		}
	}

	if len(kept) == len(current) {
		r.logger.Debug("No calculation to delete", map[string]interface{}{"id": id})
		return nil
	}

	if err := r.write(ctx, kept); err != nil {
		return err
	}

	r.logger.Debug("Calculation deleted", map[string]interface{}{
		"id":      id,
		"removed": len(current) - len(kept),
		"entries": len(kept),
	})
	return nil
}

// ClearAll removes the history blob. Clearing an absent history succeeds.
func (r *HistoryRepository) ClearAll(ctx context.Context) (err error) {
	defer func() { metrics.HistoryOperations.WithLabelValues("clear", metrics.Status(err)).Inc() }()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, r.key); err != nil {
		r.logger.Error("Failed to clear history", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	metrics.HistoryEntries.Set(0)
	r.logger.Debug("History cleared", nil)
	return nil
}

// load must be called with mu held
func (r *HistoryRepository) load(ctx context.Context) ([]entity.Calculation, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, ErrBlobNotFound) {
		return []entity.Calculation{}, nil
	}
	if err != nil {
		r.logger.Error("Failed to read history", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	var calcs []entity.Calculation
	if err := json.Unmarshal(data, &calcs); err != nil {
		metrics.HistoryDecodeFailures.Inc()
		r.logger.Warn("Stored history is unreadable, treating it as empty", map[string]interface{}{
			"error": err.Error(),
			"bytes": len(data),
		})
		return []entity.Calculation{}, nil
	}
	if calcs == nil {
		calcs = []entity.Calculation{}
	}
	return calcs, nil
}

// write must be called with mu held
func (r *HistoryRepository) write(ctx context.Context, calcs []entity.Calculation) error {
	data, err := json.Marshal(calcs)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal history: %v", apperrors.ErrInvalidCalculation, err)
	}

	if err := r.store.Put(ctx, r.key, data); err != nil {
		r.logger.Error("Failed to write history", map[string]interface{}{
			"error":   err.Error(),
			"entries": len(calcs),
		})
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	metrics.HistoryEntries.Set(float64(len(calcs)))
	return nil
}
