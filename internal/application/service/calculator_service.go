// Package service holds the application services the HTTP layer calls into.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/vaddi-calculator/internal/domain/apperrors"
	"github.com/damon-houk/vaddi-calculator/internal/domain/entity"
	"github.com/damon-houk/vaddi-calculator/internal/domain/interest"
	"github.com/damon-houk/vaddi-calculator/internal/domain/repository"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/middleware"
	"github.com/damon-houk/vaddi-calculator/internal/metrics"
	"github.com/damon-houk/vaddi-calculator/internal/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// LabelLayout renders the default label of a saved calculation.
const LabelLayout = "02/01/2006, 15:04:05"

// CalculationRequest carries parsed user input
type CalculationRequest struct {
	Principal   float64
	Rate        float64
	PercentMode bool
	StartDate   time.Time
	EndDate     time.Time
	// Label is optional; empty means "now" rendered with LabelLayout
	Label string
}

func (r CalculationRequest) input() interest.Input {
	return interest.Input{
		Principal:   r.Principal,
		Rate:        r.Rate,
		PercentMode: r.PercentMode,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// CalculationOutcome is the result of Calculate. When the history write fails
// the calculation is still returned with Saved false and SaveErr set.
type CalculationOutcome struct {
	Calculation entity.Calculation
	MonthlyRate float64
	Duration    interest.Duration
	Saved       bool
	SaveErr     error
}

// CalculatorService validates input, runs the interest engine and keeps the history
type CalculatorService struct {
	history repository.CalculationRepository
	limits  interest.Limits
	logger  logger.Logger
	now     func() time.Time
	newID   func() string
}

// NewCalculatorService creates a new calculator service
func NewCalculatorService(history repository.CalculationRepository, limits interest.Limits, log logger.Logger) *CalculatorService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CalculatorService{
		history: history,
		limits:  limits,
		logger:  log,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Quote computes interest without touching the history
func (s *CalculatorService) Quote(ctx context.Context, req CalculationRequest) (*interest.Result, error) {
	_, span := tracing.Tracer().Start(ctx, "CalculatorService.Quote")
	defer span.End()

	res, err := s.limits.Calculate(req.input())
	metrics.Calculations.WithLabelValues(metrics.ModeLabel(req.PercentMode), metrics.Status(err)).Inc()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &res, nil
}

// Calculate computes interest and stores the calculation at the head of the history.
// A validation failure returns *interest.ValidationError and nothing is stored.
func (s *CalculatorService) Calculate(ctx context.Context, req CalculationRequest) (*CalculationOutcome, error) {
	ctx, span := tracing.Tracer().Start(ctx, "CalculatorService.Calculate")
	defer span.End()

	requestID := middleware.GetRequestID(ctx)

	res, err := s.limits.Calculate(req.input())
	metrics.Calculations.WithLabelValues(metrics.ModeLabel(req.PercentMode), metrics.Status(err)).Inc()
	if err != nil {
		var verr *interest.ValidationError
		if errors.As(err, &verr) {
			s.logger.Info("Calculation rejected", map[string]interface{}{
				"request_id": requestID,
				"field":      verr.Field,
				"reason":     verr.Reason,
			})
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := s.now().UTC()
	label := req.Label
	if label == "" {
		label = now.Format(LabelLayout)
	}

	calc := entity.NewCalculation(s.newID(), now, label, req.Principal, req.Rate, req.PercentMode,
		req.StartDate, req.EndDate, res.Interest)

	if err := calc.Validate(); err != nil {
		s.logger.Error("Calculation failed validation", map[string]interface{}{
			"request_id": requestID,
			"id":         calc.ID,
			"error":      err.Error(),
		})
		span.SetStatus(codes.Error, err.Error())
		if !errors.Is(err, apperrors.ErrInvalidCalculation) {
			err = fmt.Errorf("%w: %v", apperrors.ErrInvalidCalculation, err)
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String("calculation.id", calc.ID),
		attribute.Bool("calculation.percent_mode", calc.IsPercentMode),
		attribute.Float64("calculation.total_months", res.Duration.TotalMonths()),
	)

	outcome := &CalculationOutcome{
		Calculation: *calc,
		MonthlyRate: res.MonthlyRate,
		Duration:    res.Duration,
	}

	if err := s.history.Save(ctx, calc); err != nil {
		s.logger.Error("Calculation not saved", map[string]interface{}{
			"request_id": requestID,
			"id":         calc.ID,
			"error":      err.Error(),
		})
		span.RecordError(err)
		outcome.SaveErr = err
		return outcome, nil
	}

	outcome.Saved = true
	s.logger.Info("Calculation saved", map[string]interface{}{
		"request_id":   requestID,
		"id":           calc.ID,
		"percent_mode": calc.IsPercentMode,
		"interest":     calc.Interest,
		"total":        calc.Total,
	})
	return outcome, nil
}

// History returns saved calculations, most recent first
func (s *CalculatorService) History(ctx context.Context) ([]entity.Calculation, error) {
	ctx, span := tracing.Tracer().Start(ctx, "CalculatorService.History")
	defer span.End()

	calcs, err := s.history.List(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("history.entries", len(calcs)))
	return calcs, nil
}

// Get returns one saved calculation
func (s *CalculatorService) Get(ctx context.Context, id string) (*entity.Calculation, error) {
	return s.history.FindByID(ctx, id)
}

// Delete removes a saved calculation; unknown IDs are ignored
func (s *CalculatorService) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.Tracer().Start(ctx, "CalculatorService.Delete")
	defer span.End()

	if err := s.history.DeleteByID(ctx, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.logger.Info("Calculation deleted", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         id,
	})
	return nil
}

// ClearHistory removes every saved calculation
func (s *CalculatorService) ClearHistory(ctx context.Context) error {
	ctx, span := tracing.Tracer().Start(ctx, "CalculatorService.ClearHistory")
	defer span.End()

	if err := s.history.ClearAll(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.logger.Info("History cleared", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
	})
	return nil
}
