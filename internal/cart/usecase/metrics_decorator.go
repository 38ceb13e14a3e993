package usecase

import (
	"context"
	"time"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	"github.com/allisson/cartkeeper/internal/metrics"
)

// activityUseCaseWithMetrics decorates ActivityUseCase with metrics instrumentation.
type activityUseCaseWithMetrics struct {
	next    ActivityUseCase
	metrics metrics.BusinessMetrics
}

// NewActivityUseCaseWithMetrics wraps an ActivityUseCase with metrics recording.
func NewActivityUseCaseWithMetrics(useCase ActivityUseCase, m metrics.BusinessMetrics) ActivityUseCase {
	return &activityUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// RecordActivity records metrics for activity ingestion operations.
func (a *activityUseCaseWithMetrics) RecordActivity(
	ctx context.Context,
	input RecordActivityInput,
) (*domain.CartActivityRecord, error) {
	start := time.Now()
	record, err := a.next.RecordActivity(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "cart", "record_activity", status)
	a.metrics.RecordDuration(ctx, "cart", "record_activity", time.Since(start), status)

	return record, err
}

// GetActiveCart records metrics for record retrieval operations.
func (a *activityUseCaseWithMetrics) GetActiveCart(
	ctx context.Context,
	email string,
) (*domain.CartActivityRecord, error) {
	start := time.Now()
	record, err := a.next.GetActiveCart(ctx, email)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "cart", "get_active_cart", status)
	a.metrics.RecordDuration(ctx, "cart", "get_active_cart", time.Since(start), status)

	return record, err
}

// MarkConverted records metrics for purchase-completed signals.
func (a *activityUseCaseWithMetrics) MarkConverted(ctx context.Context, email string) error {
	start := time.Now()
	err := a.next.MarkConverted(ctx, email)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "cart", "mark_converted", status)
	a.metrics.RecordDuration(ctx, "cart", "mark_converted", time.Since(start), status)

	return err
}

// Forget records metrics for record deletion operations.
func (a *activityUseCaseWithMetrics) Forget(ctx context.Context, email string) error {
	start := time.Now()
	err := a.next.Forget(ctx, email)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "cart", "forget", status)
	a.metrics.RecordDuration(ctx, "cart", "forget", time.Since(start), status)

	return err
}

// sweepUseCaseWithMetrics decorates SweepUseCase with metrics instrumentation.
type sweepUseCaseWithMetrics struct {
	next    SweepUseCase
	metrics metrics.BusinessMetrics
}

// NewSweepUseCaseWithMetrics wraps a SweepUseCase with metrics recording.
func NewSweepUseCaseWithMetrics(useCase SweepUseCase, m metrics.BusinessMetrics) SweepUseCase {
	return &sweepUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Run records metrics for sweep runs.
func (s *sweepUseCaseWithMetrics) Run(ctx context.Context) (*SweepResult, error) {
	start := time.Now()
	result, err := s.next.Run(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "sweep", "sweep_run", status)
	s.metrics.RecordDuration(ctx, "sweep", "sweep_run", time.Since(start), status)

	return result, err
}
