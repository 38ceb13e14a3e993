package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

// SweepConfig holds the per-step delay thresholds for the reminder sequence.
// Delays are measured from the record's updated_at; since updated_at also
// advances when a reminder is dispatched, each step's delay effectively
// measures from the previous step or the shopper's last activity, whichever
// came later.
type SweepConfig struct {
	StepDelays [domain.ReminderStepCount]time.Duration
}

// sweepUseCase implements SweepUseCase.
type sweepUseCase struct {
	config SweepConfig
	store  Store
	sender ReminderSender
	logger *slog.Logger
}

// NewSweepUseCase creates the reminder-sequence driver.
func NewSweepUseCase(
	config SweepConfig,
	store Store,
	sender ReminderSender,
	logger *slog.Logger,
) SweepUseCase {
	return &sweepUseCase{
		config: config,
		store:  store,
		sender: sender,
		logger: logger,
	}
}

// Run performs one sweep over all active records.
//
// Per-record failures (dispatch or write-back) are counted and logged but
// never abort the sweep; the affected record stays in place and the next
// sweep retries it. A crash between send and status advance can double-send,
// an accepted tradeoff: a record is never silently dropped on transient
// failure. The run stops between records when ctx is cancelled; unprocessed
// records are picked up by the next sweep.
func (uc *sweepUseCase) Run(ctx context.Context) (*SweepResult, error) {
	runID := uuid.Must(uuid.NewV7()).String()

	records, err := uc.store.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active records")
	}

	result := &SweepResult{
		RunID: runID,
		Seen:  len(records),
	}

	if uc.logger != nil {
		uc.logger.Info("sweep started",
			slog.String("run_id", runID),
			slog.Int("active_records", result.Seen),
		)
	}

	now := time.Now().UTC()

	for _, record := range records {
		select {
		case <-ctx.Done():
			if uc.logger != nil {
				uc.logger.Info("sweep interrupted",
					slog.String("run_id", runID),
					slog.Int("advanced", result.Advanced),
					slog.Int("failed", result.Failed),
				)
			}
			return result, ctx.Err()
		default:
		}

		step, ok := record.Status.PendingStep()
		if !ok {
			// ListActive filters terminal records; a racing conversion can
			// still slip one in. Nothing to do for it.
			continue
		}

		if now.Sub(record.UpdatedAt) < uc.config.StepDelays[step-1] {
			result.Skipped++
			continue
		}

		if err := uc.sender.Send(ctx, step, record); err != nil {
			// Record left unchanged so the next sweep retries the step.
			result.Failed++
			if uc.logger != nil {
				uc.logger.Error("reminder dispatch failed",
					slog.String("run_id", runID),
					slog.String("email_hash", hashEmail(record.Email)),
					slog.Int("step", step),
					slog.Any("error", err),
				)
			}
			continue
		}

		next, _ := domain.AfterStep(step)
		record.Status = next
		record.UpdatedAt = time.Now().UTC()

		if err := uc.store.Upsert(ctx, record); err != nil {
			// The send went out but the advance was lost; the next sweep
			// re-dispatches this step (at-least-once delivery).
			result.Failed++
			if uc.logger != nil {
				uc.logger.Error("failed to persist status advance",
					slog.String("run_id", runID),
					slog.String("email_hash", hashEmail(record.Email)),
					slog.Int("step", step),
					slog.Any("error", err),
				)
			}
			continue
		}

		result.Advanced++
		if uc.logger != nil {
			uc.logger.Info("reminder dispatched",
				slog.String("run_id", runID),
				slog.String("email_hash", hashEmail(record.Email)),
				slog.Int("step", step),
				slog.String("status", string(next)),
			)
		}
	}

	if uc.logger != nil {
		uc.logger.Info("sweep completed",
			slog.String("run_id", runID),
			slog.Int("active_records", result.Seen),
			slog.Int("advanced", result.Advanced),
			slog.Int("failed", result.Failed),
			slog.Int("skipped", result.Skipped),
		)
	}

	return result, nil
}

// hashEmail produces a short stable digest for log correlation without
// writing the raw address to logs.
func hashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])[:12]
}
