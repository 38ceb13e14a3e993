package usecase

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

// maintenanceUseCase implements MaintenanceUseCase.
type maintenanceUseCase struct {
	store  Store
	logger *slog.Logger
}

// NewMaintenanceUseCase creates the record-hygiene use case.
func NewMaintenanceUseCase(store Store, logger *slog.Logger) MaintenanceUseCase {
	return &maintenanceUseCase{
		store:  store,
		logger: logger,
	}
}

// CleanTerminalRecords deletes completed/converted records whose last update
// is older than the given age. Terminal records are invisible to the sweep
// already; this reclaims storage. With dryRun it only reports the count.
func (uc *maintenanceUseCase) CleanTerminalRecords(
	ctx context.Context,
	olderThan time.Duration,
	dryRun bool,
) (int64, error) {
	records, err := uc.store.ListAll(ctx)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to list records")
	}

	cutoff := time.Now().UTC().Add(-olderThan)

	var count int64
	for _, record := range records {
		if !record.IsTerminal() || record.UpdatedAt.After(cutoff) {
			continue
		}

		if !dryRun {
			if err := uc.store.Delete(ctx, record.Email); err != nil {
				// Keep going; the next run picks up what was left behind.
				if uc.logger != nil {
					uc.logger.Error("failed to delete terminal record",
						slog.String("email_hash", hashEmail(record.Email)),
						slog.Any("error", err),
					)
				}
				continue
			}
		}

		count++
	}

	return count, nil
}
