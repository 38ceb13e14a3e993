// Package usecase implements the abandonment lifecycle business logic:
// activity ingestion with its recency policy, the reminder-sequence sweep
// driver, and terminal-record maintenance.
package usecase

import (
	"context"
	"time"

	"github.com/allisson/cartkeeper/internal/cart/domain"
)

// Store defines the cart activity persistence operations. Implementations
// provide whole-record last-write-wins upserts; all merge logic lives in the
// use cases (read-modify-write).
type Store interface {
	// Upsert writes the full record under its email key, overwriting any
	// prior value.
	Upsert(ctx context.Context, record *domain.CartActivityRecord) error
	// Get performs a point lookup. A missing record yields an error
	// matching errors.ErrNotFound, which callers treat as a valid outcome.
	Get(ctx context.Context, email string) (*domain.CartActivityRecord, error)
	// ListActive enumerates records whose status is non-terminal. The scan
	// is best-effort: a partially failed enumeration returns what was read.
	ListActive(ctx context.Context) ([]*domain.CartActivityRecord, error)
	// ListAll enumerates every record, terminal included. Used by
	// maintenance paths; the sweep never calls it.
	ListAll(ctx context.Context) ([]*domain.CartActivityRecord, error)
	// Delete removes the record. Deleting an absent key is not an error.
	Delete(ctx context.Context, email string) error
}

// ReminderSender is the external reminder-dispatch capability. The email
// templating and delivery service behind it is out of scope; the outcome is
// binary success/failure with no partial-success state.
type ReminderSender interface {
	Send(ctx context.Context, step int, record *domain.CartActivityRecord) error
}

// CartItemInput is one reported cart line entry.
type CartItemInput struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	ImagePath      string  `json:"image_path"`
	LocalizedTitle string  `json:"localized_title"`
	Slug           string  `json:"slug"`
}

// RecordActivityInput contains the input data for an activity report.
type RecordActivityInput struct {
	Email      string          `json:"email"`
	Items      []CartItemInput `json:"items"`
	Locale     string          `json:"locale"`
	Currency   string          `json:"currency"`
	TotalValue *float64        `json:"total_value"`
}

// ActivityUseCase defines the lifecycle controller operations invoked by the
// storefront-facing endpoints.
type ActivityUseCase interface {
	// RecordActivity ingests a cart activity report, applying the recency
	// policy, and returns the resulting record.
	RecordActivity(ctx context.Context, input RecordActivityInput) (*domain.CartActivityRecord, error)
	// GetActiveCart returns the record for the email when it exists and is
	// non-terminal; otherwise a not-found error.
	GetActiveCart(ctx context.Context, email string) (*domain.CartActivityRecord, error)
	// MarkConverted records an external purchase-completed signal.
	// Idempotent on already-terminal records.
	MarkConverted(ctx context.Context, email string) error
	// Forget removes the record entirely (post-purchase cleanup).
	Forget(ctx context.Context, email string) error
}

// SweepResult aggregates the outcome of one sweep run.
type SweepResult struct {
	// RunID identifies the sweep run in logs.
	RunID string `json:"run_id"`
	// Seen is the number of active records enumerated.
	Seen int `json:"active_records"`
	// Advanced is the number of records whose reminder was dispatched and
	// status moved forward.
	Advanced int `json:"advanced"`
	// Failed is the number of records whose dispatch or write-back failed;
	// they are retried on the next sweep.
	Failed int `json:"failed"`
	// Skipped is the number not yet due for their next step.
	Skipped int `json:"skipped"`
}

// SweepUseCase drives the reminder sequence over all active records.
type SweepUseCase interface {
	Run(ctx context.Context) (*SweepResult, error)
}

// MaintenanceUseCase covers operational record hygiene, invoked from the CLI.
type MaintenanceUseCase interface {
	// CleanTerminalRecords deletes completed/converted records whose last
	// update is older than the given age. With dryRun it only counts.
	CleanTerminalRecords(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error)
}
