package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	apperrors "github.com/allisson/cartkeeper/internal/errors"
	appValidation "github.com/allisson/cartkeeper/internal/validation"
)

// LifecyclePolicy holds the tunables of the abandonment lifecycle.
type LifecyclePolicy struct {
	// ActivityWindow is the recency window: a report arriving within this
	// window of the record's last update is a continuation of the same
	// session and must not restart the reminder sequence.
	ActivityWindow time.Duration
	// SequenceContinuity keeps a stale record's reminder-sequence progress
	// when the shopper returns after going cold. When false, a stale return
	// replaces the record with a fresh pending_1 one (the prior reminders
	// are considered stale).
	SequenceContinuity bool
}

// DefaultActivityWindow is the recency window applied when no policy is
// configured. Five minutes trades off false restarts (a shopper typing
// slowly) against false continuations (a shopper returning hours later).
const DefaultActivityWindow = 5 * time.Minute

// cartActivityUseCase implements ActivityUseCase on top of a Store.
type cartActivityUseCase struct {
	store  Store
	policy LifecyclePolicy
}

// NewActivityUseCase creates the lifecycle controller with the given store
// and policy. A zero ActivityWindow falls back to DefaultActivityWindow.
func NewActivityUseCase(store Store, policy LifecyclePolicy) ActivityUseCase {
	if policy.ActivityWindow <= 0 {
		policy.ActivityWindow = DefaultActivityWindow
	}
	return &cartActivityUseCase{
		store:  store,
		policy: policy,
	}
}

// Validate checks a single reported cart line entry.
func (i CartItemInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name,
			validation.Required.Error("item name is required"),
			appValidation.NotBlank,
		),
		validation.Field(&i.Quantity,
			validation.Required.Error("item quantity is required"),
			validation.Min(1).Error("item quantity must be a positive integer"),
		),
		validation.Field(&i.UnitPrice,
			validation.Min(0.0).Error("item unit price must not be negative"),
		),
	)
}

// validateRecordActivityInput validates an activity report. Item entries are
// validated individually, so violations carry their slice index.
func (uc *cartActivityUseCase) validateRecordActivityInput(input RecordActivityInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
		),
		validation.Field(&input.Items,
			validation.Required.Error("cart items must not be empty"),
			validation.Length(1, 0).Error("cart items must not be empty"),
		),
		validation.Field(&input.Locale,
			validation.Required.Error("locale is required"),
			appValidation.Locale,
		),
		validation.Field(&input.Currency,
			validation.When(input.Currency != "", appValidation.CurrencyCode),
		),
		validation.Field(&input.TotalValue,
			validation.Min(0.0).Error("total value must not be negative"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// RecordActivity converts a raw shopper cart signal into a store mutation.
//
// A report within the activity window of a non-terminal record refreshes the
// cart contents without touching the lifecycle status, so an engaged shopper
// pinging from the cart page never restarts the reminder sequence. Anything
// else (unseen email, terminal record, or a record gone cold) starts a fresh
// tracking window at pending_1 — unless sequence continuity is enabled, in
// which case a cold return keeps its sequence position and only refreshes
// contents.
func (uc *cartActivityUseCase) RecordActivity(
	ctx context.Context,
	input RecordActivityInput,
) (*domain.CartActivityRecord, error) {
	if err := uc.validateRecordActivityInput(input); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)
	items := mapItemInputs(input.Items)
	now := time.Now().UTC()

	existing, err := uc.store.Get(ctx, email)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Wrap(err, "failed to look up cart activity record")
	}

	var record *domain.CartActivityRecord
	switch {
	case existing != nil && !existing.IsTerminal() &&
		now.Sub(existing.UpdatedAt) < uc.policy.ActivityWindow:
		// Continuation of an in-progress session.
		record = refreshContents(existing, items, input, now)

	case existing != nil && !existing.IsTerminal() && uc.policy.SequenceContinuity:
		// Cold return, but the policy keeps the sequence position. The
		// refreshed updated_at re-anchors the next step's delay.
		record = refreshContents(existing, items, input, now)

	default:
		// Unseen email, terminal record, or cold return with continuity
		// off: start a fresh tracking window.
		record = &domain.CartActivityRecord{
			Email:      email,
			Items:      items,
			Locale:     input.Locale,
			Currency:   input.Currency,
			TotalValue: input.TotalValue,
			Status:     domain.StatusPending1,
			LoggedAt:   now,
			UpdatedAt:  now,
		}
	}

	if err := uc.store.Upsert(ctx, record); err != nil {
		return nil, apperrors.Wrap(err, "failed to persist cart activity record")
	}

	return record, nil
}

// GetActiveCart returns the client-safe record for the email. Terminal
// records are indistinguishable from absent ones at this interface.
func (uc *cartActivityUseCase) GetActiveCart(
	ctx context.Context,
	email string,
) (*domain.CartActivityRecord, error) {
	record, err := uc.store.Get(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if record.IsTerminal() {
		return nil, domain.ErrRecordNotFound
	}

	return record, nil
}

// MarkConverted records an external purchase-completed signal. Converted is
// reachable from any non-completed state; repeating the signal on an already
// terminal record is a no-op.
func (uc *cartActivityUseCase) MarkConverted(ctx context.Context, email string) error {
	record, err := uc.store.Get(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}

	if !record.Status.CanTransition(domain.StatusConverted) {
		// Already terminal.
		return nil
	}

	record.Status = domain.StatusConverted
	record.UpdatedAt = time.Now().UTC()

	if err := uc.store.Upsert(ctx, record); err != nil {
		return apperrors.Wrap(err, "failed to persist converted record")
	}

	return nil
}

// Forget removes the record entirely. Idempotent: forgetting an unknown
// email succeeds.
func (uc *cartActivityUseCase) Forget(ctx context.Context, email string) error {
	return uc.store.Delete(ctx, domain.NormalizeEmail(email))
}

// refreshContents overwrites the reported fields of an existing record
// while preserving its lifecycle position and logged_at.
func refreshContents(
	record *domain.CartActivityRecord,
	items []domain.CartItem,
	input RecordActivityInput,
	now time.Time,
) *domain.CartActivityRecord {
	record.Items = items
	record.Locale = input.Locale
	record.Currency = input.Currency
	record.TotalValue = input.TotalValue
	record.UpdatedAt = now
	return record
}

// mapItemInputs converts reported line entries to domain items.
func mapItemInputs(inputs []CartItemInput) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(inputs))
	for _, input := range inputs {
		items = append(items, domain.CartItem{
			ProductID:      input.ProductID,
			Name:           input.Name,
			Quantity:       input.Quantity,
			UnitPrice:      input.UnitPrice,
			ImagePath:      input.ImagePath,
			LocalizedTitle: input.LocalizedTitle,
			Slug:           input.Slug,
		})
	}
	return items
}
