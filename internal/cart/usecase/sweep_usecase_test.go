package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

func sweepConfig() SweepConfig {
	return SweepConfig{
		StepDelays: [domain.ReminderStepCount]time.Duration{
			1 * time.Hour,
			24 * time.Hour,
			72 * time.Hour,
			168 * time.Hour,
		},
	}
}

func activeRecord(email string, status domain.Status, age time.Duration) *domain.CartActivityRecord {
	now := time.Now().UTC()
	return &domain.CartActivityRecord{
		Email:     email,
		Items:     []domain.CartItem{{Name: "Ceramic Mug", Quantity: 1}},
		Locale:    "en",
		Status:    status,
		LoggedAt:  now.Add(-age),
		UpdatedAt: now.Add(-age),
	}
}

func TestSweepUseCase_Run_AdvancesDueRecord(t *testing.T) {
	store := &MockStore{}
	sender := &MockReminderSender{}
	useCase := NewSweepUseCase(sweepConfig(), store, sender, slog.Default())

	ctx := context.Background()
	record := activeRecord("shopper@example.com", domain.StatusPending1, 2*time.Hour)

	store.On("ListActive", ctx).Return([]*domain.CartActivityRecord{record}, nil)
	sender.On("Send", ctx, 1, record).Return(nil)
	store.On("Upsert", ctx, record).Return(nil)

	result, err := useCase.Run(ctx)

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Seen)
	assert.Equal(t, 1, result.Advanced)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, domain.StatusSent1Pending2, record.Status)

	store.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestSweepUseCase_Run_FinalStepCompletes(t *testing.T) {
	store := &MockStore{}
	sender := &MockReminderSender{}
	useCase := NewSweepUseCase(sweepConfig(), store, sender, slog.Default())

	ctx := context.Background()
	record := activeRecord("shopper@example.com", domain.StatusSent3Pending4, 200*time.Hour)

	store.On("ListActive", ctx).Return([]*domain.CartActivityRecord{record}, nil)
	sender.On("Send", ctx, 4, record).Return(nil)
	store.On("Upsert", ctx, record).Return(nil)

	result, err := useCase.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Advanced)
	assert.Equal(t, domain.StatusCompleted, record.Status)

	store.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestSweepUseCase_Run_SkipsNotDueRecord(t *testing.T) {
	store := &MockStore{}
	sender := &MockReminderSender{}
	useCase := NewSweepUseCase(sweepConfig(), store, sender, slog.Default())

	ctx := context.Background()
	record := activeRecord("shopper@example.com", domain.StatusPending1, 10*time.Minute)

	store.On("ListActive", ctx).Return([]*domain.CartActivityRecord{record}, nil)

	result, err := useCase.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Seen)
	assert.Equal(t, 0, result.Advanced)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, domain.StatusPending1, record.Status)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSweepUseCase_Run_SendFailureLeavesRecordUnchanged(t *testing.T) {
	store := &MockStore{}
	sender := &MockReminderSender{}
	useCase := NewSweepUseCase(sweepConfig(), store, sender, slog.Default())

	ctx := context.Background()
	failing := activeRecord("failing@example.com", domain.StatusPending1, 2*time.Hour)
	healthy := activeRecord("healthy@example.com", domain.StatusSent1Pending2, 48*time.Hour)

	store.On("ListActive", ctx).Return([]*domain.CartActivityRecord{failing, healthy}, nil)
	sender.On("Send", ctx, 1, failing).Return(apperrors.Wrap(apperrors.ErrDispatchFailed, "smtp timeout"))
	sender.On("Send", ctx, 2, healthy).Return(nil)
	store.On("Upsert", ctx, healthy).Return(nil)

	result, err := useCase.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Seen)
	assert.Equal(t, 1, result.Advanced)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, domain.StatusPending1, failing.Status)
	assert.Equal(t, domain.StatusSent2Pending3, healthy.Status)

	store.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestSweepUseCase_Run_UpsertFailureCountsAsFailed(t *testing.T) {
	store := &MockStore{}
	sender := &MockReminderSender{}
	useCase := NewSweepUseCase(sweepConfig(), store, sender, slog.Default())

	ctx := context.Background()
	record := activeRecord("shopper@example.com", domain.StatusPending1, 2*time.Hour)

	store.On("ListActive", ctx).Return([]*domain.CartActivityRecord{record}, nil)
	sender.On("Send", ctx, 1, record).Return(nil)
	store.On("Upsert", ctx, record).Return(errors.New("write failed"))

	result, err := useCase.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Advanced)
	assert.Equal(t, 1, result.Failed)

	store.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestSweepUseCase_Run_ListActiveError(t *testing.T) {
	store := &MockStore{}
	sender := &MockReminderSender{}
	useCase := NewSweepUseCase(sweepConfig(), store, sender, slog.Default())

	ctx := context.Background()

	store.On("ListActive", ctx).Return(nil, apperrors.Wrap(apperrors.ErrTransientStore, "scan failed"))

	result, err := useCase.Run(ctx)

	assert.Nil(t, result)
	assert.True(t, apperrors.Is(err, apperrors.ErrTransientStore))
}

func TestSweepUseCase_Run_StopsOnContextCancel(t *testing.T) {
	store := &MockStore{}
	sender := &MockReminderSender{}
	useCase := NewSweepUseCase(sweepConfig(), store, sender, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []*domain.CartActivityRecord{
		activeRecord("first@example.com", domain.StatusPending1, 2*time.Hour),
		activeRecord("second@example.com", domain.StatusPending1, 2*time.Hour),
	}

	store.On("ListActive", ctx).Return(records, nil)

	result, err := useCase.Run(ctx)

	require.NotNil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, result.Seen)
	assert.Equal(t, 0, result.Advanced)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepUseCase_Run_IgnoresRacedTerminalRecord(t *testing.T) {
	store := &MockStore{}
	sender := &MockReminderSender{}
	useCase := NewSweepUseCase(sweepConfig(), store, sender, slog.Default())

	ctx := context.Background()
	record := activeRecord("shopper@example.com", domain.StatusConverted, 2*time.Hour)

	store.On("ListActive", ctx).Return([]*domain.CartActivityRecord{record}, nil)

	result, err := useCase.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Seen)
	assert.Equal(t, 0, result.Advanced)
	assert.Equal(t, 0, result.Skipped)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}
