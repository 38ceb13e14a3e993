// Package mocks provides mock implementations of the cart use case
// interfaces for HTTP handler and command tests.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	"github.com/allisson/cartkeeper/internal/cart/usecase"
)

// MockActivityUseCase is a mock implementation of usecase.ActivityUseCase for testing.
type MockActivityUseCase struct {
	mock.Mock
}

// RecordActivity mocks the RecordActivity method of ActivityUseCase.
func (m *MockActivityUseCase) RecordActivity(
	ctx context.Context,
	input usecase.RecordActivityInput,
) (*domain.CartActivityRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartActivityRecord), args.Error(1)
}

// GetActiveCart mocks the GetActiveCart method of ActivityUseCase.
func (m *MockActivityUseCase) GetActiveCart(
	ctx context.Context,
	email string,
) (*domain.CartActivityRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartActivityRecord), args.Error(1)
}

// MarkConverted mocks the MarkConverted method of ActivityUseCase.
func (m *MockActivityUseCase) MarkConverted(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// Forget mocks the Forget method of ActivityUseCase.
func (m *MockActivityUseCase) Forget(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockSweepUseCase is a mock implementation of usecase.SweepUseCase for testing.
type MockSweepUseCase struct {
	mock.Mock
}

// Run mocks the Run method of SweepUseCase.
func (m *MockSweepUseCase) Run(ctx context.Context) (*usecase.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SweepResult), args.Error(1)
}

// MockMaintenanceUseCase is a mock implementation of usecase.MaintenanceUseCase for testing.
type MockMaintenanceUseCase struct {
	mock.Mock
}

// CleanTerminalRecords mocks the CleanTerminalRecords method of MaintenanceUseCase.
func (m *MockMaintenanceUseCase) CleanTerminalRecords(
	ctx context.Context,
	olderThan time.Duration,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
