package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
		ok       bool
	}{
		{"pending_1", StatusPending1, true},
		{"sent_1_pending_2", StatusSent1Pending2, true},
		{"sent_2_pending_3", StatusSent2Pending3, true},
		{"sent_3_pending_4", StatusSent3Pending4, true},
		{"completed", StatusCompleted, true},
		{"converted", StatusConverted, true},
		{"", "", false},
		{"pending_5", "", false},
		{"PENDING_1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, ok := ParseStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, status)
			}
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending1.IsTerminal())
	assert.False(t, StatusSent1Pending2.IsTerminal())
	assert.False(t, StatusSent2Pending3.IsTerminal())
	assert.False(t, StatusSent3Pending4.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusConverted.IsTerminal())
}

func TestStatus_Order(t *testing.T) {
	// The lifecycle is a strictly increasing sequence.
	sequence := []Status{
		StatusPending1,
		StatusSent1Pending2,
		StatusSent2Pending3,
		StatusSent3Pending4,
		StatusCompleted,
	}
	for i := 1; i < len(sequence); i++ {
		assert.Greater(t, sequence[i].Order(), sequence[i-1].Order())
	}

	// Converted ranks with completed at the end of the order.
	assert.Equal(t, StatusCompleted.Order(), StatusConverted.Order())

	assert.Equal(t, -1, Status("bogus").Order())
}

func TestStatus_PendingStep(t *testing.T) {
	tests := []struct {
		status Status
		step   int
		ok     bool
	}{
		{StatusPending1, 1, true},
		{StatusSent1Pending2, 2, true},
		{StatusSent2Pending3, 3, true},
		{StatusSent3Pending4, 4, true},
		{StatusCompleted, 0, false},
		{StatusConverted, 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			step, ok := tt.status.PendingStep()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.step, step)
		})
	}
}

func TestAfterStep(t *testing.T) {
	tests := []struct {
		step     int
		expected Status
		ok       bool
	}{
		{1, StatusSent1Pending2, true},
		{2, StatusSent2Pending3, true},
		{3, StatusSent3Pending4, true},
		{4, StatusCompleted, true},
		{0, "", false},
		{5, "", false},
	}

	for _, tt := range tests {
		status, ok := AfterStep(tt.step)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.expected, status)
	}
}

func TestStatus_CanTransition(t *testing.T) {
	t.Run("forward single steps are allowed", func(t *testing.T) {
		assert.True(t, StatusPending1.CanTransition(StatusSent1Pending2))
		assert.True(t, StatusSent1Pending2.CanTransition(StatusSent2Pending3))
		assert.True(t, StatusSent2Pending3.CanTransition(StatusSent3Pending4))
		assert.True(t, StatusSent3Pending4.CanTransition(StatusCompleted))
	})

	t.Run("converted is reachable from any non-terminal status", func(t *testing.T) {
		assert.True(t, StatusPending1.CanTransition(StatusConverted))
		assert.True(t, StatusSent1Pending2.CanTransition(StatusConverted))
		assert.True(t, StatusSent3Pending4.CanTransition(StatusConverted))
	})

	t.Run("backward moves are rejected", func(t *testing.T) {
		assert.False(t, StatusSent1Pending2.CanTransition(StatusPending1))
		assert.False(t, StatusSent3Pending4.CanTransition(StatusSent2Pending3))
	})

	t.Run("skip-level moves are rejected", func(t *testing.T) {
		assert.False(t, StatusPending1.CanTransition(StatusSent2Pending3))
		assert.False(t, StatusPending1.CanTransition(StatusCompleted))
	})

	t.Run("nothing leaves a terminal status", func(t *testing.T) {
		assert.False(t, StatusCompleted.CanTransition(StatusConverted))
		assert.False(t, StatusConverted.CanTransition(StatusPending1))
		assert.False(t, StatusConverted.CanTransition(StatusCompleted))
	})

	t.Run("unknown statuses never transition", func(t *testing.T) {
		assert.False(t, Status("bogus").CanTransition(StatusPending1))
		assert.False(t, StatusPending1.CanTransition(Status("bogus")))
	})
}
