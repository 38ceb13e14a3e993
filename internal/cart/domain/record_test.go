package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user@example.com", "user@example.com"},
		{"User@Example.COM", "user@example.com"},
		{"  user@example.com  ", "user@example.com"},
		{"\tUSER@EXAMPLE.COM\n", "user@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEmail(tt.input))
		})
	}
}

func TestCartActivityRecord_Clone(t *testing.T) {
	t.Run("nil record", func(t *testing.T) {
		var record *CartActivityRecord
		assert.Nil(t, record.Clone())
	})

	t.Run("deep copies items and total value", func(t *testing.T) {
		total := 19.98
		now := time.Now().UTC()
		record := &CartActivityRecord{
			Email: "a@x.com",
			Items: []CartItem{
				{Name: "Widget", Quantity: 2, UnitPrice: 9.99},
			},
			Locale:     "en",
			Currency:   "USD",
			TotalValue: &total,
			Status:     StatusPending1,
			LoggedAt:   now,
			UpdatedAt:  now,
		}

		clone := record.Clone()
		assert.Equal(t, record, clone)

		// Mutating the clone must not affect the original.
		clone.Items[0].Quantity = 5
		*clone.TotalValue = 100.0
		assert.Equal(t, 2, record.Items[0].Quantity)
		assert.Equal(t, 19.98, *record.TotalValue)
	})
}
