// Package domain defines the core cart-activity domain entities and the
// reminder lifecycle state machine.
package domain

import (
	"strings"
	"time"
)

// CartItem is one line entry of a reported cart. Display fields (image,
// localized title, slug) are carried only for downstream reminder rendering.
type CartItem struct {
	ProductID      string  `json:"product_id,omitempty"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	ImagePath      string  `json:"image_path,omitempty"`
	LocalizedTitle string  `json:"localized_title,omitempty"`
	Slug           string  `json:"slug,omitempty"`
}

// CartActivityRecord tracks one customer's most recently known cart contents
// and its position in the abandoned-cart reminder lifecycle. The customer
// email is the natural key; there is exactly one record per email.
type CartActivityRecord struct {
	// Email is the record key, always normalized via NormalizeEmail.
	Email string `json:"email"`
	// Items is the last reported cart contents. Never empty while the
	// record is non-terminal.
	Items []CartItem `json:"items"`
	// Locale is the shopper's active locale at the time of logging.
	Locale string `json:"locale"`
	// Currency applies to TotalValue and all item unit prices.
	Currency string `json:"currency,omitempty"`
	// TotalValue is a denormalized snapshot of the cart value at the last
	// report, kept for reminder content. Nil when the storefront did not
	// report it.
	TotalValue *float64 `json:"total_value_at_abandonment,omitempty"`
	// Status is the record's position in the reminder lifecycle.
	Status Status `json:"status"`
	// LoggedAt is when this tracking window started. Immutable for the
	// lifetime of the record.
	LoggedAt time.Time `json:"logged_at"`
	// UpdatedAt advances on every mutation and anchors both the recency
	// window and the per-step reminder delays.
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeEmail produces the canonical key form of a customer email.
// Keys are case-insensitive: records are always stored and looked up
// under the lower-cased, trimmed form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsTerminal reports whether the record has finished the reminder lifecycle.
func (r *CartActivityRecord) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// Clone returns a deep copy of the record, so callers can hand out records
// without sharing the items slice.
func (r *CartActivityRecord) Clone() *CartActivityRecord {
	if r == nil {
		return nil
	}

	clone := *r
	clone.Items = make([]CartItem, len(r.Items))
	copy(clone.Items, r.Items)
	if r.TotalValue != nil {
		value := *r.TotalValue
		clone.TotalValue = &value
	}
	return &clone
}
