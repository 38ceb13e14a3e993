// Package dto provides data transfer objects for the cart activity HTTP API.
package dto

import (
	"github.com/allisson/cartkeeper/internal/cart/usecase"
)

// CartItemRequest is one cart line entry in an activity report.
type CartItemRequest struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	ImagePath      string  `json:"image_path"`
	LocalizedTitle string  `json:"localized_title"`
	Slug           string  `json:"slug"`
}

// RecordActivityRequest contains the parameters for a cart activity report.
type RecordActivityRequest struct {
	Email      string            `json:"email"`
	Items      []CartItemRequest `json:"items"`
	Locale     string            `json:"locale"`
	Currency   string            `json:"currency"`
	TotalValue *float64          `json:"total_value_at_abandonment"`
}

// ToInput converts the request into the use case input. Field validation
// happens in the use case so API and non-API callers share the same rules.
func (r *RecordActivityRequest) ToInput() usecase.RecordActivityInput {
	items := make([]usecase.CartItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, usecase.CartItemInput{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			ImagePath:      item.ImagePath,
			LocalizedTitle: item.LocalizedTitle,
			Slug:           item.Slug,
		})
	}
	return usecase.RecordActivityInput{
		Email:      r.Email,
		Items:      items,
		Locale:     r.Locale,
		Currency:   r.Currency,
		TotalValue: r.TotalValue,
	}
}
