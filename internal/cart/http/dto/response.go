package dto

import (
	"github.com/allisson/cartkeeper/internal/cart/domain"
)

// CartItemResponse is one cart line entry in an API response.
type CartItemResponse struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	ImagePath      string  `json:"image_path,omitempty"`
	LocalizedTitle string  `json:"localized_title,omitempty"`
	Slug           string  `json:"slug,omitempty"`
}

// CartActivityResponse represents a cart activity record in API responses.
// Lifecycle status and timestamps are internal bookkeeping and are never
// exposed here.
type CartActivityResponse struct {
	Email      string             `json:"email"`
	Items      []CartItemResponse `json:"items"`
	Locale     string             `json:"locale"`
	Currency   string             `json:"currency,omitempty"`
	TotalValue *float64           `json:"total_value_at_abandonment,omitempty"`
}

// MapRecordToResponse converts a domain record to its client-safe API shape.
func MapRecordToResponse(record *domain.CartActivityRecord) CartActivityResponse {
	items := make([]CartItemResponse, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, CartItemResponse{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			ImagePath:      item.ImagePath,
			LocalizedTitle: item.LocalizedTitle,
			Slug:           item.Slug,
		})
	}
	return CartActivityResponse{
		Email:      record.Email,
		Items:      items,
		Locale:     record.Locale,
		Currency:   record.Currency,
		TotalValue: record.TotalValue,
	}
}
