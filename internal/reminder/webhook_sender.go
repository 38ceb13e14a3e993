package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	"github.com/allisson/cartkeeper/internal/cart/usecase"
	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

// webhookPayload is the reminder handed to the delivery service.
type webhookPayload struct {
	Step       int               `json:"step"`
	Email      string            `json:"email"`
	Locale     string            `json:"locale"`
	Currency   string            `json:"currency,omitempty"`
	Items      []domain.CartItem `json:"items"`
	TotalValue *float64          `json:"total_value_at_abandonment,omitempty"`
}

// WebhookSender POSTs each reminder to an external delivery endpoint. Any
// non-2xx response counts as a dispatch failure; the sweep leaves the record
// in place and retries on the next run.
type WebhookSender struct {
	url    string
	client *http.Client
}

// NewWebhookSender creates a webhook-backed reminder sender.
func NewWebhookSender(url string, timeout time.Duration) (*WebhookSender, error) {
	if url == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "webhook url is required")
	}
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}, nil
}

var _ usecase.ReminderSender = (*WebhookSender)(nil)

// Send delivers the reminder to the webhook endpoint.
func (s *WebhookSender) Send(ctx context.Context, step int, record *domain.CartActivityRecord) error {
	payload := webhookPayload{
		Step:       step,
		Email:      record.Email,
		Locale:     record.Locale,
		Currency:   record.Currency,
		Items:      record.Items,
		TotalValue: record.TotalValue,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal reminder payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(err, "failed to build reminder request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("reminder webhook request failed: %w: %w", apperrors.ErrDispatchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf(
			"reminder webhook returned status %d: %w",
			resp.StatusCode,
			apperrors.ErrDispatchFailed,
		)
	}

	return nil
}
