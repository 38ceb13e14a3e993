// Package reminder implements the outbound reminder dispatchers. The log
// sender records the dispatch for deployments where delivery runs elsewhere;
// the webhook sender hands the reminder to an external delivery service.
package reminder

import (
	"context"
	"log/slog"

	"github.com/allisson/cartkeeper/internal/cart/domain"
	"github.com/allisson/cartkeeper/internal/cart/usecase"
)

// LogSender writes each reminder dispatch to the structured log. It is the
// default dispatcher and always succeeds.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-backed reminder sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

var _ usecase.ReminderSender = (*LogSender)(nil)

// Send logs the reminder dispatch.
func (s *LogSender) Send(_ context.Context, step int, record *domain.CartActivityRecord) error {
	if s.logger != nil {
		s.logger.Info("reminder email dispatched",
			slog.Int("step", step),
			slog.String("email", record.Email),
			slog.String("locale", record.Locale),
			slog.Int("items", len(record.Items)),
		)
	}
	return nil
}
