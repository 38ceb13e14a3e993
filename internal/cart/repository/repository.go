// Package repository implements cart activity record persistence. Backends
// share the same whole-record last-write-wins contract: Redis for the primary
// deployment, PostgreSQL and MySQL for installations that already run a
// relational database, and an in-memory store for tests and local runs.
package repository

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

// opContext bounds a single store call. A non-positive timeout leaves the
// caller's context untouched.
func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// transientErr marks a backend failure as retryable while keeping the
// underlying cause in the chain.
func transientErr(err error, message string) error {
	return fmt.Errorf("%s: %w: %w", message, apperrors.ErrTransientStore, err)
}
