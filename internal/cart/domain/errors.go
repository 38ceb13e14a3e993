package domain

import (
	"github.com/allisson/cartkeeper/internal/errors"
)

// Domain-specific errors for cart activity operations.
var (
	// ErrRecordNotFound indicates no cart activity record exists for the email.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "cart activity record not found")
)
