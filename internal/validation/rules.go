// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// localeRegex matches BCP 47 style locale tags such as "en" or "pt-BR"
	localeRegex = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{2,8})*$`)

	// currencyRegex matches ISO 4217 currency codes such as "USD"
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
// The original error stays in the chain so handlers can recover the
// field-level validation.Errors map for 422 responses.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", err, apperrors.ErrInvalidInput)
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// Locale validates locale tag format (e.g., "en", "de", "pt-BR")
var Locale = validation.NewStringRuleWithError(
	func(s string) bool {
		return localeRegex.MatchString(s)
	},
	validation.NewError("validation_locale_format", "must be a valid locale tag"),
)

// CurrencyCode validates ISO 4217 currency code format (e.g., "USD", "EUR")
var CurrencyCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return currencyRegex.MatchString(s)
	},
	validation.NewError("validation_currency_format", "must be a three-letter currency code"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
