package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInvalidConfiguration = errors.New("invalid_configuration")
	ErrInsufficientData     = errors.New("insufficient_data")
	ErrRunInProgress        = errors.New("run_in_progress")
	ErrNoResult             = errors.New("no_result")
	ErrWebhookNotFound      = errors.New("webhook_not_found")
)

// ValidationError represents a single invalid input field. It unwraps to
// ErrInvalidConfiguration so callers can match on the error kind.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}
