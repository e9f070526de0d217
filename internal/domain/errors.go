package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("Not found")
	ErrConflict = errors.New("Already exists")
)

var (
	ErrSubscriptionNotFound = fmt.Errorf("Subscription %w", errNotFoundSuffix)
	ErrSubscriptionExists   = fmt.Errorf("Subscription %w", errConflictSuffix)
	ErrJoinerNotFound       = fmt.Errorf("Application %w", errNotFoundSuffix)
	ErrJoinerExists         = fmt.Errorf("Application %w", errConflictSuffix)
	ErrStatementNotFound    = fmt.Errorf("Personal statement %w", errNotFoundSuffix)
	ErrUserNotFound         = fmt.Errorf("User %w", errNotFoundSuffix)
	ErrInterviewNotFound    = fmt.Errorf("Interview %w", errNotFoundSuffix)
	ErrSessionNotFound      = fmt.Errorf("Session %w", errNotFoundSuffix)
	ErrNoBookings           = fmt.Errorf("Bookings for package %w", errNotFoundSuffix)
)

// suffix errors keep messages readable ("Subscription not found") while
// errors.Is still matches the generic sentinels.
var (
	errNotFoundSuffix = wrapMessage{"not found", ErrNotFound}
	errConflictSuffix = wrapMessage{"already exists", ErrConflict}
)

type wrapMessage struct {
	msg string
	err error
}

func (w wrapMessage) Error() string { return w.msg }
func (w wrapMessage) Unwrap() error { return w.err }

// ValidationError is returned for malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
