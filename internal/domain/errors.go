package domain

import (
	"errors"
	"fmt"
)

// Scheduling and ledger rejections. These are user-facing 4xx conditions;
// resubmitting the same token never turns one into a success.
var (
	ErrInsufficientCredit = errors.New("insufficient credit")
	ErrSlotConflict       = errors.New("slot conflict")
	ErrAlreadyResolved    = errors.New("already resolved")
	ErrStaleRequest       = errors.New("stale scheduling request")
	ErrExpiredRequest     = errors.New("request expired")
	ErrInvalidState       = errors.New("invalid state for this operation")
	ErrMalformedToken     = errors.New("malformed token")
	ErrNotFound           = errors.New("not found")
)

// ValidationError carries a user-correctable message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ExternalError wraps a failure from an external capability (meeting
// provider, mail delivery). During offer acceptance it forces a full
// rollback; the underlying provider error is only surfaced in debug mode.
type ExternalError struct {
	Capability string
	Err        error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s capability failed: %v", e.Capability, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }
