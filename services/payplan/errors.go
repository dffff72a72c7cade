package payplan

import (
	"errors"
	"fmt"
)

// ErrArithmeticInvariant signals that a generated schedule does not reconcile
// to the plan's commissionable value. This is a bug in the generator, not a
// condition callers should handle gracefully.
var ErrArithmeticInvariant = errors.New("installment sum does not reconcile to commissionable value")

// ValidationError covers bad schedule or payment inputs. It is always raised
// before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConflictError covers payments against cancelled installments and stale
// concurrent updates. The caller decides whether to retry with fresh data.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func newConflictError(reason string) error {
	return &ConflictError{Reason: reason}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
