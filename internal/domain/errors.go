package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrNoActiveShift       = errors.New("no active shift")
	ErrTransactionConflict = errors.New("transaction conflict")
)

// ValidationError reports input the engine refuses to act on. Nothing is
// written when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Invalid(reason string) error { return &ValidationError{Reason: reason} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
