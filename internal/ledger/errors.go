package ledger

import (
	"errors"
	"fmt"
)

// Common ledger parsing errors. The public operations of this package never
// return them for malformed data; they are reported through logs and
// Result.Diagnostics, and returned by the lower-level parse helpers.
var (
	// ErrEmptyDate is returned when a date field is missing or blank.
	ErrEmptyDate = errors.New("empty date")

	// ErrInvalidDate is returned when a date string matches none of the supported layouts.
	ErrInvalidDate = errors.New("unrecognized date format")

	// ErrInvalidAmount is returned when an amount cannot be read as a finite number.
	ErrInvalidAmount = errors.New("amount is not a finite number")

	// ErrNotAList is returned when the normalizer input is not list-like.
	ErrNotAList = errors.New("input is not a list of records")
)

// LedgerError wraps errors with the operation and the offending value.
type LedgerError struct {
	// Op is the operation that failed (e.g., "ParseDate", "ParseAmount").
	Op string

	// Err is the underlying error.
	Err error

	// Value is the input that could not be handled.
	Value interface{}
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("ledger: %s failed for %q: %v", e.Op, fmt.Sprintf("%v", e.Value), e.Err)
	}
	return fmt.Sprintf("ledger: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *LedgerError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewLedgerError creates a new LedgerError with the specified operation and underlying error.
func NewLedgerError(op string, err error, value interface{}) *LedgerError {
	return &LedgerError{
		Op:    op,
		Err:   err,
		Value: value,
	}
}
