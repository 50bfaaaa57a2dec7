package rentals

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a rental id does not resolve to a row.
var ErrNotFound = errors.New("rental not found")

// ValidationError reports malformed create input. No transaction is opened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransactionError wraps any failure inside the atomic create sequence. The
// transaction has been rolled back when it is returned.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("rental transaction failed at %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsTransaction(err error) bool {
	var te *TransactionError
	return errors.As(err, &te)
}
