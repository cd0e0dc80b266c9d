package orders

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an unknown order id.
var ErrNotFound = errors.New("order not found")

// ValidationError reports a missing or out-of-range field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports a lifecycle rule violation: an illegal status
// transition, or feedback on an order that is not eligible for it.
type InvalidStateError struct {
	OrderID string
	Reason  string
}

func (e *InvalidStateError) Error() string {
	if e.OrderID == "" {
		return e.Reason
	}
	return fmt.Sprintf("order %s: %s", e.OrderID, e.Reason)
}

// TransportError wraps a storage or network I/O failure. Read paths may
// degrade to a last-known view on it; write paths must surface it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
