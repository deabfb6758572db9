package shared

import "errors"

// Error taxonomy roots. Engine packages define their own sentinels wrapping
// these so callers can match either the specific condition or the class.
var (
	// ErrValidation indicates malformed or inconsistent input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState indicates a forbidden document state transition or an
	// edit against a confirmed/cancelled document.
	ErrInvalidState = errors.New("invalid document state")
	// ErrInsufficientStock indicates an outbound movement would drive the
	// running quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrIntegrity indicates a concurrent-modification or lock conflict on a
	// balance row. The caller may retry the whole transition.
	ErrIntegrity = errors.New("data integrity conflict")
)
