package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition      = errors.New("transition not permitted")
	ErrValidationFailed       = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrConcurrentModification = errors.New("case was modified concurrently")
	ErrConfiguration          = errors.New("invalid configuration value")
)

// ValidationError names the offending payload field so the caller can
// surface it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
