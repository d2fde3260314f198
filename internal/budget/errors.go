package budget

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel wrapped by every ValidationError.
var ErrInvalidInput = errors.New("budget: invalid input")

// ValidationError names the rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("budget: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
