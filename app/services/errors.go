package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when client input is unusable.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when the task ID does not resolve to a task.
	ErrNotFound = errors.New("task not found")
	// ErrTextRequired is the validation error for missing or blank text.
	ErrTextRequired = fmt.Errorf("%w: text is required", ErrValidation)
)

// StoreError wraps an unexpected persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
