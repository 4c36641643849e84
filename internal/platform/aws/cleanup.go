package aws

import (
	"errors"
	"fmt"
)

// CleanupError accumulates errors from a teardown that keeps going after
// individual deletes fail.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("teardown encountered %d errors: %v", len(e.Errors), errors.Join(e.Errors...))
}

func (e *CleanupError) Unwrap() error {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return errors.Join(e.Errors...)
}

// Add records err if it is non-nil.
func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any error was recorded.
func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrorOrNil returns e when it holds errors, nil otherwise.
func (e *CleanupError) ErrorOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
