package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a tenant or one of its records exists in neither
// the remote store nor the local cache.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a mutation synchronously, before any optimistic
// state is touched. It is scoped to a single input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TransientError wraps a failed remote call. The optimistic local state is
// already applied when it occurs; it gets logged, never rolled back.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func transient(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}
