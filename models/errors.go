package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the referenced todo does not exist.
	ErrNotFound = errors.New("todo item not found")
	// ErrUnauthorized is returned when the caller does not own the todo.
	ErrUnauthorized = errors.New("caller does not own todo item")
	// ErrInvalidInput marks a request rejected before reaching storage.
	ErrInvalidInput = errors.New("invalid input")
)

// StorageError wraps a failure from the table or the object store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err, or returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err carries a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
