package usecases

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a request that is malformed: missing fields or an
	// update target that does not resolve.
	ErrValidation = errors.New("invalid request")
	// ErrNotFound marks a lookup or delete of an unknown command.
	ErrNotFound = errors.New("command not found")
)

// ValidationError is a rejected request. errors.Is(err, ErrValidation) holds.
type ValidationError struct {
	Reason string
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StoreError is a persistence failure surfaced unchanged to the caller.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }
