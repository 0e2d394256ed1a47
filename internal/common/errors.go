// Package common defines the sentinel error taxonomy and small helpers shared
// by the identity, session and association layers. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Input errors, raised before any storage I/O.
	ErrValidation = errors.New("validation error")

	// Sign-in errors.
	ErrNotFound   = errors.New("not found")
	ErrCredential = errors.New("invalid credentials")

	// Sign-up errors.
	ErrConflict = errors.New("already exists")

	// Association mutations require an active session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Any failure of the underlying key-value store.
	ErrStorage = errors.New("storage failure")

	// Any failure of the remote movie catalog.
	ErrRemoteLookup = errors.New("remote lookup failed")
)

// ValidationError reports which input field was rejected and why.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps err so that errors.Is(err, ErrStorage) holds while the
// original cause stays reachable through errors.Unwrap.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
