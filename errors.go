package sqlstore

import (
	"errors"
	"fmt"

	"github.com/authkit-go/sqlstore/schema"
)

// SchemaError is returned when a referenced logical model is not declared
// in the registry. It indicates a caller or configuration bug and is
// surfaced immediately, never retried.
type SchemaError = schema.Error

// Standard sentinel errors for common operations.
var (
	// ErrPersistence is the sentinel every *PersistenceError matches.
	ErrPersistence = errors.New("sqlstore: persistence failure")

	// ErrSoftDelete is the sentinel every *SoftDeleteError matches.
	ErrSoftDelete = errors.New("sqlstore: soft-delete misconfigured")
)

// PersistenceError wraps a failure from the underlying database during a
// logical operation. It names the operation and model and preserves the
// original error.
type PersistenceError struct {
	Op    string // logical operation, e.g. "create"
	Model string // logical model name
	Err   error
}

// Error returns the error string.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("sqlstore: %s %s: %v", e.Op, e.Model, e.Err)
}

// Unwrap returns the underlying database error.
func (e *PersistenceError) Unwrap() error { return e.Err }

// Is reports whether the target error matches PersistenceError.
// This allows errors.Is(err, ErrPersistence) to return true.
func (e *PersistenceError) Is(err error) bool {
	return err == ErrPersistence
}

// IsPersistence returns true if the error is a PersistenceError.
func IsPersistence(err error) bool {
	if err == nil {
		return false
	}
	var e *PersistenceError
	return errors.As(err, &e) || errors.Is(err, ErrPersistence)
}

// SoftDeleteError is returned when a model is marked for soft delete but
// does not declare the marker field. It is raised before any delete is
// attempted.
type SoftDeleteError struct {
	Model string
}

// Error returns the error string.
func (e *SoftDeleteError) Error() string {
	return fmt.Sprintf("sqlstore: model %q is marked for soft delete but declares no %q field", e.Model, schema.SoftDeleteField)
}

// Is reports whether the target error matches SoftDeleteError.
func (e *SoftDeleteError) Is(err error) bool {
	return err == ErrSoftDelete
}

// IsSoftDelete returns true if the error is a SoftDeleteError.
func IsSoftDelete(err error) bool {
	if err == nil {
		return false
	}
	var e *SoftDeleteError
	return errors.As(err, &e) || errors.Is(err, ErrSoftDelete)
}

// IsSchema returns true if the error is a SchemaError.
func IsSchema(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaError
	return errors.As(err, &e)
}
