package common

import (
	"github.com/pkg/errors"
)

var (
	// ErrOperationAborted is returned when the operation was aborted e.g. by a shutdown signal.
	ErrOperationAborted = errors.New("operation was aborted")
	// ErrTransactionNotFound is returned when a transaction was not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrResourceExceeded is returned when a computation exceeded its configured resource limits.
	ErrResourceExceeded = errors.New("resource limit exceeded")
)

// CriticalError is an error which is critical, meaning that the affected component can no longer make progress.
type CriticalError struct {
	Err error
}

func (ce CriticalError) Error() string {
	return ce.Err.Error()
}

func (ce CriticalError) Unwrap() error {
	return ce.Err
}

// SoftError is an error which is soft, meaning that the affected component can retry later.
type SoftError struct {
	Err error
}

func (se SoftError) Error() string {
	return se.Err.Error()
}

func (se SoftError) Unwrap() error {
	return se.Err
}

// DatabaseError wraps errors returned by the underlying key value store.
type DatabaseError struct {
	Inner error
}

func NewDatabaseError(cause error) *DatabaseError {
	return &DatabaseError{Inner: cause}
}

func (e DatabaseError) Cause() error {
	return e.Inner
}

func (e DatabaseError) Unwrap() error {
	return e.Inner
}

func (e DatabaseError) Error() string {
	return "database error: " + e.Inner.Error()
}
