package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error taxonomy shared by every service. Callers wrap the sentinels below and
// the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrInvalidInput marks a malformed request body, rejected before any
	// store access.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageFailure marks an unreachable document store or a rejected
	// write. Never retried inside this process.
	ErrStorageFailure = errors.New("storage failure")
	// ErrUpstream marks a failed call to Reddit or to a remote storage service.
	ErrUpstream = errors.New("upstream failure")
	// ErrUnauthorized marks an upstream call rejected for missing or expired
	// credentials that could not be refreshed.
	ErrUnauthorized = errors.New("upstream authorization failure")
)

// StorageError carries the failed operation and the driver error, and matches
// ErrStorageFailure under errors.Is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageFailure, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageFailure }

// NewStorageError wraps err as a storage failure, nil stays nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: errors.WithStack(err)}
}

// InvalidInputf builds an ErrInvalidInput with a message.
func InvalidInputf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

func IsUpstreamFailure(err error) bool {
	return errors.Is(err, ErrUpstream)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
