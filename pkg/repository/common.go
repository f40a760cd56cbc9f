package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no rows
var ErrNotFound = errors.New("not found")

// errCritical is the stop signal for repeater, matched by every criticalError
var errCritical = errors.New("critical database error")

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error { return e.err }

// Is makes errors.Is(err, errCritical) true, so repeater terminates on it
func (e *criticalError) Is(target error) bool {
	return target == errCritical //nolint:errorlint // identity check against own sentinel
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// classify keeps lock errors retryable and marks everything else critical
func classify(err error) error {
	if err == nil || isLockError(err) {
		return err
	}
	return &criticalError{err: err}
}
