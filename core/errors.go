package core

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendTimeout is reported by a backend when a single attempt exceeded its deadline.
	ErrBackendTimeout = errors.New("backend timeout")

	// ErrBackendUnavailable is returned once the retry budget for a backend call is exhausted
	// or a non-timeout failure occurred.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrTransport classifies non-timeout transport and HTTP status failures.
	ErrTransport = errors.New("transport error")

	// ErrImplementationFailure is returned when a code task could not be implemented.
	ErrImplementationFailure = errors.New("implementation failed")

	// ErrNoTasks signals that planning produced an empty task list.
	ErrNoTasks = errors.New("no tasks planned")

	// ErrModelCallLimit is returned when a run exceeds its configured model call budget.
	ErrModelCallLimit = errors.New("model call limit exceeded")
)

// BackendError wraps a failed backend exchange. Kind is one of the sentinel
// errors above; Err is the underlying cause.
type BackendError struct {
	Op       string
	Attempts int
	Kind     error
	Err      error
}

// Error implements error.
func (e *BackendError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("%s: %v after %d attempt(s): %v", e.Op, e.Kind, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the category sentinel and the cause to errors.Is / errors.As.
func (e *BackendError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewTimeoutError reports a timed out attempt for op.
func NewTimeoutError(op string, err error) error {
	return &BackendError{Op: op, Kind: ErrBackendTimeout, Err: err}
}

// NewTransportError reports a non-timeout failure for op.
func NewTransportError(op string, err error) error {
	return &BackendError{Op: op, Kind: ErrTransport, Err: err}
}

// IsTimeout reports whether err represents a backend timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrBackendTimeout)
}
