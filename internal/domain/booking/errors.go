package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrWeekdayOutOfRange flags a weekday value its field's encoding cannot hold.
	ErrWeekdayOutOfRange = errors.New("weekday out of range")

	// ErrShapeMismatch marks a payload whose envelope was not recognised.
	ErrShapeMismatch = errors.New("unrecognised response shape")

	// ErrSuperseded is returned to callers whose fetch was overtaken by a newer selection.
	ErrSuperseded = errors.New("superseded by a newer selection")
)

// ValidationError lists the draft fields still missing at submit time.
type ValidationError struct {
	Missing []string
}

func (e ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// BackendError is a non-2xx response with its extracted message.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// NetworkError wraps a transport failure; the request never got an answer.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// AsBackend unwraps a BackendError.
func AsBackend(err error) (*BackendError, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
