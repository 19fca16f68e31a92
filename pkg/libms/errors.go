package libms

import (
	"errors"
	"fmt"
)

// The client surfaces three kinds of failure, and callers are expected to
// tell them apart: bad input that never left the process, a transport that
// failed or produced garbage, and a well-formed response that says no.

// ValidationError reports a required field missing or malformed before any
// network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NetworkError reports a transport-level failure or a response body that
// could not be parsed as the expected structured format.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError reports a well-formed response whose envelope signals failure.
// Message carries the server's own error/message text verbatim when the
// server supplied one.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: server reported failure (status %d)", e.Op, e.StatusCode)
}

// IsNetwork reports whether err is (or wraps) a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
