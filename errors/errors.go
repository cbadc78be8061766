package errors

import (
	"errors"
	"fmt"
)

// Common error types for categorization and handling

var (
	// ErrValidationRejected indicates a local precondition failed (blank
	// question, no active session, request already in flight). These are
	// silent no-ops, never surfaced as the error signal.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrServiceRejected indicates the analysis service returned an error
	// status with a detail message.
	ErrServiceRejected = errors.New("service rejected request")

	// ErrTransportFailure indicates the request never completed (no
	// structured response available).
	ErrTransportFailure = errors.New("transport failure")

	// ErrMalformedResponse indicates a success status whose body is missing
	// required fields.
	ErrMalformedResponse = errors.New("malformed response")
)

// WrapError wraps an error with context message and stack
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsServiceRejected checks if error is a service rejection
func IsServiceRejected(err error) bool {
	return errors.Is(err, ErrServiceRejected)
}

// IsTransportFailure checks if error is a transport failure
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrTransportFailure)
}

// IsMalformedResponse checks if error is a malformed response
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
