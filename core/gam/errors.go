package gam

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a key or saved query does not exist remotely.
// Callers should test for it with errors.Is.
var ErrNotFound = errors.New("not found")

// AuthError reports a malformed or rejected service-account credential.
// It is returned from NewSession and never after construction.
type AuthError struct {
	// Reason describes the failing step ("decoding credentials",
	// "fetching token").
	Reason string
	// Err is the underlying cause.
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RequestError reports a request the platform rejected.
type RequestError struct {
	// Op is the logical operation, e.g. "createCustomTargetingValues".
	Op string
	// StatusCode is the HTTP status returned by the platform.
	StatusCode int
	// Message is the platform's error message, if any.
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request rejected with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: request rejected with status %d: %s", e.Op, e.StatusCode, e.Message)
}
