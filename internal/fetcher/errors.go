package fetcher

import (
	"fmt"
	"net/http"
)

// Kind categorizes a fetch failure.
type Kind string

const (
	// KindNotFound means the requested unit does not exist at the
	// endpoint that answered. Terminal for that request.
	KindNotFound Kind = "not_found"
	// KindForbidden means the endpoint was reachable but denied the
	// request, typically missing credentials.
	KindForbidden Kind = "forbidden"
	// KindTimeout means no response arrived within the deadline.
	KindTimeout Kind = "timeout"
	// KindMalformed means a response arrived but did not look like the
	// expected format.
	KindMalformed Kind = "malformed_response"
	// KindUnhandled covers everything else that escaped adapter code.
	KindUnhandled Kind = "unhandled"
)

// Error is a structured fetch failure. Soft failures trigger failover
// to the next endpoint candidate; hard ones end the attempt.
type Error struct {
	Kind       Kind
	Soft       bool
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap supports errors.Is and errors.As against the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewNotFoundError reports a unit that does not exist at an endpoint.
func NewNotFoundError(unit, endpoint string) *Error {
	return &Error{
		Kind:       KindNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s not found at %s", unit, endpoint),
	}
}

// NewForbiddenError reports a denied request.
func NewForbiddenError(statusCode int) *Error {
	return &Error{
		Kind:       KindForbidden,
		Soft:       true,
		StatusCode: statusCode,
		Message:    "access denied, endpoint may require credentials",
	}
}

// NewTimeoutError reports a request that exceeded its deadline.
func NewTimeoutError(cause error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Soft:    true,
		Message: "request timed out",
		Cause:   cause,
	}
}

// NewMalformedError reports a response that failed the shape check.
func NewMalformedError(message string) *Error {
	return &Error{
		Kind:    KindMalformed,
		Soft:    true,
		Message: message,
	}
}

// NewUnhandledError wraps an arbitrary adapter error.
func NewUnhandledError(cause error) *Error {
	return &Error{
		Kind:    KindUnhandled,
		Soft:    true,
		Message: fmt.Sprintf("unexpected error: %v", cause),
		Cause:   cause,
	}
}

// ClassifyHTTPStatus maps an HTTP status code onto the failure taxonomy.
func ClassifyHTTPStatus(statusCode int) *Error {
	switch {
	case statusCode == http.StatusNotFound:
		return &Error{
			Kind:       KindNotFound,
			StatusCode: statusCode,
			Message:    "not found",
		}
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewForbiddenError(statusCode)
	case statusCode == http.StatusRequestTimeout:
		return &Error{
			Kind:       KindTimeout,
			Soft:       true,
			StatusCode: statusCode,
			Message:    "request timed out",
		}
	default:
		return &Error{
			Kind:       KindMalformed,
			Soft:       true,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("unexpected status %d", statusCode),
		}
	}
}
