// Package apierror defines the failure taxonomy shared by every BugBoard
// client. Callers branch on the kind of failure, never on message text:
//
//	errors.Is(err, apierror.ErrUnauthorized) → discard the session, re-login
//	errors.Is(err, apierror.ErrForbidden)    → permissions message, keep session
//	errors.Is(err, apierror.ErrConflict)     → user-correctable (duplicate email)
//
// Anything else is either a generic *HTTPError, a *ProtocolError (the server
// answered 2xx with a malformed body), or a *ValidationError raised locally
// before any network I/O.
package apierror

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized covers HTTP 401 and the local fail-fast when no token
	// is present in the session store.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden covers HTTP 403: authenticated but not permitted.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict covers HTTP 409, currently only raised by user registration
	// when the email already exists.
	ErrConflict = errors.New("conflict")
)

// bodyPreviewLimit caps how much of a response body an error message carries.
const bodyPreviewLimit = 400

// HTTPError reports a non-2xx status outside the mapped taxonomy.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d - %s", e.Status, Truncate(e.Body, bodyPreviewLimit))
}

// ProtocolError reports a 2xx response whose body fails the expected shape,
// such as a create acknowledgement without an id. This is a backend defect,
// not a user input problem.
type ProtocolError struct {
	Detail string
	Body   string
}

func (e *ProtocolError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("protocol error: %s", e.Detail)
	}
	return fmt.Sprintf("protocol error: %s: %s", e.Detail, Truncate(e.Body, bodyPreviewLimit))
}

// ValidationError reports a local precondition failure detected before any
// request is issued (missing id, unsupported file extension, ...).
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Detail)
}

// Validationf builds a *ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// FallbackError reports that both tiers of an image download failed. Primary
// is the canonical-path attempt, Fallback the explicit-URL attempt that was
// tried after it. Both remain reachable through errors.Is / errors.As.
type FallbackError struct {
	Primary  error
	Fallback error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("image download failed: %v (canonical path also failed: %v)", e.Fallback, e.Primary)
}

// Unwrap exposes both attempts to the errors package.
func (e *FallbackError) Unwrap() []error {
	return []error{e.Fallback, e.Primary}
}

// FromStatus maps a non-2xx response to the taxonomy. The body is retained on
// the mapped sentinels as wrapping context so logs keep the server's detail.
func FromStatus(status int, body string) error {
	switch status {
	case 401:
		return statusErr(ErrUnauthorized, status, body)
	case 403:
		return statusErr(ErrForbidden, status, body)
	case 409:
		return statusErr(ErrConflict, status, body)
	default:
		return &HTTPError{Status: status, Body: body}
	}
}

func statusErr(kind error, status int, body string) error {
	if body == "" {
		return fmt.Errorf("HTTP %d: %w", status, kind)
	}
	return fmt.Errorf("HTTP %d: %w - %s", status, kind, Truncate(body, bodyPreviewLimit))
}

// Truncate shortens s to at most n characters, marking the cut with an
// ellipsis. Used wherever a response body ends up in an error or a log line.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
