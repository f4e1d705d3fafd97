package rbm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument is returned before any network call when the input
	// cannot produce a valid request (bad msisdn, empty payload, limits).
	ErrInvalidArgument = errors.New("rbm: invalid argument")

	// ErrConfiguration reports a client that cannot be built from its settings.
	ErrConfiguration = errors.New("rbm: configuration error")
)

// APIError is a structured rejection returned by the RBM API.
// Callers can use errors.As to inspect it:
//
//	var apiErr *rbm.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"code"`
	// Status is the canonical Google status, e.g. "NOT_FOUND" or "RESOURCE_EXHAUSTED".
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rbm: %s (%d): %s", e.Status, e.StatusCode, e.Message)
}

// TransportError wraps a request that never produced an HTTP response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rbm: request to %s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is transient: transport failures, 429 and 5xx.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}

// IsRateLimited reports whether the API rejected the call with 429.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

// IsAuthentication reports whether the credentials were rejected (401 or 403).
func IsAuthentication(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

// IsNotFound reports a 404, which RBM also returns for msisdns that are not RCS enabled.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}
	return false
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
