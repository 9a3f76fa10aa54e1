package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"vera/internal/domain/registro"
)

// ErrUnavailable means the API could not be reached at all: the connection
// was refused or the collection route does not exist.
var ErrUnavailable = errors.New("api unavailable: check that the server is running")

// NetworkError is a transport failure other than an unreachable server.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
	Code       string
	RequestID  string
	Fields     registro.ValidationErrors
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP Error: %d %s", e.StatusCode, e.Status)
}

// Unwrap exposes field errors so callers can errors.As into
// registro.ValidationErrors.
func (e *HTTPError) Unwrap() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e.Fields
}

func (e *HTTPError) Is(target error) bool {
	return target == registro.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Retryable reports whether repeating the request may succeed. Client
// errors other than timeouts and throttling are permanent.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusRequestTimeout, httpErr.StatusCode == http.StatusTooManyRequests:
			return true
		case httpErr.StatusCode < 500:
			return false
		}
	}
	return true
}
