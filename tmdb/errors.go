package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
	// ErrNetwork indicates a transport-level failure
	ErrNetwork = errors.New("network error")
	// ErrHTTPStatus indicates a non-2xx response
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrParse indicates a malformed body or a missing field
	ErrParse = errors.New("malformed response")
	// ErrNoImagePath indicates the record carries no path for the requested image
	ErrNoImagePath = errors.New("record has no image path")
)

// FetchError is returned by every fetch in this package. Kind is one of ErrNetwork,
// ErrHTTPStatus or ErrParse and is matched by errors.Is.
type FetchError struct {
	Op         string
	Kind       error
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("tmdb %s: %v: status %d", e.Op, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("tmdb %s: %v: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("tmdb %s: %v", e.Op, e.Kind)
	}
}

// Unwrap returns the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the error kind
func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}

// IsNotFound checks if the error indicates a not found response
func (e *FetchError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *FetchError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func networkError(op string, err error) *FetchError {
	return &FetchError{Op: op, Kind: ErrNetwork, Err: err}
}

func statusError(op string, code int) *FetchError {
	return &FetchError{Op: op, Kind: ErrHTTPStatus, StatusCode: code}
}

func parseError(op string, err error) *FetchError {
	return &FetchError{Op: op, Kind: ErrParse, Err: err}
}
