package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Common errors
var (
	// ErrInvalidCatalogID indicates a catalog outside the known set
	ErrInvalidCatalogID = errors.New("invalid catalog id")
	// ErrInvalidReleaseStatus indicates a reserved or unknown release status code
	ErrInvalidReleaseStatus = errors.New("invalid release status")
	// ErrInvalidObjectType indicates an unknown object type
	ErrInvalidObjectType = errors.New("invalid object type")
	// ErrEmptyBatch indicates a batch operation was called with nothing to send
	ErrEmptyBatch = errors.New("batch is empty")
)

// maxErrorBody bounds how much of a response body is kept on errors
const maxErrorBody = 500

// ValidationError reports a Data Model value that violates its invariants
type ValidationError struct {
	Entity     string
	Violations []string
	Err        error

	tags []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(e.Violations, "; "))
}

// Unwrap returns the underlying validator error
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is lets callers match enum violations against the package sentinels
func (e *ValidationError) Is(target error) bool {
	var tag string
	switch target {
	case ErrInvalidCatalogID:
		tag = "catalogid"
	case ErrInvalidReleaseStatus:
		tag = "releasestatus"
	case ErrInvalidObjectType:
		tag = "objecttype"
	default:
		return false
	}
	for _, t := range e.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// StatusError is returned when the service answers with a non-2xx status
// after the transport has exhausted its retries
type StatusError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog API error: %s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsServerError checks if the service failed rather than rejected the request
func (e *StatusError) IsServerError() bool {
	return e.StatusCode >= 500
}

// FormatError is returned when a response body does not have the expected shape
type FormatError struct {
	Endpoint string
	Reason   string
	Body     string
	Err      error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected response from %s: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected response from %s: %s", e.Endpoint, e.Reason)
}

// Unwrap returns the decoding error, if any
func (e *FormatError) Unwrap() error {
	return e.Err
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
