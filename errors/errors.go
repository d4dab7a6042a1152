// Package errors provides error handling for qntx-eurostat.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints for tool callers
//
// Usage:
//
//	// Wrap with context
//	if err := fetch(); err != nil {
//	    return errors.Wrap(err, "failed to fetch catalog")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "check the dataset code with search_datasets")
//
//	// Check upstream failures
//	if errors.Is(err, errors.ErrUpstream) {
//	    // non-2xx from Eurostat
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"fmt"
	"net/http"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Sentinel errors. Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the requested dataset or codelist does not exist upstream
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the caller supplied an unusable argument
	ErrInvalidRequest = New("invalid request")

	// ErrUpstream indicates Eurostat answered with a non-2xx status
	ErrUpstream = New("upstream request failed")

	// ErrMalformedCube indicates a JSON-stat payload whose shape is inconsistent
	ErrMalformedCube = New("malformed data cube")
)

// UpstreamError describes a non-2xx answer from one of the Eurostat APIs.
// Label carries the human-readable message embedded in the upstream payload when one
// could be parsed; otherwise Body holds the (truncated) raw response.
type UpstreamError struct {
	Operation string
	Status    int
	Label     string
	Body      string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: HTTP %d", e.Operation, e.Status)
	if text := http.StatusText(e.Status); text != "" {
		msg += " " + text
	}
	switch {
	case e.Label != "":
		msg += ": " + e.Label
	case e.Body != "":
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap makes every UpstreamError match ErrUpstream.
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// NewUpstreamError builds an UpstreamError. A 404 additionally matches ErrNotFound.
func NewUpstreamError(operation string, status int, label, body string) error {
	err := error(&UpstreamError{
		Operation: operation,
		Status:    status,
		Label:     label,
		Body:      body,
	})
	if status == http.StatusNotFound {
		err = Mark(err, ErrNotFound)
	}
	return err
}

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsUpstreamError checks if an error is or wraps ErrUpstream
func IsUpstreamError(err error) bool {
	return err != nil && Is(err, ErrUpstream)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// Truncate shortens s to at most n characters (runes).
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
