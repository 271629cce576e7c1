package source

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for upstream calls.
type ErrorCategory string

const (
	// ErrorTimeout indicates the upstream took too long to respond.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the upstream returned a body that is not a
	// country record or list of records.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorProviderOutage indicates a transport failure or a non-2xx status.
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorInternal indicates a failure on our side, such as an invalid URL.
	ErrorInternal ErrorCategory = "internal"
)

// UpstreamError wraps an upstream failure with its category and the call
// that produced it.
type UpstreamError struct {
	Category   ErrorCategory
	Endpoint   string
	StatusCode int
	Underlying error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream %s [%s]", e.Endpoint, e.Category)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Underlying
}

func newUpstreamError(category ErrorCategory, endpoint string, status int, underlying error) *UpstreamError {
	return &UpstreamError{
		Category:   category,
		Endpoint:   endpoint,
		StatusCode: status,
		Underlying: underlying,
	}
}

// classifyTransport picks the category for an error returned by the HTTP
// client.
func classifyTransport(err error) ErrorCategory {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	return ErrorProviderOutage
}

// GetCategory extracts the category from an error, defaulting to
// ErrorInternal.
func GetCategory(err error) ErrorCategory {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Category
	}
	return ErrorInternal
}

// ErrEmptySlug is returned when a lookup is attempted without a term.
var ErrEmptySlug = errors.New("empty search slug")
