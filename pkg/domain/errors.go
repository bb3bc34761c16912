package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the relay error taxonomy.
var (
	// ErrValidation indicates a required request field is missing.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration indicates a required credential could not be resolved.
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstream indicates the outbound vendor call failed at the transport
	// level (network error or non-2xx status).
	ErrUpstream = errors.New("upstream transport error")
)

// ValidationError reports a missing required field. Surfaced as HTTP 400 and
// never retried.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Missing %s", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConfigurationError reports an unresolvable credential, with a remediation
// hint safe to show callers. Surfaced as HTTP 400.
type ConfigurationError struct {
	Name string
	Hint string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Missing %s", e.Name)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// UpstreamError reports a failed vendor call. Snippet holds a bounded excerpt
// of the upstream body for diagnosis; it is never the full payload.
type UpstreamError struct {
	Message string
	Status  int
	Snippet string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConfiguration reports whether err is a missing-credential failure.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsUpstream reports whether err is an upstream transport failure.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}
