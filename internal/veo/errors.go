package veo

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a generation failure.
type ErrorKind string

const (
	// KindInvalidRequest marks a malformed or self-contradictory request,
	// rejected before a job record exists.
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindUnsupportedCapability marks a request for a feature the selected
	// model version does not support, detected before calling the provider.
	KindUnsupportedCapability ErrorKind = "unsupported_capability"
	// KindContentFiltered marks an operation that completed but whose output
	// was suppressed by the provider's safety filters.
	KindContentFiltered ErrorKind = "content_filtered"
	// KindProviderError marks an operation-level failure reported by the
	// provider (quota, internal error, rejected input).
	KindProviderError ErrorKind = "provider_error"
	// KindTimeout marks an operation that never completed within the bounded
	// poll window.
	KindTimeout ErrorKind = "timeout"
)

// GenerationError is the typed failure returned by the Veo client so callers
// can classify failures without string matching.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("veo: %s: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, format string, args ...any) *GenerationError {
	return &GenerationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, cause error, format string, args ...any) *GenerationError {
	return &GenerationError{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// AsGenerationError extracts a GenerationError from an error chain.
func AsGenerationError(err error) (*GenerationError, bool) {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind ErrorKind) bool {
	ge, ok := AsGenerationError(err)
	return ok && ge.Kind == kind
}
