package llm

import (
	"errors"
	"fmt"
)

// Upstream failure classes. Providers map their wire-level failures onto
// these; no retries happen at this layer.
var (
	// ErrThrottled is an upstream rate limit. Retryable by the caller after
	// a delay.
	ErrThrottled = errors.New("upstream rate limited")
	// ErrEmptyResponse means the upstream answered but carried no content.
	ErrEmptyResponse = errors.New("empty upstream response")
	// ErrUnavailable covers transport failures, timeouts, and unexpected
	// upstream statuses.
	ErrUnavailable = errors.New("upstream unavailable")
)

// rawPreviewLimit caps how much offending upstream text an error carries.
const rawPreviewLimit = 512

// MalformedJSONError is an upstream payload that does not parse as JSON.
// Raw holds a truncated copy of the offending text for diagnostics.
type MalformedJSONError struct {
	Raw   string
	Cause error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed upstream json: %v (raw: %q)", e.Cause, e.Raw)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Cause
}

func newMalformedJSONError(raw string, cause error) *MalformedJSONError {
	if len(raw) > rawPreviewLimit {
		raw = raw[:rawPreviewLimit]
	}
	return &MalformedJSONError{Raw: raw, Cause: cause}
}

// InvalidEnumError is an enumerated field outside its declared value set.
// Never silently clamped; the caller decides whether to surface or downgrade.
type InvalidEnumError struct {
	Field string
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid value %q for enum field %q", e.Value, e.Field)
}
