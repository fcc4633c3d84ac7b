package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors with a stable machine code.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Stable machine-readable codes. These are part of the API surface: clients
// branch on them, so never rename an existing value.
const (
	CodeNoInput             = "ERR_NO_INPUT"
	CodeUnsupportedType     = "ERR_UNSUPPORTED_TYPE"
	CodeEmptyDocument       = "ERR_EMPTY_PDF"
	CodeExtractionFailed    = "ERR_EXTRACTION_FAILED"
	CodeContentTooShort     = "ERR_CONTENT_TOO_SHORT"
	CodeQuotaExceeded       = "ERR_QUOTA_EXCEEDED"
	CodeUpstreamThrottled   = "ERR_UPSTREAM_THROTTLED"
	CodeUpstreamEmpty       = "ERR_UPSTREAM_EMPTY"
	CodeUpstreamUnavailable = "ERR_UPSTREAM_UNAVAILABLE"
	CodeMalformedJSON       = "ERR_MALFORMED_JSON"
	CodeInvalidEnum         = "ERR_INVALID_ENUM"
	CodeConfig              = "ERR_CONFIG"
	CodeInternal            = "ERR_INTERNAL"
)

// NewAppError builds an AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// AsAppError unwraps err looking for an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// CodeOf returns the machine code of err, or ERR_INTERNAL for plain errors.
func CodeOf(err error) string {
	if ae, ok := AsAppError(err); ok {
		return ae.Code
	}
	return CodeInternal
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
