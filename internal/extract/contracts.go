package extract

import (
	"context"
	"fmt"
	"time"
)

// TextExtractor is Stage 1: raw upload bytes -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mediaType string) (Result, error)
}

type Result struct {
	Text      string
	Pages     int
	MediaType string
	Method    string // "pdf-text" | "docx-xml" | "plain"
	Duration  time.Duration
	Warnings  []string
}

// ErrEmptyDocument signals a parse that succeeded but produced no visible
// text. For PDFs that almost always means a scanned, image-only document.
type EmptyDocumentError struct {
	MediaType string
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("no extractable text in %s document", e.MediaType)
}

// UnsupportedTypeError names the media type the extractor rejected.
type UnsupportedTypeError struct {
	MediaType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported media type: %q", e.MediaType)
}

// DecodeError re-signals a failure (or panic) from the underlying format
// decoder. The original failure message is carried for diagnostics.
type DecodeError struct {
	MediaType string
	Cause     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.MediaType, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
