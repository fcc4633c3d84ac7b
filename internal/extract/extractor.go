package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/tclens/tclens-server/constants"
)

// Extractor dispatches on the declared media type. It is stateless and safe
// for concurrent use.
type Extractor struct {
	log *slog.Logger
}

func NewExtractor(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{log: log}
}

func (e *Extractor) Extract(ctx context.Context, data []byte, mediaType string) (Result, error) {
	start := time.Now()
	mt := constants.NormalizeMediaType(mediaType)

	var (
		res Result
		err error
	)
	switch mt {
	case constants.MediaPlain:
		res, err = e.extractPlain(data)
	case constants.MediaPDF:
		res, err = e.extractPDF(data)
	case constants.MediaDOCX:
		res, err = e.extractDOCX(data)
	default:
		return Result{}, &UnsupportedTypeError{MediaType: mediaType}
	}
	if err != nil {
		e.log.Error("extract.failed", "media_type", mt, "bytes", len(data), "error", err)
		return Result{}, err
	}

	res.MediaType = mt
	res.Duration = time.Since(start)
	e.log.Info("extract.ok",
		"media_type", mt,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractPlain(data []byte) (Result, error) {
	return Result{Text: string(data), Method: "plain"}, nil
}

// extractPDF concatenates per-page text in page order with a newline
// separator. The pdf package is known to panic on some malformed inputs, so
// the whole parse runs under a recover.
func (e *Extractor) extractPDF(data []byte) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DecodeError{MediaType: constants.MediaPDF, Cause: fmt.Errorf("pdf decoder panic: %v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, &DecodeError{MediaType: constants.MediaPDF, Cause: err}
	}

	var sb strings.Builder
	var warnings []string
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, perr))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return Result{}, &EmptyDocumentError{MediaType: constants.MediaPDF}
	}
	return Result{Text: text, Pages: numPages, Method: "pdf-text", Warnings: warnings}, nil
}

func (e *Extractor) extractDOCX(data []byte) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DecodeError{MediaType: constants.MediaDOCX, Cause: fmt.Errorf("docx decoder panic: %v", r)}
		}
	}()

	text, err := docxText(data)
	if err != nil {
		return Result{}, &DecodeError{MediaType: constants.MediaDOCX, Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, &EmptyDocumentError{MediaType: constants.MediaDOCX}
	}
	return Result{Text: text, Method: "docx-xml"}, nil
}
