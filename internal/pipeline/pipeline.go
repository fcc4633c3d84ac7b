// Package pipeline coordinates extraction, quota admission, the upstream
// analysis call, and response normalization for a single request. It is
// synchronous and single-shot: nothing is streamed, nothing is persisted
// mid-flight, and failure at any stage surfaces directly to the caller.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tclens/tclens-server/constants"
	"github.com/tclens/tclens-server/internal/common"
	"github.com/tclens/tclens-server/internal/extract"
	"github.com/tclens/tclens-server/internal/llm"
	"github.com/tclens/tclens-server/internal/quota"
)

type Pipeline struct {
	Extractor       extract.TextExtractor
	Requester       *llm.Requester
	Store           quota.Store
	Log             *slog.Logger
	MinContentChars int
}

func New(ex extract.TextExtractor, req *llm.Requester, store quota.Store, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		Extractor:       ex,
		Requester:       req,
		Store:           store,
		Log:             log,
		MinContentChars: constants.MinContentChars,
	}
}

// Input is one ingestion request. FileBytes and Text are mutually exclusive;
// FileBytes wins when both are set.
type Input struct {
	FileBytes []byte
	MediaType string
	Text      string

	Mode  llm.Mode
	URL   string
	Title string

	// Identity keys the usage counter. Limit selects the tier's word budget;
	// zero means the request is unmetered (extension flows).
	Identity string
	Limit    int
	// ReportedUsage is the client-reported counter, honored when it exceeds
	// the stored one so legacy storeless clients keep their own accounting.
	ReportedUsage int
}

// Outcome carries the normalized result for whichever mode ran. Exactly one
// of the result pointers is set on success.
type Outcome struct {
	Stage     constants.Stage
	WordCount int

	Analysis  *llm.AnalysisResult
	Detection *llm.DetectionResult
	Popup     *llm.PopupSummary
}

// Run drives Received → Extracting → QuotaChecking → Requesting →
// Normalizing → Complete. Every returned error is a *common.AppError.
func (p *Pipeline) Run(ctx context.Context, in Input) (Outcome, error) {
	out := Outcome{Stage: constants.StageReceived}

	// Received → Extracting
	if len(in.FileBytes) == 0 && in.Text == "" {
		return p.fail(out, common.NewAppError(common.CodeNoInput, "no file or text provided", nil))
	}

	out.Stage = constants.StageExtracting
	text := in.Text
	if len(in.FileBytes) > 0 {
		res, err := p.Extractor.Extract(ctx, in.FileBytes, in.MediaType)
		if err != nil {
			return p.fail(out, mapExtractError(err))
		}
		text = res.Text
	}
	// The minimum applies to uploaded documents only; the extension modes
	// classify any non-empty page text, short disclaimer fragments included.
	if in.Mode == llm.ModeDocument {
		if trimmed := len([]rune(strings.TrimSpace(text))); trimmed < p.MinContentChars {
			return p.fail(out, common.NewAppError(common.CodeContentTooShort,
				fmt.Sprintf("document too short to analyze meaningfully (%d chars, need %d)", trimmed, p.MinContentChars), nil))
		}
	}
	out.WordCount = quota.CountWords(text)

	// Extracting → QuotaChecking
	out.Stage = constants.StageQuotaChecking
	if in.Limit > 0 {
		used, err := p.Store.Usage(ctx, in.Identity)
		if err != nil {
			return p.fail(out, common.NewAppError(common.CodeInternal, "usage lookup failed", err))
		}
		if in.ReportedUsage > used {
			used = in.ReportedUsage
		}
		if d := quota.Check(used, out.WordCount, in.Limit); !d.Admitted {
			return p.fail(out, common.NewAppError(common.CodeQuotaExceeded,
				fmt.Sprintf("word limit exceeded by %d words", d.Deficit), nil))
		}
	}

	// QuotaChecking → Requesting
	out.Stage = constants.StageRequesting
	raw, err := p.Requester.Request(ctx, llm.Request{
		Text:  text,
		Mode:  in.Mode,
		URL:   in.URL,
		Title: in.Title,
	})
	if err != nil {
		return p.fail(out, mapUpstreamError(err))
	}

	// Requesting → Normalizing
	out.Stage = constants.StageNormalizing
	switch in.Mode {
	case llm.ModeDocument:
		res, err := llm.NormalizeDocument(raw)
		if err != nil {
			return p.fail(out, mapNormalizeError(err))
		}
		out.Analysis = &res
	case llm.ModeDetect:
		res, err := llm.NormalizeDetection(raw)
		if err != nil {
			return p.fail(out, mapNormalizeError(err))
		}
		out.Detection = &res
	case llm.ModePopup:
		res, err := llm.NormalizePopup(raw)
		if err != nil {
			return p.fail(out, mapNormalizeError(err))
		}
		out.Popup = &res
	default:
		return p.fail(out, common.NewAppError(common.CodeInternal, fmt.Sprintf("unknown pipeline mode %q", in.Mode), nil))
	}

	// Normalizing → Complete, with the accounting side effect. The analysis
	// already happened, so a failed counter write is logged, not surfaced.
	out.Stage = constants.StageComplete
	if in.Limit > 0 {
		if _, err := p.Store.AddUsage(ctx, in.Identity, out.WordCount); err != nil {
			p.Log.Error("pipeline.accounting_failed", "identity", in.Identity, "words", out.WordCount, "error", err)
		}
	}

	p.Log.Info("pipeline.complete", "mode", in.Mode, "word_count", out.WordCount)
	return out, nil
}

func (p *Pipeline) fail(out Outcome, appErr *common.AppError) (Outcome, error) {
	p.Log.Warn("pipeline.failed", "stage", out.Stage, "code", appErr.Code, "error", appErr)
	out.Stage = constants.StageFailed
	return out, appErr
}

func mapExtractError(err error) *common.AppError {
	var (
		ute *extract.UnsupportedTypeError
		ede *extract.EmptyDocumentError
		de  *extract.DecodeError
	)
	switch {
	case errors.As(err, &ute):
		return common.NewAppError(common.CodeUnsupportedType, ute.Error(), err)
	case errors.As(err, &ede):
		return common.NewAppError(common.CodeEmptyDocument,
			"no extractable text; the document may be scanned or image-only", err)
	case errors.As(err, &de):
		return common.NewAppError(common.CodeExtractionFailed, de.Error(), err)
	default:
		return common.NewAppError(common.CodeExtractionFailed, "text extraction failed", err)
	}
}

func mapUpstreamError(err error) *common.AppError {
	switch {
	case errors.Is(err, llm.ErrThrottled):
		return common.NewAppError(common.CodeUpstreamThrottled,
			"the analysis service is rate limited; try again shortly", err)
	case errors.Is(err, llm.ErrEmptyResponse):
		return common.NewAppError(common.CodeUpstreamEmpty, "the analysis service returned no content", err)
	case errors.Is(err, llm.ErrUnavailable):
		return common.NewAppError(common.CodeUpstreamUnavailable, "the analysis service is unavailable", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return common.NewAppError(common.CodeUpstreamUnavailable, "the analysis request timed out", err)
	default:
		return common.NewAppError(common.CodeUpstreamUnavailable, "the analysis request failed", err)
	}
}

func mapNormalizeError(err error) *common.AppError {
	var (
		mje *llm.MalformedJSONError
		iee *llm.InvalidEnumError
	)
	switch {
	case errors.As(err, &mje):
		return common.NewAppError(common.CodeMalformedJSON, mje.Error(), err)
	case errors.As(err, &iee):
		return common.NewAppError(common.CodeInvalidEnum, iee.Error(), err)
	default:
		return common.NewAppError(common.CodeInternal, "response normalization failed", err)
	}
}
