package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tclens/tclens-server/constants"
)

// Request is one analysis call against the upstream model.
type Request struct {
	Text  string
	Mode  Mode
	URL   string
	Title string
	// DocType names the document kind for ModeDraft.
	DocType string
}

// Requester builds the fixed prompt for a mode, truncates input to its
// character budget, and invokes the configured provider. It never retries;
// retry policy belongs to the caller.
type Requester struct {
	provider Provider
	log      *slog.Logger
}

func NewRequester(provider Provider, log *slog.Logger) *Requester {
	if log == nil {
		log = slog.Default()
	}
	return &Requester{provider: provider, log: log}
}

// truncate applies the hard character cutoff. Not sentence-aware.
func truncate(text string, budget int) string {
	if len(text) > budget {
		return text[:budget]
	}
	return text
}

// Request returns the raw model output text for the given mode.
func (r *Requester) Request(ctx context.Context, req Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	var cr CompletionRequest
	switch req.Mode {
	case ModeDocument:
		cr = CompletionRequest{
			System:   documentSystemPrompt,
			User:     buildDocumentUserPrompt(truncate(req.Text, constants.TruncateDocument)),
			JSONOnly: true,
			Schema:   BuildDocumentSchema(),
		}
	case ModeDetect:
		cr = CompletionRequest{
			System:   detectSystemPrompt,
			User:     buildPageUserPrompt(truncate(req.Text, constants.TruncateDetect), req.URL, req.Title),
			JSONOnly: true,
			Schema:   BuildDetectionSchema(),
		}
	case ModePopup:
		cr = CompletionRequest{
			System:   popupSystemPrompt,
			User:     buildPageUserPrompt(truncate(req.Text, constants.TruncatePopup), req.URL, ""),
			JSONOnly: true,
			Schema:   BuildPopupSchema(),
		}
	case ModeDraft:
		cr = CompletionRequest{
			User: buildDraftPrompt(req.DocType),
		}
	case ModeChat:
		cr = CompletionRequest{
			System: chatSystemPrompt,
			User:   req.Text,
		}
	}

	r.log.Info("llm.request.start",
		"req_id", rid,
		"mode", req.Mode,
		"provider", r.provider.Name(),
		"text_len", len(req.Text),
	)

	content, err := r.provider.Complete(ctx, cr)
	if err != nil {
		r.log.Error("llm.request.failed",
			"req_id", rid,
			"mode", req.Mode,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	r.log.Info("llm.request.ok",
		"req_id", rid,
		"mode", req.Mode,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
