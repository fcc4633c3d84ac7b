package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tclens/tclens-server/internal/common"
	"github.com/tclens/tclens-server/internal/llm"
)

type generateRequest struct {
	Type string `json:"type"`
}

type generateResponse struct {
	Content string `json:"content"`
}

// handleGenerateDocument drafts a template document of the requested type.
// This is the one route that bypasses the pipeline: there is no input
// document to extract or meter, just a prompt.
func (s *Service) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.NewAppError(common.CodeNoInput, "request body must be JSON", err), 0)
		return
	}
	docType := strings.TrimSpace(req.Type)
	if docType == "" {
		s.writeError(w, common.NewAppError(common.CodeNoInput, "type is required", nil), 0)
		return
	}

	content, err := s.requester.Request(r.Context(), llm.Request{
		Mode:    llm.ModeDraft,
		DocType: docType,
	})
	if err != nil {
		s.writeError(w, mapCompletionError(err), 0)
		return
	}
	s.writeBare(w, generateResponse{Content: content})
}

// mapCompletionError classifies upstream failures for the plain-text routes
// (drafting, chat) that call the requester directly.
func mapCompletionError(err error) error {
	switch {
	case errors.Is(err, llm.ErrThrottled):
		return common.NewAppError(common.CodeUpstreamThrottled,
			"the assistant is rate limited; try again shortly", err)
	case errors.Is(err, llm.ErrEmptyResponse):
		return common.NewAppError(common.CodeUpstreamEmpty, "the assistant returned no content", err)
	default:
		return common.NewAppError(common.CodeUpstreamUnavailable, "the assistant is unavailable", err)
	}
}
