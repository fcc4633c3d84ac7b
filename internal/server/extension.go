package server

import (
	"encoding/json"
	"net/http"

	"github.com/tclens/tclens-server/internal/common"
	"github.com/tclens/tclens-server/internal/llm"
	"github.com/tclens/tclens-server/internal/pipeline"
)

// extensionRequest is the payload the browser extension posts for both the
// cheap page detection and the full popup summary.
type extensionRequest struct {
	PageText string `json:"page_text"`
	URL      string `json:"url"`
	Title    string `json:"title"`
}

func (s *Service) decodeExtensionRequest(w http.ResponseWriter, r *http.Request) (extensionRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Limits.MaxUploadBytes)
	var req extensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.NewAppError(common.CodeNoInput, "request body must be JSON", err), 0)
		return extensionRequest{}, false
	}
	if req.PageText == "" {
		s.writeError(w, common.NewAppError(common.CodeNoInput, "page_text is required", nil), 0)
		return extensionRequest{}, false
	}
	return req, true
}

// handleExtensionDetect classifies the current page. Extension traffic is
// not metered; the quota stage is skipped.
func (s *Service) handleExtensionDetect(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeExtensionRequest(w, r)
	if !ok {
		return
	}

	out, err := s.pipe.Run(r.Context(), pipeline.Input{
		Text:  req.PageText,
		Mode:  llm.ModeDetect,
		URL:   req.URL,
		Title: req.Title,
	})
	if err != nil {
		s.writeError(w, err, out.WordCount)
		return
	}
	s.writeBare(w, out.Detection)
}

// handleExtensionAnalyze produces the popup summary for a page the detector
// already flagged.
func (s *Service) handleExtensionAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeExtensionRequest(w, r)
	if !ok {
		return
	}

	out, err := s.pipe.Run(r.Context(), pipeline.Input{
		Text: req.PageText,
		Mode: llm.ModePopup,
		URL:  req.URL,
	})
	if err != nil {
		s.writeError(w, err, out.WordCount)
		return
	}
	s.writeBare(w, out.Popup)
}
