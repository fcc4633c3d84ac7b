package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tclens/tclens-server/internal/common"
	"github.com/tclens/tclens-server/internal/llm"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// handleChat answers a legal-assistant chat turn. Only the latest message is
// sent upstream, primed with the fixed assistant instructions; the client
// keeps its own history.
func (s *Service) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.NewAppError(common.CodeNoInput, "request body must be JSON", err), 0)
		return
	}
	if len(req.Messages) == 0 {
		s.writeError(w, common.NewAppError(common.CodeNoInput, "messages is required", nil), 0)
		return
	}
	last := strings.TrimSpace(req.Messages[len(req.Messages)-1].Content)
	if last == "" {
		s.writeError(w, common.NewAppError(common.CodeNoInput, "last message has no content", nil), 0)
		return
	}

	reply, err := s.requester.Request(r.Context(), llm.Request{
		Mode: llm.ModeChat,
		Text: last,
	})
	if err != nil {
		s.writeError(w, mapCompletionError(err), 0)
		return
	}
	s.writeBare(w, chatResponse{Reply: reply})
}
