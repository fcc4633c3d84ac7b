// Package server exposes the analysis pipeline over HTTP. The /analyze
// route and every error response use the JSON envelope with a stable machine
// code; the extension and drafting routes return their result objects bare,
// as their clients read fields directly off the decoded body.
package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tclens/tclens-server/internal/common"
	"github.com/tclens/tclens-server/internal/llm"
	"github.com/tclens/tclens-server/internal/pipeline"
	"github.com/tclens/tclens-server/internal/quota"
)

type Service struct {
	cfg       *common.Config
	pipe      *pipeline.Pipeline
	requester *llm.Requester
	store     quota.Store
	logger    *slog.Logger
}

func NewService(cfg *common.Config, pipe *pipeline.Pipeline, requester *llm.Requester, store quota.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		pipe:      pipe,
		requester: requester,
		store:     store,
		logger:    logger,
	}
}

// Routes builds the full route table.
func (s *Service) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /extension/detect", s.handleExtensionDetect)
	mux.HandleFunc("POST /extension/analyze", s.handleExtensionAnalyze)
	mux.HandleFunc("POST /generate-document", s.handleGenerateDocument)
	mux.HandleFunc("POST /ai-lawyer-chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s.withRequestID(mux)
}

// withRequestID tags every request with a req_id and logs start/finish.
func (s *Service) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-Id")
		if rid == "" {
			rid = uuid.New().String()
		}
		ctx := common.WithRequestID(r.Context(), rid)
		w.Header().Set("X-Request-Id", rid)
		s.logger.Info("http.request", "req_id", rid, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
