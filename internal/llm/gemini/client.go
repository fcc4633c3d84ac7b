package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tclens/tclens-server/internal/llm"
)

// Config for the Gemini (Google Generative Language API) client.
type Config struct {
	APIKey  string        // if empty, falls back to env GOOGLE_API_KEY
	BaseURL string        // default https://generativelanguage.googleapis.com
	Model   string        // e.g., "gemini-1.5-flash"
	Timeout time.Duration // http client timeout
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}

// Name implements llm.Provider.
func (c *Client) Name() string { return "gemini" }

// Wire shapes, minimal fields only.
type gmPart struct {
	Text string `json:"text"`
}
type gmContent struct {
	Role  string   `json:"role,omitempty"`
	Parts []gmPart `json:"parts"`
}
type gmGenerationConfig struct {
	ResponseMIMEType string `json:"response_mime_type,omitempty"`
}
type gmRequest struct {
	Contents         []gmContent         `json:"contents"`
	GenerationConfig *gmGenerationConfig `json:"generationConfig,omitempty"`
}
type gmResponse struct {
	Candidates []struct {
		Content struct {
			Parts []gmPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete implements llm.Provider. Gemini has no system role, so the system
// prompt (and schema, when present) is folded into the user content. JSON-only
// requests set response_mime_type.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.gemini.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"json_only", req.JSONOnly,
		"user_len", len(req.User),
	)

	var sb strings.Builder
	if req.System != "" {
		sb.WriteString(req.System)
		sb.WriteString("\n\n")
	}
	if req.Schema != nil {
		schemaJSON, _ := json.MarshalIndent(req.Schema, "", "  ")
		sb.WriteString("JSON Schema:\n")
		sb.Write(schemaJSON)
		sb.WriteString("\n\n")
	}
	sb.WriteString(req.User)

	body := gmRequest{
		Contents: []gmContent{{Role: "user", Parts: []gmPart{{Text: sb.String()}}}},
	}
	if req.JSONOnly {
		body.GenerationConfig = &gmGenerationConfig{ResponseMIMEType: "application/json"}
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") +
		"/v1beta/models/" + url.PathEscape(c.cfg.Model) + ":generateContent"
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.gemini.transport_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}
	if status == http.StatusTooManyRequests {
		c.log.Warn("llm.gemini.throttled", "req_id", rid)
		return "", llm.ErrThrottled
	}
	if status/100 != 2 {
		c.log.Error("llm.gemini.bad_status",
			"req_id", rid, "status", status, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: status %d", llm.ErrUnavailable, status)
	}

	var gr gmResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		c.log.Error("llm.gemini.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: decode response: %v", llm.ErrUnavailable, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		c.log.Error("llm.gemini.no_candidates", "req_id", rid)
		return "", llm.ErrEmptyResponse
	}

	var content strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		content.WriteString(p.Text)
	}
	out := strings.TrimSpace(content.String())
	if out == "" {
		c.log.Error("llm.gemini.empty_content", "req_id", rid)
		return "", llm.ErrEmptyResponse
	}

	c.log.Info("llm.gemini.ok",
		"req_id", rid,
		"content_len", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
