package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tclens/tclens-server/internal/llm"
)

func generateContentResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
}

func TestCompleteSuccess(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(generateContentResponse(`{"risk_score": 12}`))
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gemini-1.5-flash"}, nil)
	out, err := c.Complete(context.Background(), llm.CompletionRequest{
		System:   "classify the page",
		User:     "PAGE TEXT:\nhello",
		JSONOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"risk_score": 12}`, out)

	// system prompt folded into the single user content; JSON MIME set
	contents, ok := gotBody["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	gc, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", gc["response_mime_type"])
}

func TestCompleteThrottled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: server.URL}, nil)
	_, err := c.Complete(context.Background(), llm.CompletionRequest{User: "x"})
	assert.ErrorIs(t, err, llm.ErrThrottled)
}

func TestCompleteNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: server.URL}, nil)
	_, err := c.Complete(context.Background(), llm.CompletionRequest{User: "x"})
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: server.URL}, nil)
	_, err := c.Complete(context.Background(), llm.CompletionRequest{User: "x"})
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}
