package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tclens/tclens-server/constants"
	"github.com/tclens/tclens-server/internal/common"
	"github.com/tclens/tclens-server/internal/extract"
	"github.com/tclens/tclens-server/internal/llm"
	"github.com/tclens/tclens-server/internal/quota"
)

type stubProvider struct {
	content string
	err     error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	return s.content, s.err
}

func newTestPipeline(t *testing.T, provider llm.Provider) (*Pipeline, *quota.MemoryStore) {
	t.Helper()
	store := quota.NewMemoryStore()
	p := New(extract.NewExtractor(nil), llm.NewRequester(provider, nil), store, nil)
	return p, store
}

func longText() string {
	return strings.Repeat("the licensee shall indemnify the licensor ", 200)
}

func TestRunDocumentSuccess(t *testing.T) {
	p, store := newTestPipeline(t, &stubProvider{content: `{"summary":"ok","riskScore":70}`})

	out, err := p.Run(context.Background(), Input{
		Text:     longText(),
		Mode:     llm.ModeDocument,
		Identity: "acct-1",
		Limit:    constants.LimitBusiness,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StageComplete, out.Stage)
	require.NotNil(t, out.Analysis)
	assert.Equal(t, "ok", out.Analysis.Summary)
	assert.Equal(t, 70, out.Analysis.RiskScore)
	assert.Greater(t, out.WordCount, 0)

	used, err := store.Usage(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, out.WordCount, used)
}

func TestRunNoInput(t *testing.T) {
	p, _ := newTestPipeline(t, &stubProvider{})

	_, err := p.Run(context.Background(), Input{Mode: llm.ModeDocument})
	require.Error(t, err)
	assert.Equal(t, common.CodeNoInput, common.CodeOf(err))
}

func TestRunContentTooShort(t *testing.T) {
	p, _ := newTestPipeline(t, &stubProvider{})

	_, err := p.Run(context.Background(), Input{Text: "   too short   ", Mode: llm.ModeDocument})
	require.Error(t, err)
	assert.Equal(t, common.CodeContentTooShort, common.CodeOf(err))
}

func TestRunDetectShortPageText(t *testing.T) {
	p, _ := newTestPipeline(t, &stubProvider{
		content: `{"is_legal_page":true,"legally_binding":true,"confidence":70,"scope":"fragment","classification":"disclaimer","reason":"short disclaimer"}`,
	})

	// A disclaimer-only fragment is well under the document minimum but the
	// detector still classifies it.
	out, err := p.Run(context.Background(), Input{
		Text: "By continuing you accept our terms.",
		Mode: llm.ModeDetect,
		URL:  "https://example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Detection)
	assert.Equal(t, constants.ScopeFragment, out.Detection.Scope)
	assert.Equal(t, constants.TriggerBadge, out.Detection.TriggerRecommendation)
}

func TestRunQuotaExceeded(t *testing.T) {
	p, store := newTestPipeline(t, &stubProvider{content: `{"summary":"ok"}`})

	// 4800 already used, a 300-word document against a 5000 limit leaves a
	// deficit of 100 words.
	_, err := store.AddUsage(context.Background(), "anon-1", 4800)
	require.NoError(t, err)

	doc := strings.Repeat("word ", 300)
	_, err = p.Run(context.Background(), Input{
		Text:     doc,
		Mode:     llm.ModeDocument,
		Identity: "anon-1",
		Limit:    constants.LimitAnonymous,
	})
	require.Error(t, err)
	assert.Equal(t, common.CodeQuotaExceeded, common.CodeOf(err))
	assert.Contains(t, err.Error(), "100")

	// A rejected request must not advance the counter.
	used, err := store.Usage(context.Background(), "anon-1")
	require.NoError(t, err)
	assert.Equal(t, 4800, used)
}

func TestRunReportedUsageWins(t *testing.T) {
	p, _ := newTestPipeline(t, &stubProvider{content: `{"summary":"ok"}`})

	// Store knows nothing, but the client reports near-limit usage.
	doc := strings.Repeat("word ", 300)
	_, err := p.Run(context.Background(), Input{
		Text:          doc,
		Mode:          llm.ModeDocument,
		Identity:      "anon-2",
		Limit:         constants.LimitAnonymous,
		ReportedUsage: 4900,
	})
	require.Error(t, err)
	assert.Equal(t, common.CodeQuotaExceeded, common.CodeOf(err))
}

func TestRunUnmeteredSkipsQuota(t *testing.T) {
	p, store := newTestPipeline(t, &stubProvider{content: `{"is_legal_page":false,"confidence":10}`})

	out, err := p.Run(context.Background(), Input{
		Text:     longText(),
		Mode:     llm.ModeDetect,
		Identity: "ext-1",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Detection)

	used, err := store.Usage(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestRunUndecodablePDF(t *testing.T) {
	p, _ := newTestPipeline(t, &stubProvider{})

	_, err := p.Run(context.Background(), Input{
		FileBytes: []byte("%PDF-1.4 not really"),
		MediaType: constants.MediaPDF,
		Mode:      llm.ModeDocument,
	})
	require.Error(t, err)
	assert.Equal(t, common.CodeExtractionFailed, common.CodeOf(err))
}

func TestRunUpstreamErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"throttled", llm.ErrThrottled, common.CodeUpstreamThrottled},
		{"empty", llm.ErrEmptyResponse, common.CodeUpstreamEmpty},
		{"unavailable", llm.ErrUnavailable, common.CodeUpstreamUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestPipeline(t, &stubProvider{err: tc.err})
			_, err := p.Run(context.Background(), Input{Text: longText(), Mode: llm.ModeDocument})
			require.Error(t, err)
			assert.Equal(t, tc.code, common.CodeOf(err))
		})
	}
}

func TestRunMalformedJSON(t *testing.T) {
	p, _ := newTestPipeline(t, &stubProvider{content: "I am sorry, I cannot do that."})

	_, err := p.Run(context.Background(), Input{Text: longText(), Mode: llm.ModeDocument})
	require.Error(t, err)
	assert.Equal(t, common.CodeMalformedJSON, common.CodeOf(err))
}

func TestRunInvalidEnum(t *testing.T) {
	p, _ := newTestPipeline(t, &stubProvider{
		content: `{"summary":"ok","clauses":[{"type":"Liability","summary":"x","riskLevel":"extreme"}]}`,
	})

	_, err := p.Run(context.Background(), Input{Text: longText(), Mode: llm.ModeDocument})
	require.Error(t, err)
	assert.Equal(t, common.CodeInvalidEnum, common.CodeOf(err))
}

func TestRunFilePreferredOverText(t *testing.T) {
	p, _ := newTestPipeline(t, &stubProvider{content: `{"summary":"ok"}`})

	body := strings.Repeat("uploaded file body wins over pasted text ", 50)
	out, err := p.Run(context.Background(), Input{
		FileBytes: []byte(body),
		MediaType: constants.MediaPlain,
		Text:      "ignored pasted text",
		Mode:      llm.ModeDocument,
	})
	require.NoError(t, err)
	assert.Equal(t, quota.CountWords(body), out.WordCount)
}
