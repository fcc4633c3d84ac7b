package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tclens/tclens-server/constants"
)

func TestNormalizeDocumentDefaults(t *testing.T) {
	// Upstream returned only a summary; every other field must be defaulted.
	res, err := NormalizeDocument(`{"summary": "ok"}`)
	require.NoError(t, err)

	assert.Equal(t, "ok", res.Summary)
	assert.Zero(t, res.RiskScore)
	assert.NotNil(t, res.Clauses)
	assert.Empty(t, res.Clauses)
	assert.NotNil(t, res.RedFlags)
	assert.Empty(t, res.RedFlags)
	assert.False(t, res.CriticalWarnings.AutomaticRenewal.Value)
	assert.Equal(t, "", res.CriticalWarnings.AutomaticRenewal.Reason)
	assert.Equal(t, DefaultDisclaimer, res.Disclaimer)
}

func TestNormalizeDocumentFullPayload(t *testing.T) {
	raw := `{
		"summary": "One-sided terms.",
		"riskScore": 82,
		"clauses": [
			{"type": "Arbitration", "summary": "Disputes go to arbitration.", "riskLevel": "High",
			 "explanation": "You waive court rights.", "textSnippet": "Any dispute shall be resolved by binding arbitration."}
		],
		"redFlags": [{"title": "Mandatory arbitration", "description": "No class actions."}],
		"criticalWarnings": {
			"mandatory_arbitration_or_waiver_of_court_rights": {"value": true, "reason": "Binding arbitration clause."}
		},
		"disclaimer": "Informational only."
	}`
	res, err := NormalizeDocument(raw)
	require.NoError(t, err)

	assert.Equal(t, 82, res.RiskScore)
	require.Len(t, res.Clauses, 1)
	assert.Equal(t, constants.RiskHigh, res.Clauses[0].RiskLevel, "risk level is canonicalized to lowercase")
	require.Len(t, res.RedFlags, 1)
	assert.True(t, res.CriticalWarnings.MandatoryArbitration.Value)
	// the three unmentioned flags default independently
	assert.False(t, res.CriticalWarnings.AutomaticRenewal.Value)
	assert.False(t, res.CriticalWarnings.BroadLiabilityWaiver.Value)
	assert.False(t, res.CriticalWarnings.DataMayBeSoldOrShared.Value)
}

func TestNormalizeDocumentIdempotent(t *testing.T) {
	first, err := NormalizeDocument(`{"summary":"s","riskScore":40,"clauses":[{"type":"Data Usage","summary":"x","riskLevel":"medium","explanation":"y","textSnippet":"z"}]}`)
	require.NoError(t, err)

	b, err := json.Marshal(first)
	require.NoError(t, err)
	second, err := NormalizeDocument(string(b))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizeDocumentCriticalAlertsSynonym(t *testing.T) {
	res, err := NormalizeDocument(`{"criticalAlerts":[{"title":"Auto-renewal","description":"Renews silently."}]}`)
	require.NoError(t, err)
	require.Len(t, res.RedFlags, 1)
	assert.Equal(t, "Auto-renewal", res.RedFlags[0].Title)
}

func TestNormalizeDocumentInvalidRiskLevel(t *testing.T) {
	_, err := NormalizeDocument(`{"clauses":[{"type":"Other","riskLevel":"extreme"}]}`)
	var iee *InvalidEnumError
	require.ErrorAs(t, err, &iee)
	assert.Equal(t, "riskLevel", iee.Field)
	assert.Equal(t, "extreme", iee.Value)
}

func TestNormalizeDocumentMalformedJSON(t *testing.T) {
	long := "I am sorry, I cannot produce JSON. " + strings.Repeat("x", 1000)
	_, err := NormalizeDocument(long)
	var mje *MalformedJSONError
	require.ErrorAs(t, err, &mje)
	assert.LessOrEqual(t, len(mje.Raw), 512)
	assert.Contains(t, mje.Raw, "I am sorry")
}

func TestNormalizeDocumentFencedJSON(t *testing.T) {
	res, err := NormalizeDocument("```json\n{\"summary\": \"fenced\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "fenced", res.Summary)
}

func TestNormalizeDocumentScoreClamped(t *testing.T) {
	res, err := NormalizeDocument(`{"riskScore": 140}`)
	require.NoError(t, err)
	assert.Equal(t, 100, res.RiskScore)
}

func TestNormalizeDetectionDefaults(t *testing.T) {
	res, err := NormalizeDetection(`{}`)
	require.NoError(t, err)

	assert.False(t, res.IsLegalPage)
	assert.False(t, res.LegallyBinding)
	assert.Zero(t, res.Confidence)
	assert.Equal(t, constants.ScopeNone, res.Scope)
	assert.Equal(t, constants.TriggerNone, res.TriggerRecommendation)
	assert.Nil(t, res.DocumentType)
	assert.Nil(t, res.RiskScore)
	assert.NotNil(t, res.KeyTakeaways)
	assert.Empty(t, res.KeyTakeaways)
}

func TestNormalizeDetectionTriggerRecomputed(t *testing.T) {
	// The model recommends a popup but fragment scope at confidence 45 is
	// below the fragment threshold of 60: the recommendation must be "none".
	raw := `{"is_legal_page": true, "legally_binding": true, "confidence": 45,
		"scope": "fragment", "trigger_recommendation": "show_popup"}`
	res, err := NormalizeDetection(raw)
	require.NoError(t, err)
	assert.Equal(t, constants.TriggerNone, res.TriggerRecommendation)
}

func TestNormalizeDetectionInvalidScope(t *testing.T) {
	_, err := NormalizeDetection(`{"scope": "whole_site"}`)
	var iee *InvalidEnumError
	require.ErrorAs(t, err, &iee)
	assert.Equal(t, "scope", iee.Field)
}

func TestDeriveTrigger(t *testing.T) {
	cases := []struct {
		binding    bool
		scope      constants.LegalScope
		confidence int
		want       constants.TriggerRecommendation
	}{
		{true, constants.ScopeFullPage, 60, constants.TriggerPopup},
		{true, constants.ScopeFullPage, 59, constants.TriggerNone},
		{true, constants.ScopeSectionOnly, 70, constants.TriggerPopup},
		{true, constants.ScopeSectionOnly, 69, constants.TriggerBadge},
		{true, constants.ScopeSectionOnly, 40, constants.TriggerBadge},
		{true, constants.ScopeSectionOnly, 39, constants.TriggerNone},
		{true, constants.ScopeFragment, 60, constants.TriggerBadge},
		{true, constants.ScopeFragment, 45, constants.TriggerNone},
		{true, constants.ScopeNone, 95, constants.TriggerNone},
		{false, constants.ScopeFullPage, 95, constants.TriggerNone},
	}
	for _, tc := range cases {
		got := DeriveTrigger(tc.binding, tc.scope, tc.confidence)
		assert.Equal(t, tc.want, got, "binding=%v scope=%s conf=%d", tc.binding, tc.scope, tc.confidence)
	}
}

func TestNormalizePopupDefaults(t *testing.T) {
	res, err := NormalizePopup(`{}`)
	require.NoError(t, err)

	assert.Equal(t, "General Contract", res.DocumentType)
	assert.Equal(t, 50, res.RiskScore)
	assert.Equal(t, "", res.RiskReason)
	assert.NotNil(t, res.KeyTakeaways)
	assert.Equal(t, DefaultCTA, res.CTAText)
	assert.Equal(t, DefaultDisclaimer, res.Disclaimer)
}

func TestNormalizePopupWrongTypesFallBack(t *testing.T) {
	// Wrong-typed fields count as absent and take the default.
	res, err := NormalizePopup(`{"risk_score": "very high", "key_takeaways": "not a list"}`)
	require.NoError(t, err)
	assert.Equal(t, 50, res.RiskScore)
	assert.Empty(t, res.KeyTakeaways)
}
