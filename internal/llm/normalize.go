package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tclens/tclens-server/constants"
)

// The normalizer turns the untrusted, occasionally malformed JSON the model
// returns into a guaranteed-complete result. Missing fields get documented
// defaults; enumerated fields outside their declared set fail with
// InvalidEnumError rather than being clamped. Normalization is idempotent:
// running it over an already-normalized payload yields the same payload.

// parseObject decodes raw as a JSON object. Markdown fencing is stripped
// first since models occasionally wrap output despite instructions.
func parseObject(raw string) (map[string]any, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, newMalformedJSONError(raw, err)
	}
	return m, nil
}

// Loose readers: a field of the wrong JSON type counts as absent and takes
// the default. Only enum values are strict.

func getString(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

func getStringPtr(m map[string]any, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func getBool(m map[string]any, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getScore reads a 0-100 number, clamping out-of-range values. Scores are
// numeric, not enumerated, so clamping is the documented default behavior.
func getScore(m map[string]any, key string, def int) int {
	v, ok := m[key].(float64)
	if !ok {
		return def
	}
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func getScorePtr(m map[string]any, key string) *int {
	if _, ok := m[key].(float64); !ok {
		return nil
	}
	n := getScore(m, key, 0)
	return &n
}

func getStringSlice(m map[string]any, key string) []string {
	out := []string{}
	arr, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getObject(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

// normalizeWarnings fills the four named flags independently; each missing
// sub-object defaults to {value:false, reason:""}.
func normalizeWarnings(m map[string]any, key string) CriticalWarnings {
	one := func(parent map[string]any, name string) CriticalWarning {
		sub := getObject(parent, name)
		if sub == nil {
			return CriticalWarning{}
		}
		return CriticalWarning{Value: getBool(sub, "value"), Reason: getString(sub, "reason", "")}
	}
	parent := getObject(m, key)
	if parent == nil {
		parent = map[string]any{}
	}
	return CriticalWarnings{
		AutomaticRenewal:      one(parent, "automatic_renewal"),
		BroadLiabilityWaiver:  one(parent, "broad_liability_waiver"),
		DataMayBeSoldOrShared: one(parent, "data_may_be_sold_or_shared"),
		MandatoryArbitration:  one(parent, "mandatory_arbitration_or_waiver_of_court_rights"),
	}
}

// DeriveTrigger computes the UI intrusiveness decision deterministically from
// the detection signals. The model's own recommendation is discarded.
func DeriveTrigger(binding bool, scope constants.LegalScope, confidence int) constants.TriggerRecommendation {
	if !binding {
		return constants.TriggerNone
	}
	switch scope {
	case constants.ScopeFullPage:
		if confidence >= 60 {
			return constants.TriggerPopup
		}
	case constants.ScopeSectionOnly:
		if confidence >= 70 {
			return constants.TriggerPopup
		}
		if confidence >= 40 {
			return constants.TriggerBadge
		}
	case constants.ScopeFragment:
		if confidence >= 60 {
			return constants.TriggerBadge
		}
	}
	return constants.TriggerNone
}

// NormalizeDocument produces a complete AnalysisResult from raw model output.
func NormalizeDocument(raw string) (AnalysisResult, error) {
	m, err := parseObject(raw)
	if err != nil {
		return AnalysisResult{}, err
	}

	out := AnalysisResult{
		Summary:          getString(m, "summary", ""),
		RiskScore:        getScore(m, "riskScore", 0),
		Clauses:          []Clause{},
		RedFlags:         []Alert{},
		CriticalWarnings: normalizeWarnings(m, "criticalWarnings"),
		Disclaimer:       getString(m, "disclaimer", DefaultDisclaimer),
	}

	if arr, ok := m["clauses"].([]any); ok {
		for _, item := range arr {
			cm, ok := item.(map[string]any)
			if !ok {
				continue
			}
			clause := Clause{
				Type:        getString(cm, "type", "Other"),
				Summary:     getString(cm, "summary", ""),
				RiskLevel:   constants.RiskLow,
				Explanation: getString(cm, "explanation", ""),
				TextSnippet: getString(cm, "textSnippet", ""),
			}
			if rl, present := cm["riskLevel"]; present {
				s, _ := rl.(string)
				level, ok := constants.CanonicalRiskLevel(s)
				if !ok {
					return AnalysisResult{}, &InvalidEnumError{Field: "riskLevel", Value: s}
				}
				clause.RiskLevel = level
			}
			out.Clauses = append(out.Clauses, clause)
		}
	}

	// Older prompt revisions called the red-flag list "criticalAlerts".
	flags, ok := m["redFlags"].([]any)
	if !ok {
		flags, _ = m["criticalAlerts"].([]any)
	}
	for _, item := range flags {
		fm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out.RedFlags = append(out.RedFlags, Alert{
			Title:       getString(fm, "title", ""),
			Description: getString(fm, "description", ""),
		})
	}

	if err := validateNormalized(BuildDocumentSchema(), out); err != nil {
		return AnalysisResult{}, err
	}
	return out, nil
}

// NormalizeDetection produces a complete DetectionResult. The trigger
// recommendation is always recomputed from binding+scope+confidence.
func NormalizeDetection(raw string) (DetectionResult, error) {
	m, err := parseObject(raw)
	if err != nil {
		return DetectionResult{}, err
	}

	scope := constants.ScopeNone
	if v, present := m["scope"]; present {
		s, _ := v.(string)
		if !constants.ValidScope(s) {
			return DetectionResult{}, &InvalidEnumError{Field: "scope", Value: s}
		}
		scope = constants.LegalScope(s)
	}

	out := DetectionResult{
		IsLegalPage:      getBool(m, "is_legal_page"),
		LegallyBinding:   getBool(m, "legally_binding"),
		Confidence:       getScore(m, "confidence", 0),
		Scope:            scope,
		Classification:   getString(m, "classification", ""),
		Reason:           getString(m, "reason", ""),
		DocumentType:     getStringPtr(m, "document_type"),
		RiskScore:        getScorePtr(m, "risk_score"),
		RiskReason:       getStringPtr(m, "risk_reason"),
		ShortSummary:     getStringPtr(m, "short_summary"),
		KeyTakeaways:     getStringSlice(m, "key_takeaways"),
		CriticalWarnings: normalizeWarnings(m, "critical_warnings"),
		CTAText:          getStringPtr(m, "cta_text"),
		Disclaimer:       getStringPtr(m, "disclaimer"),
	}
	out.TriggerRecommendation = DeriveTrigger(out.LegallyBinding, out.Scope, out.Confidence)

	if err := validateNormalized(BuildDetectionSchema(), out); err != nil {
		return DetectionResult{}, err
	}
	return out, nil
}

// NormalizePopup produces a complete PopupSummary with the popup defaults.
func NormalizePopup(raw string) (PopupSummary, error) {
	m, err := parseObject(raw)
	if err != nil {
		return PopupSummary{}, err
	}

	out := PopupSummary{
		DocumentType:     getString(m, "document_type", "General Contract"),
		RiskScore:        getScore(m, "risk_score", 50),
		RiskReason:       getString(m, "risk_reason", ""),
		ShortSummary:     getString(m, "short_summary", ""),
		KeyTakeaways:     getStringSlice(m, "key_takeaways"),
		CriticalWarnings: normalizeWarnings(m, "critical_warnings"),
		CTAText:          getString(m, "cta_text", DefaultCTA),
		Disclaimer:       getString(m, "disclaimer", DefaultDisclaimer),
	}

	if err := validateNormalized(BuildPopupSchema(), out); err != nil {
		return PopupSummary{}, err
	}
	return out, nil
}

// validateNormalized is the boundary guarantee: the normalized result must
// satisfy its own schema. A failure here is a normalizer bug, not bad input.
func validateNormalized(schema map[string]any, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal normalized result: %w", err)
	}
	if err := ValidateJSONAgainstSchema(schema, b); err != nil {
		return fmt.Errorf("normalized result failed schema validation: %w", err)
	}
	return nil
}
