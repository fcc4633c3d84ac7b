package llm

import "github.com/tclens/tclens-server/constants"

// JSON-Schema (draft 2020-12 subset) builders, as generic maps. The schemas
// ride along in the upstream prompt as a structured output constraint, and
// the normalizer validates its own output against them before returning.

func criticalWarningProp() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"value":  map[string]any{"type": "boolean"},
			"reason": map[string]any{"type": "string"},
		},
		"required": []string{"value", "reason"},
	}
}

func criticalWarningsProp() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"automatic_renewal":          criticalWarningProp(),
			"broad_liability_waiver":     criticalWarningProp(),
			"data_may_be_sold_or_shared": criticalWarningProp(),
			"mandatory_arbitration_or_waiver_of_court_rights": criticalWarningProp(),
		},
		"required": []string{
			"automatic_renewal",
			"broad_liability_waiver",
			"data_may_be_sold_or_shared",
			"mandatory_arbitration_or_waiver_of_court_rights",
		},
	}
}

func riskScoreProp() map[string]any {
	return map[string]any{"type": "integer", "minimum": 0, "maximum": 100}
}

// BuildDocumentSchema is the full clause-analysis result shape.
func BuildDocumentSchema() map[string]any {
	clause := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"type":        map[string]any{"type": "string"},
			"summary":     map[string]any{"type": "string"},
			"riskLevel":   map[string]any{"type": "string", "enum": constants.RiskLevels()},
			"explanation": map[string]any{"type": "string"},
			"textSnippet": map[string]any{"type": "string"},
		},
		"required": []string{"type", "summary", "riskLevel", "explanation", "textSnippet"},
	}
	redFlag := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
		},
		"required": []string{"title", "description"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"summary":          map[string]any{"type": "string"},
			"riskScore":        riskScoreProp(),
			"clauses":          map[string]any{"type": "array", "items": clause},
			"redFlags":         map[string]any{"type": "array", "items": redFlag},
			"criticalWarnings": criticalWarningsProp(),
			"disclaimer":       map[string]any{"type": "string"},
		},
		"required": []string{"summary", "riskScore", "clauses", "redFlags", "criticalWarnings", "disclaimer"},
	}
}

// BuildDetectionSchema is the extension page-classification result shape.
// Nullable detail fields use ["x","null"] unions because no popup may be due.
func BuildDetectionSchema() map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"is_legal_page":          map[string]any{"type": "boolean"},
			"legally_binding":        map[string]any{"type": "boolean"},
			"confidence":             map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"scope":                  map[string]any{"type": "string", "enum": constants.LegalScopes()},
			"trigger_recommendation": map[string]any{"type": "string", "enum": constants.TriggerRecommendations()},
			"classification":         map[string]any{"type": "string"},
			"reason":                 map[string]any{"type": "string"},
			"document_type":          nullableString,
			"risk_score":             map[string]any{"type": []string{"integer", "null"}, "minimum": 0, "maximum": 100},
			"risk_reason":            nullableString,
			"short_summary":          nullableString,
			"key_takeaways":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"critical_warnings":      criticalWarningsProp(),
			"cta_text":               nullableString,
			"disclaimer":             nullableString,
		},
		"required": []string{
			"is_legal_page", "legally_binding", "confidence", "scope",
			"trigger_recommendation", "classification", "reason",
			"document_type", "risk_score", "risk_reason", "short_summary",
			"key_takeaways", "critical_warnings", "cta_text", "disclaimer",
		},
	}
}

// BuildPopupSchema is the extension popup summary shape; every field concrete.
func BuildPopupSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_type":     map[string]any{"type": "string"},
			"risk_score":        riskScoreProp(),
			"risk_reason":       map[string]any{"type": "string"},
			"short_summary":     map[string]any{"type": "string"},
			"key_takeaways":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"critical_warnings": criticalWarningsProp(),
			"cta_text":          map[string]any{"type": "string"},
			"disclaimer":        map[string]any{"type": "string"},
		},
		"required": []string{
			"document_type", "risk_score", "risk_reason", "short_summary",
			"key_takeaways", "critical_warnings", "cta_text", "disclaimer",
		},
	}
}
