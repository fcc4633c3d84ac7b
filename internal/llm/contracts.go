package llm

import (
	"context"

	"github.com/tclens/tclens-server/constants"
)

// Mode selects which fixed prompt and response schema a request uses.
type Mode string

const (
	// ModeDocument is the full clause-by-clause analysis of an uploaded document.
	ModeDocument Mode = "document"
	// ModeDetect is the lightweight page classification for the extension.
	ModeDetect Mode = "detect"
	// ModePopup is the extension's full popup summary.
	ModePopup Mode = "popup"
	// ModeDraft generates a plain-text document draft.
	ModeDraft Mode = "draft"
	// ModeChat answers a legal-assistant chat message.
	ModeChat Mode = "chat"
)

// CompletionRequest is the provider-neutral shape of one upstream call.
type CompletionRequest struct {
	System string
	User   string
	// JSONOnly asks the provider for a single JSON object with no prose.
	JSONOnly bool
	// Schema, when set, is sent alongside the prompt so the model sees the
	// exact target shape.
	Schema map[string]any
}

// Provider is a pluggable text-completion backend. Implementations live in
// the openai and gemini subpackages and are selected by configuration.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Clause is a classified excerpt of a legal document.
type Clause struct {
	Type        string              `json:"type"`
	Summary     string              `json:"summary"`
	RiskLevel   constants.RiskLevel `json:"riskLevel"`
	Explanation string              `json:"explanation"`
	TextSnippet string              `json:"textSnippet"`
}

// Alert is one entry of the document-level red flag list.
type Alert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CriticalWarning is one named boolean flag with its justification.
type CriticalWarning struct {
	Value  bool   `json:"value"`
	Reason string `json:"reason"`
}

// CriticalWarnings are the four named flags every analysis carries.
type CriticalWarnings struct {
	AutomaticRenewal      CriticalWarning `json:"automatic_renewal"`
	BroadLiabilityWaiver  CriticalWarning `json:"broad_liability_waiver"`
	DataMayBeSoldOrShared CriticalWarning `json:"data_may_be_sold_or_shared"`
	MandatoryArbitration  CriticalWarning `json:"mandatory_arbitration_or_waiver_of_court_rights"`
}

// AnalysisResult is the normalized output of a full document analysis.
// After normalization every field is present, never nil.
type AnalysisResult struct {
	Summary          string           `json:"summary"`
	RiskScore        int              `json:"riskScore"`
	Clauses          []Clause         `json:"clauses"`
	RedFlags         []Alert          `json:"redFlags"`
	CriticalWarnings CriticalWarnings `json:"criticalWarnings"`
	Disclaimer       string           `json:"disclaimer"`
}

// DetectionResult is the extension's page classification. Pointer fields are
// null in the wire format when no popup is recommended.
type DetectionResult struct {
	IsLegalPage           bool                            `json:"is_legal_page"`
	LegallyBinding        bool                            `json:"legally_binding"`
	Confidence            int                             `json:"confidence"`
	Scope                 constants.LegalScope            `json:"scope"`
	TriggerRecommendation constants.TriggerRecommendation `json:"trigger_recommendation"`
	Classification        string                          `json:"classification"`
	Reason                string                          `json:"reason"`
	DocumentType          *string                         `json:"document_type"`
	RiskScore             *int                            `json:"risk_score"`
	RiskReason            *string                         `json:"risk_reason"`
	ShortSummary          *string                         `json:"short_summary"`
	KeyTakeaways          []string                        `json:"key_takeaways"`
	CriticalWarnings      CriticalWarnings                `json:"critical_warnings"`
	CTAText               *string                         `json:"cta_text"`
	Disclaimer            *string                         `json:"disclaimer"`
}

// PopupSummary is the extension's fully populated popup payload.
type PopupSummary struct {
	DocumentType     string           `json:"document_type"`
	RiskScore        int              `json:"risk_score"`
	RiskReason       string           `json:"risk_reason"`
	ShortSummary     string           `json:"short_summary"`
	KeyTakeaways     []string         `json:"key_takeaways"`
	CriticalWarnings CriticalWarnings `json:"critical_warnings"`
	CTAText          string           `json:"cta_text"`
	Disclaimer       string           `json:"disclaimer"`
}
