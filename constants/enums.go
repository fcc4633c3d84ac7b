package constants

import "strings"

// RiskLevel classifies a single clause.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var allRiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// CanonicalRiskLevel maps free-form model output ("High", "HIGH") onto the
// declared set. ok is false when the value is outside the set.
func CanonicalRiskLevel(input string) (RiskLevel, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, rl := range allRiskLevels {
		if normalized == string(rl) {
			return rl, true
		}
	}
	return "", false
}

// RiskLevels returns the declared value set as strings, for schema enums.
func RiskLevels() []string {
	out := make([]string, len(allRiskLevels))
	for i, rl := range allRiskLevels {
		out[i] = string(rl)
	}
	return out
}

// LegalScope says how much of a page is legally binding content.
type LegalScope string

const (
	ScopeFullPage    LegalScope = "full_page"
	ScopeSectionOnly LegalScope = "section_only"
	ScopeFragment    LegalScope = "fragment"
	ScopeNone        LegalScope = "none"
)

// LegalScopes returns the declared value set as strings.
func LegalScopes() []string {
	return []string{string(ScopeFullPage), string(ScopeSectionOnly), string(ScopeFragment), string(ScopeNone)}
}

// ValidScope reports whether s is in the declared set.
func ValidScope(s string) bool {
	switch LegalScope(s) {
	case ScopeFullPage, ScopeSectionOnly, ScopeFragment, ScopeNone:
		return true
	}
	return false
}

// TriggerRecommendation is the UI intrusiveness decision for the extension.
type TriggerRecommendation string

const (
	TriggerNone  TriggerRecommendation = "none"
	TriggerBadge TriggerRecommendation = "show_badge"
	TriggerPopup TriggerRecommendation = "show_popup"
)

// TriggerRecommendations returns the declared value set as strings.
func TriggerRecommendations() []string {
	return []string{string(TriggerNone), string(TriggerBadge), string(TriggerPopup)}
}
