// Package quota enforces the cumulative word budget an identity may submit
// for analysis. The admission check itself is pure; the Store implementations
// hold the server-authoritative counters.
package quota

import "strings"

// Decision is the outcome of an admission check.
type Decision struct {
	Admitted bool
	// Deficit is the amount by which the limit would be exceeded.
	// Zero when admitted.
	Deficit int
}

// Check admits iff current + candidate <= limit. The tracker is tier-agnostic:
// the caller selects the limit for the identity's tier.
func Check(current, candidate, limit int) Decision {
	if current+candidate <= limit {
		return Decision{Admitted: true}
	}
	return Decision{Deficit: current + candidate - limit}
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
