// Package costcontrol prices token usage and tallies cost for reporting.
//
// DESIGN: Pricing is a static table keyed by model id with an ordered list of
// family rules as fallback. Unknown models resolve to the most expensive
// current tier so an unrecognized id never under-reports spend. Arithmetic is
// done in decimal and rounded once, at the event boundary.
package costcontrol

// TokenUsage holds the four billed token categories for one session.
type TokenUsage struct {
	InputTokens       int64 `json:"input_tokens"`
	OutputTokens      int64 `json:"output_tokens"`
	CacheReadTokens   int64 `json:"cache_read_tokens"`
	CacheCreateTokens int64 `json:"cache_create_tokens"`
}

// Add accumulates other into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CacheReadTokens += other.CacheReadTokens
	u.CacheCreateTokens += other.CacheCreateTokens
}

// Total returns the sum of all four counters.
func (u TokenUsage) Total() int64 {
	return u.InputTokens + u.OutputTokens + u.CacheReadTokens + u.CacheCreateTokens
}

// IsZero reports whether no tokens were recorded.
func (u TokenUsage) IsZero() bool {
	return u.Total() == 0
}

// Breakdown is one row of a grouped cost summary.
type Breakdown struct {
	Name     string
	Cost     float64
	Sessions int
}
