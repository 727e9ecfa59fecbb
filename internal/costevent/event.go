// Package costevent builds the per-session cost record sent to the ingest API.
package costevent

import (
	"errors"
	"fmt"
	"math"

	"github.com/gasometer/backfill/internal/attribution"
	"github.com/gasometer/backfill/internal/costcontrol"
	"github.com/gasometer/backfill/internal/transcript"
)

// Event is one session's cost record. Field order matches the wire format.
type Event struct {
	SessionID string  `json:"session_id"`
	Role      string  `json:"role"`
	CostUSD   float64 `json:"cost_usd"`

	// Counters and model are always set from a transcript. A replayed record
	// may lack them, and they stay absent rather than becoming 0 or "".
	InputTokens       Optional[int64]  `json:"input_tokens,omitzero"`
	OutputTokens      Optional[int64]  `json:"output_tokens,omitzero"`
	CacheReadTokens   Optional[int64]  `json:"cache_read_tokens,omitzero"`
	CacheCreateTokens Optional[int64]  `json:"cache_create_tokens,omitzero"`
	Model             Optional[string] `json:"model,omitzero"`

	EndedAt string `json:"ended_at"`

	Worker      Optional[string]  `json:"worker,omitzero"`
	Rig         Optional[string]  `json:"rig,omitzero"`
	DurationSec Optional[float64] `json:"duration_sec,omitzero"`
	BeadsClosed Optional[int64]   `json:"beads_closed,omitzero"`
}

// FromTranscript builds the event for the transcript at path.
func FromTranscript(path string, totals *transcript.Totals, labels attribution.Labels) Event {
	return Event{
		SessionID:         transcript.SessionID(path),
		Role:              labels.Role,
		CostUSD:           costcontrol.SessionCost(totals.Model, totals.TokenUsage),
		InputTokens:       Some(totals.InputTokens),
		OutputTokens:      Some(totals.OutputTokens),
		CacheReadTokens:   Some(totals.CacheReadTokens),
		CacheCreateTokens: Some(totals.CacheCreateTokens),
		Model:             Some(totals.Model),
		EndedAt:           totals.LastTimestamp,
		Worker:            OptionalString(labels.Worker),
		Rig:               OptionalString(labels.Rig),
	}
}

// Validate checks the fields the ingest endpoint requires.
func (e Event) Validate() error {
	var errs []error
	if e.SessionID == "" {
		errs = append(errs, errors.New("session_id is required"))
	}
	if e.Role == "" {
		errs = append(errs, errors.New("role is required"))
	}
	if e.EndedAt == "" {
		errs = append(errs, errors.New("ended_at is required"))
	}
	if math.IsNaN(e.CostUSD) || math.IsInf(e.CostUSD, 0) {
		errs = append(errs, fmt.Errorf("cost_usd must be finite, got %v", e.CostUSD))
	}
	return errors.Join(errs...)
}
