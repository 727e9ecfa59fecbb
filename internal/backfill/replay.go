package backfill

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gasometer/backfill/internal/attribution"
	"github.com/gasometer/backfill/internal/costcontrol"
	"github.com/gasometer/backfill/internal/costevent"
)

// Replay loads a cost-event JSONL file and sends the events.
func (r *Runner) Replay(ctx context.Context, path string) (*Report, error) {
	report, err := r.LoadReplay(path)
	if err != nil {
		return nil, err
	}
	r.Send(ctx, report)
	return report, nil
}

// LoadReplay reads a cost-event JSONL file and fills missing rigs from the
// session id prefix. Invalid lines are counted as skipped.
func (r *Runner) LoadReplay(path string) (*Report, error) {

	// #nosec G304 -- replay file is supplied by the operator
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer func() { _ = f.Close() }()

	events, skipped, err := costevent.DecodeJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("read replay file: %w", err)
	}
	FillRigs(events)

	tracker := costcontrol.NewTracker()
	for _, ev := range events {
		tracker.Record(ev.Role, ev.Rig.OrElse(""), ev.CostUSD)
	}
	log.Debug().Str("path", path).Int("events", len(events)).Int("skipped", skipped).Msg("backfill: replay decoded")

	report := &Report{
		Files:    1,
		Sessions: tracker.Sessions(),
		Events:   events,
		Skipped:  skipped,
		Total:    costcontrol.RoundCostFloat(tracker.Total()),
		ByRole:   tracker.ByRole(),
		ByRig:    tracker.ByRig(),
	}
	return report, nil
}

// FillRigs sets Rig from the session id prefix on events that have none.
func FillRigs(events []costevent.Event) {
	for i := range events {
		if events[i].Rig.IsPresent() {
			continue
		}
		events[i].Rig = costevent.OptionalString(attribution.RigFromSessionID(events[i].SessionID))
	}
}
