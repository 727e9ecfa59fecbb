package ingest

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gasometer/backfill/internal/costevent"
)

// DefaultConcurrency is the number of POSTs in flight at once.
const DefaultConcurrency = 15

// Poster sends a single event. *Client implements it.
type Poster interface {
	PostEvent(ctx context.Context, ev costevent.Event) error
}

// DispatchOptions tunes Dispatch.
type DispatchOptions struct {
	Concurrency int
	// ProgressEvery calls OnProgress after every n completions. 0 disables it.
	ProgressEvery int
	OnProgress    func(done, total, ok, failed int)
}

// Dispatch posts every event exactly once with bounded parallelism.
// A failed event is logged and counted; it never cancels the others.
func Dispatch(ctx context.Context, p Poster, events []costevent.Event, opts DispatchOptions) DispatchResult {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var (
		mu     sync.Mutex
		result DispatchResult
	)

	// Plain Group rather than WithContext: one failure must not cancel siblings.
	var g errgroup.Group
	g.SetLimit(limit)

	for _, ev := range events {
		g.Go(func() error {
			err := p.PostEvent(ctx, ev)
			if err != nil {
				log.Error().Err(err).Str("session_id", ev.SessionID).Msg("ingest: POST failed")
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.FailedSessions = append(result.FailedSessions, ev.SessionID)
			} else {
				result.OK++
			}
			done := result.Total()
			if opts.OnProgress != nil && opts.ProgressEvery > 0 && done%opts.ProgressEvery == 0 {
				opts.OnProgress(done, len(events), result.OK, result.Failed)
			}
			return nil
		})
	}
	_ = g.Wait()

	return result
}
