// Package backfill runs one end-to-end transcript backfill.
//
// DESIGN: A run has two phases so the caller can print the summary between
// them:
//  1. Collect: discover transcripts, aggregate each one, build events and
//     tally them. Per-file problems are skipped, never fatal.
//  2. Send: dispatch the events unless the run is dry.
//
// Run does both. Replay feeds decoded events straight into Send.
package backfill

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gasometer/backfill/internal/attribution"
	"github.com/gasometer/backfill/internal/config"
	"github.com/gasometer/backfill/internal/costcontrol"
	"github.com/gasometer/backfill/internal/costevent"
	"github.com/gasometer/backfill/internal/ingest"
	"github.com/gasometer/backfill/internal/monitoring"
	"github.com/gasometer/backfill/internal/transcript"
)

// Progress receives console progress. Nil callbacks are ignored.
type Progress struct {
	OnDiscovered func(files int)
	OnParsed     func(done, total int)
	OnDispatch   func(done, total, ok, failed int)
}

// Runner holds the collaborators for one run. When Export is nil it is opened
// from Config.Export only after the projects directory is found, so a run that
// fails up front leaves a previous export untouched.
type Runner struct {
	Config    *config.Config
	Poster    ingest.Poster
	Extractor *attribution.Extractor
	Metrics   *monitoring.MetricsCollector
	Export    *monitoring.EventLog
	Progress  Progress
}

// Report is the outcome of a run.
type Report struct {
	Files       int
	Sessions    int
	Events      []costevent.Event
	Skipped     int // no token data or unreadable
	ParseErrors int // subset of Skipped that failed to read
	Total       float64
	ByRole      []costcontrol.Breakdown
	ByRig       []costcontrol.Breakdown

	DryRun   bool
	Dispatch ingest.DispatchResult
}

// New creates a Runner with an extractor and metrics built from cfg.
// Poster may be nil for a dry run.
func New(cfg *config.Config, p ingest.Poster) *Runner {
	return &Runner{
		Config:    cfg,
		Poster:    p,
		Extractor: attribution.NewExtractor(cfg.Attribution.Rigs),
		Metrics:   monitoring.NewMetricsCollector(),
	}
}

// Run collects events from the projects directory and sends them.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report, err := r.Collect(ctx)
	if err != nil {
		return nil, err
	}
	r.Send(ctx, report)
	return report, nil
}

// Collect builds one event per transcript that carries usage.
// A missing projects directory is the only error returned.
func (r *Runner) Collect(ctx context.Context) (*Report, error) {
	r.init()

	files, err := transcript.Discover(r.Config.ProjectsDir)
	if err != nil {
		return nil, err
	}
	if r.Export == nil {
		export, err := monitoring.NewEventLog(r.Config.Export)
		if err != nil {
			return nil, err
		}
		r.Export = export
	}

	r.Metrics.RecordDiscovered(len(files))
	if r.Progress.OnDiscovered != nil {
		r.Progress.OnDiscovered(len(files))
	}

	tracker := costcontrol.NewTracker()
	report := &Report{Files: len(files)}
	every := r.Config.Progress.ParseEvery

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collect interrupted: %w", err)
		}

		ev, err := r.buildEvent(path)
		switch {
		case errors.Is(err, transcript.ErrNoUsage):
			report.Skipped++
			r.Metrics.RecordSkipped()
		case err != nil:
			log.Warn().Err(err).Str("path", path).Msg("backfill: skipping transcript")
			report.Skipped++
			report.ParseErrors++
			r.Metrics.RecordParseError()
		default:
			report.Events = append(report.Events, ev)
			tracker.Record(ev.Role, ev.Rig.OrElse(""), ev.CostUSD)
			r.Export.Append(ev)
			r.Metrics.RecordParsed()
		}

		if every > 0 && (i+1)%every == 0 && r.Progress.OnParsed != nil {
			r.Progress.OnParsed(i+1, len(files))
		}
	}

	report.Sessions = tracker.Sessions()
	report.Total = costcontrol.RoundCostFloat(tracker.Total())
	report.ByRole = tracker.ByRole()
	report.ByRig = tracker.ByRig()
	return report, nil
}

// Send dispatches report.Events, or marks the report dry when there is no
// credential, no poster, or dry run was requested.
func (r *Runner) Send(ctx context.Context, report *Report) {
	r.init()

	if r.Config.IsDryRun() || r.Poster == nil {
		report.DryRun = true
		return
	}

	report.Dispatch = ingest.Dispatch(ctx, r.Poster, report.Events, ingest.DispatchOptions{
		Concurrency:   r.Config.Ingest.Concurrency,
		ProgressEvery: r.Config.Progress.DispatchEvery,
		OnProgress:    r.Progress.OnDispatch,
	})
	r.Metrics.RecordPosts(report.Dispatch.OK, report.Dispatch.Failed)

	log.Debug().Object("metrics", r.Metrics.Snapshot()).Msg("backfill: run complete")
}

// Close releases the export log.
func (r *Runner) Close() error {
	return r.Export.Close()
}

func (r *Runner) buildEvent(path string) (costevent.Event, error) {
	totals, err := transcript.Aggregate(path)
	if err != nil {
		return costevent.Event{}, err
	}
	labels := r.Extractor.Extract(transcript.ProjectDir(path))
	return costevent.FromTranscript(path, totals, labels), nil
}

func (r *Runner) init() {
	if r.Extractor == nil {
		r.Extractor = attribution.NewExtractor(r.Config.Attribution.Rigs)
	}
	if r.Metrics == nil {
		r.Metrics = monitoring.NewMetricsCollector()
	}
}
