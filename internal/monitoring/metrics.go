// Package monitoring - metrics.go provides simple counters.
//
// DESIGN: Lightweight in-memory counters for one backfill run:
//   - files:  discovered, parsed, skipped (no usage), parse errors
//   - events: built from transcripts
//   - posts:  accepted (201) and failed
package monitoring

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// MetricsCollector collects run metrics.
type MetricsCollector struct {
	startedAt time.Time

	filesDiscovered atomic.Int64
	filesParsed     atomic.Int64
	filesSkipped    atomic.Int64
	parseErrors     atomic.Int64
	eventsBuilt     atomic.Int64
	postsOK         atomic.Int64
	postsFailed     atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		startedAt: time.Now(),
	}
}

// RecordDiscovered records the number of transcripts found.
func (mc *MetricsCollector) RecordDiscovered(n int) { mc.filesDiscovered.Add(int64(n)) }

// RecordParsed records a transcript that produced an event.
func (mc *MetricsCollector) RecordParsed() {
	mc.filesParsed.Add(1)
	mc.eventsBuilt.Add(1)
}

// RecordSkipped records a transcript with no usage data.
func (mc *MetricsCollector) RecordSkipped() { mc.filesSkipped.Add(1) }

// RecordParseError records a transcript that could not be read.
func (mc *MetricsCollector) RecordParseError() {
	mc.filesSkipped.Add(1)
	mc.parseErrors.Add(1)
}

// RecordPosts records a dispatch outcome.
func (mc *MetricsCollector) RecordPosts(ok, failed int) {
	mc.postsOK.Add(int64(ok))
	mc.postsFailed.Add(int64(failed))
}

// Snapshot returns the current counter values.
func (mc *MetricsCollector) Snapshot() Snapshot {
	return Snapshot{
		FilesDiscovered: mc.filesDiscovered.Load(),
		FilesParsed:     mc.filesParsed.Load(),
		FilesSkipped:    mc.filesSkipped.Load(),
		ParseErrors:     mc.parseErrors.Load(),
		EventsBuilt:     mc.eventsBuilt.Load(),
		PostsOK:         mc.postsOK.Load(),
		PostsFailed:     mc.postsFailed.Load(),
		ElapsedMs:       time.Since(mc.startedAt).Milliseconds(),
	}
}

// MarshalZerologObject lets a Snapshot be logged with Object().
func (s Snapshot) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("files_discovered", s.FilesDiscovered).
		Int64("files_parsed", s.FilesParsed).
		Int64("files_skipped", s.FilesSkipped).
		Int64("parse_errors", s.ParseErrors).
		Int64("events_built", s.EventsBuilt).
		Int64("posts_ok", s.PostsOK).
		Int64("posts_failed", s.PostsFailed).
		Int64("elapsed_ms", s.ElapsedMs)
}
