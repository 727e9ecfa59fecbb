// Package monitoring - export.go records cost events to a JSONL file.
//
// DESIGN: EventLog appends each event as one JSON object per line, in the same
// shape as the ingest request body. The file can be fed back through replay.
// Events are written as they are built so an interrupted run keeps its output.
package monitoring

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gasometer/backfill/internal/utils"
)

// EventLog appends events to a JSONL file. A nil or disabled EventLog is a no-op.
type EventLog struct {
	path  string
	file  *os.File
	count int
	mu    sync.Mutex
}

// NewEventLog opens cfg.Path for writing, truncating any previous export.
// An empty path returns a disabled log.
func NewEventLog(cfg ExportConfig) (*EventLog, error) {
	l := &EventLog{path: cfg.Path}
	if cfg.Path == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0750); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	l.file = f
	return l, nil
}

// Enabled reports whether events are being written.
func (l *EventLog) Enabled() bool {
	return l != nil && l.file != nil
}

// Path returns the export destination.
func (l *EventLog) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes one event line. Write errors are logged, not returned.
func (l *EventLog) Append(event any) {
	if !l.Enabled() {
		return
	}

	data, err := utils.MarshalLine(event)
	if err != nil {
		log.Error().Err(err).Str("path", l.path).Msg("export: failed to encode event")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Write(data); err != nil {
		log.Error().Err(err).Str("path", l.path).Msg("export: failed to write event")
		return
	}
	l.count++
}

// Count returns the number of events written.
func (l *EventLog) Count() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close flushes and closes the file.
func (l *EventLog) Close() error {
	if !l.Enabled() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	return err
}
