// Package monitoring - types.go defines shared types.
//
// DESIGN: Config types live here so internal/config can embed them without
// importing the writers.
//
// TYPES:
//   - LoggerConfig: zerolog level, format and destination
//   - ExportConfig: optional JSONL copy of every built cost event
//   - Snapshot:     point-in-time copy of the run counters
package monitoring

// LoggerConfig contains logging configuration.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	Output string `yaml:"output"` // stdout, stderr, or file path
}

// ExportConfig controls the event export log.
type ExportConfig struct {
	Path string `yaml:"path"` // empty disables export
}

// Snapshot is a copy of the run counters.
type Snapshot struct {
	FilesDiscovered int64 `json:"files_discovered"`
	FilesParsed     int64 `json:"files_parsed"`
	FilesSkipped    int64 `json:"files_skipped"`
	ParseErrors     int64 `json:"parse_errors"`
	EventsBuilt     int64 `json:"events_built"`
	PostsOK         int64 `json:"posts_ok"`
	PostsFailed     int64 `json:"posts_failed"`
	ElapsedMs       int64 `json:"elapsed_ms"`
}
