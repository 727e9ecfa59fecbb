// Package config - defaults.go centralizes magic numbers and default values.
//
// DESIGN: All default values that appear in more than one place are defined
// here. Transport defaults are re-exported from internal/ingest, which owns
// them.
package config

import "github.com/gasometer/backfill/internal/ingest"

// =============================================================================
// SOURCE
// =============================================================================

// DefaultProjectsSubdir is the transcript root relative to the home directory.
const DefaultProjectsSubdir = ".claude/projects"

// =============================================================================
// INGEST
// =============================================================================

// DefaultIngestURL is the production ingest endpoint.
const DefaultIngestURL = ingest.DefaultIngestURL

// DefaultConcurrency is the maximum number of POSTs in flight.
const DefaultConcurrency = ingest.DefaultConcurrency

// MaxConcurrency caps the fan-out so a typo cannot flood the endpoint.
const MaxConcurrency = 100

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = ingest.DefaultTimeout

// DefaultAPIKeyRef expands to the credential environment variable.
const DefaultAPIKeyRef = "${" + ingest.EnvAPIKey + ":-}"

// =============================================================================
// PROGRESS REPORTING
// =============================================================================

// DefaultParseProgressEvery prints a parse progress line every N files.
const DefaultParseProgressEvery = 500

// DefaultDispatchProgressEvery prints a dispatch progress line every N events.
const DefaultDispatchProgressEvery = 200

// =============================================================================
// LOGGING
// =============================================================================

// DefaultLogLevel is the logger level when none is configured.
const DefaultLogLevel = "info"

// DefaultLogFormat is the logger format when none is configured.
const DefaultLogFormat = "console"

// DefaultLogOutput keeps diagnostics off stdout, which carries the report.
const DefaultLogOutput = "stderr"
