// Package attribution derives role, rig and worker labels from the name of the
// directory that holds a transcript.
//
// DESIGN: Project directories are named after the working directory of the
// session with path separators replaced by '-', e.g.
// "-Users-me-gt-gastown-polecats-toast". Each label is derived independently
// from an ordered rule list; only the order within one list matters.
package attribution

import "strings"

// RoleUnknown is reported when no role keyword matches.
const RoleUnknown = "unknown"

// WorkerMarker is the path segment that precedes a worker name.
const WorkerMarker = "polecats"

// Labels are the categorical fields attached to a cost event.
// Empty Rig or Worker means the label could not be resolved.
type Labels struct {
	Role   string
	Rig    string
	Worker string
}

// roleRule maps a case-insensitive directory keyword to a role.
type roleRule struct {
	keyword string
	role    string
}

// roleRules is evaluated in order; the first match wins.
var roleRules = []roleRule{
	{keyword: "mayor", role: "mayor"},
	{keyword: "polecat", role: "polecat"},
	{keyword: "witness", role: "witness"},
	{keyword: "refinery", role: "refinery"},
	{keyword: "deacon", role: "deacon"},
	{keyword: "crew", role: "crew"},
}

// DefaultRigs is the known rig list, in match priority order.
var DefaultRigs = []string{"gasometer", "careers", "doccompare", "longeye", "gastown", "beads"}

// Extractor resolves labels against a rig list.
type Extractor struct {
	rigs []string
}

// NewExtractor creates an Extractor for rigs. An empty list uses DefaultRigs.
func NewExtractor(rigs []string) *Extractor {
	if len(rigs) == 0 {
		rigs = DefaultRigs
	}
	lowered := make([]string, 0, len(rigs))
	for _, r := range rigs {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			lowered = append(lowered, r)
		}
	}
	return &Extractor{rigs: lowered}
}

// Extract derives all three labels from a directory name.
func (e *Extractor) Extract(dir string) Labels {
	return Labels{
		Role:   Role(dir),
		Rig:    e.Rig(dir),
		Worker: Worker(dir),
	}
}

// Rig returns the first known rig contained in dir, or "" if none is.
func (e *Extractor) Rig(dir string) string {
	name := strings.ToLower(dir)
	for _, rig := range e.rigs {
		if strings.Contains(name, rig) {
			return rig
		}
	}
	return ""
}

// Role returns the first role keyword contained in dir, or RoleUnknown.
func Role(dir string) string {
	name := strings.ToLower(dir)
	for _, rule := range roleRules {
		if strings.Contains(name, rule.keyword) {
			return rule.role
		}
	}
	return RoleUnknown
}

// Worker returns the segment after WorkerMarker when dir is split on '-'.
// The match is case-sensitive and the marker must not be the last segment.
func Worker(dir string) string {
	parts := strings.Split(dir, "-")
	for i, part := range parts {
		if part == WorkerMarker && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// sessionPrefixRigs maps the leading segment of a session id to its rig.
// Sessions recorded by the stop hook are named "<prefix>-<worker>".
var sessionPrefixRigs = map[string]string{
	"ca": "careers",
	"do": "doccompare",
	"ga": "gasometer",
	"ha": "happyhour",
	"om": "officemonitor",
}

// RigFromSessionID guesses a rig from a stop-hook session id prefix.
func RigFromSessionID(sessionID string) string {
	prefix, _, _ := strings.Cut(sessionID, "-")
	return sessionPrefixRigs[prefix]
}
