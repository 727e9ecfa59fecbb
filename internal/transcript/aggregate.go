// Package transcript reads session transcripts and totals their token usage.
//
// FILES:
//   - aggregate.go: per-file usage aggregation
//   - discover.go:  recursive transcript discovery
package transcript

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tidwall/gjson"

	"github.com/gasometer/backfill/internal/costcontrol"
)

// ErrNoUsage is returned when a transcript carries no token usage at all.
// Callers treat it as a skip, not a failure.
var ErrNoUsage = errors.New("transcript: no usage data")

// Layouts for the mtime fallback of ended_at (UTC, ISO-8601). The fraction is
// always six digits, or omitted entirely on a whole second.
const (
	TimestampLayout       = "2006-01-02T15:04:05.000000-07:00"
	TimestampLayoutSecond = "2006-01-02T15:04:05-07:00"
)

// Totals is the usage summed across one transcript.
type Totals struct {
	costcontrol.TokenUsage

	// Model is the last model named on a usage record.
	Model string
	// LastTimestamp is the greatest timestamp on any record.
	LastTimestamp string
}

// Aggregate reads the transcript at path and sums usage across its
// assistant records. Blank and malformed lines are skipped.
func Aggregate(path string) (*Totals, error) {
	// #nosec G304 -- path comes from discovery under the configured projects dir
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer func() { _ = f.Close() }()

	totals, err := scan(f)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}

	if totals.IsZero() {
		return nil, ErrNoUsage
	}
	if totals.Model == "" {
		totals.Model = costcontrol.DefaultModel
	}
	if totals.LastTimestamp == "" {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat transcript: %w", err)
		}
		totals.LastTimestamp = FormatTimestamp(info.ModTime())
	}
	return totals, nil
}

// FormatTimestamp renders t in UTC with a numeric offset, at microsecond
// precision.
func FormatTimestamp(t time.Time) string {
	t = t.UTC().Round(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format(TimestampLayoutSecond)
	}
	return t.Format(TimestampLayout)
}

// scan walks r one line at a time. Lines may be arbitrarily long.
func scan(r io.Reader) (*Totals, error) {
	totals := &Totals{}
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			totals.addLine(line)
		}
		if errors.Is(err, io.EOF) {
			return totals, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (t *Totals) addLine(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || !gjson.ValidBytes(line) {
		return
	}
	record := gjson.ParseBytes(line)
	if !record.IsObject() {
		return
	}

	if record.Get("type").String() == "assistant" {
		msg := record.Get("message")
		if usage := msg.Get("usage"); msg.IsObject() && usage.IsObject() && len(usage.Map()) > 0 {
			t.Add(costcontrol.TokenUsage{
				InputTokens:       usage.Get("input_tokens").Int(),
				OutputTokens:      usage.Get("output_tokens").Int(),
				CacheReadTokens:   usage.Get("cache_read_input_tokens").Int(),
				CacheCreateTokens: usage.Get("cache_creation_input_tokens").Int(),
			})
			if model := msg.Get("model"); model.Type == gjson.String && model.Str != "" {
				t.Model = model.Str
			}
		}
	}

	// Timestamps are tracked on every record, not only usage records.
	// ISO-8601 strings order lexicographically.
	if ts := record.Get("timestamp"); ts.Type == gjson.String && ts.Str > t.LastTimestamp {
		t.LastTimestamp = ts.Str
	}
}
