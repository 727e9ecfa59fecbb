package costevent

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// DecodeJSONL reads one event per line. Blank lines are ignored; lines that do
// not decode, lack a numeric cost_usd, or fail Validate are logged and counted
// as skipped. Fields absent from a line stay absent on the event.
func DecodeJSONL(r io.Reader) ([]Event, int, error) {
	reader := bufio.NewReader(r)

	var events []Event
	skipped := 0
	lineNo := 0
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			if ev, ok := decodeLine(line, lineNo); ok {
				events = append(events, ev)
			} else if len(bytes.TrimSpace(line)) > 0 {
				skipped++
			}
		}
		if errors.Is(err, io.EOF) {
			return events, skipped, nil
		}
		if err != nil {
			return nil, skipped, err
		}
	}
}

func decodeLine(line []byte, lineNo int) (Event, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Event{}, false
	}

	if cost := gjson.GetBytes(line, "cost_usd"); cost.Type != gjson.Number {
		log.Warn().Int("line", lineNo).Str("cost_usd", cost.Raw).Msg("costevent: skipping record without numeric cost_usd")
		return Event{}, false
	}

	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		log.Warn().Err(err).Int("line", lineNo).Msg("costevent: skipping malformed record")
		return Event{}, false
	}
	if err := ev.Validate(); err != nil {
		log.Warn().Err(err).Int("line", lineNo).Str("session_id", ev.SessionID).Msg("costevent: skipping invalid record")
		return Event{}, false
	}
	return ev, true
}
