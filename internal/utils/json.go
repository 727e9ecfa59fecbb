package utils

import (
	"bytes"
	"encoding/json"
)

// MarshalNoEscape marshals JSON without HTML escaping.
// Session ids and model names are sent verbatim instead of as < escapes.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encoder adds a trailing newline; remove it for parity with json.Marshal.
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// MarshalLine marshals v without HTML escaping and appends a newline,
// producing one JSONL record.
func MarshalLine(v any) ([]byte, error) {
	data, err := MarshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
