package ingest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// StatusError is returned when the endpoint answers with anything but 201.
type StatusError struct {
	StatusCode int
	Message    string // "error" field of the response, if any
	Body       string
}

func newStatusError(code int, body []byte) *StatusError {
	return &StatusError{
		StatusCode: code,
		Message:    gjson.GetBytes(body, "error").String(),
		Body:       strings.TrimSpace(string(body)),
	}
}

func (e *StatusError) Error() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return "invalid API key (401)"
	case e.Message != "":
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
	case e.Body != "":
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
}

// DispatchResult tallies one batch dispatch.
type DispatchResult struct {
	OK     int
	Failed int
	// FailedSessions lists session ids whose POST failed, in completion order.
	FailedSessions []string
}

// Total returns the number of events attempted.
func (r DispatchResult) Total() int {
	return r.OK + r.Failed
}
