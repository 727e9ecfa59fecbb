package ingest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/gasometer/backfill/internal/costevent"
)

func sampleEvent(id string) costevent.Event {
	return costevent.Event{
		SessionID: id,
		Role:      "polecat",
		CostUSD:   1.25,
		Model:     costevent.Some("claude-sonnet-4-6"),
		EndedAt:   "2026-02-26T10:00:00Z",
		Rig:       costevent.Some("gastown"),
	}
}

func TestPostEvent_SendsEvent(t *testing.T) {
	var (
		gotAuth, gotType, gotReqID string
		gotBody                    []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get("X-Request-Id")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gsk_test")
	require.True(t, c.HasAPIKey())
	require.NoError(t, c.PostEvent(context.Background(), sampleEvent("ga-toast")))

	assert.Equal(t, "Bearer gsk_test", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "ga-toast", gjson.GetBytes(gotBody, "session_id").String())
	assert.Equal(t, "gastown", gjson.GetBytes(gotBody, "rig").String())
	assert.False(t, gjson.GetBytes(gotBody, "worker").Exists())
}

func TestPostEvent_OnlyCreatedSucceeds(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"created", http.StatusCreated, `{}`, ""},
		{"ok is not created", http.StatusOK, `{}`, "unexpected status 200"},
		{"bad request with message", http.StatusBadRequest, `{"error":"role is required"}`, "role is required"},
		{"unauthorized", http.StatusUnauthorized, `{"error":"nope"}`, "invalid API key (401)"},
		{"server error plain body", http.StatusInternalServerError, "boom", "unexpected status 500: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL, "k").PostEvent(context.Background(), sampleEvent("s"))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestPostEvent_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "k", WithTimeout(50*time.Millisecond))
	err := c.PostEvent(context.Background(), sampleEvent("slow"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestPostEvent_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, "k").PostEvent(context.Background(), sampleEvent("s"))
	assert.Error(t, err)
}

func TestNewClient_EnvFallback(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvAPIURL, "http://example.invalid/ingest")

	c := NewClient("", "")
	assert.True(t, c.HasAPIKey())
	assert.Equal(t, "http://example.invalid/ingest", c.URL())

	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAPIURL, "")
	c = NewClient("", "")
	assert.False(t, c.HasAPIKey())
	assert.Equal(t, DefaultIngestURL, c.URL())
}
