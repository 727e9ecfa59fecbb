// Package ingest sends cost events to the gasometer ingest API.
//
// FILES:
//   - client.go:   API client and HTTP helpers
//   - types.go:    Response and error types
//   - dispatch.go: Bounded concurrent dispatch of a batch
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/gasometer/backfill/internal/costevent"
	"github.com/gasometer/backfill/internal/utils"
)

// DefaultIngestURL is the production ingest endpoint.
const DefaultIngestURL = "https://gasometer-api-production.up.railway.app/api/ingest"

// DefaultTimeout bounds each POST, including reading the response.
const DefaultTimeout = 10 * time.Second

// Environment variables read by NewClient when arguments are empty.
const (
	EnvAPIKey = "GASOMETER_API_KEY"
	EnvAPIURL = "GASOMETER_API_URL"
)

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 4096

// =============================================================================
// Client
// =============================================================================

// Client posts cost events to the ingest endpoint.
type Client struct {
	url        string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(client *Client) {
		if timeout > 0 {
			client.httpClient.Timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(client *Client) {
		client.userAgent = ua
	}
}

// NewClient creates a new ingest client.
// It reads GASOMETER_API_URL and GASOMETER_API_KEY from environment if not provided.
func NewClient(url, apiKey string, opts ...ClientOption) *Client {
	if url == "" {
		url = os.Getenv(EnvAPIURL)
	}
	if url == "" {
		url = DefaultIngestURL
	}

	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}

	c := &Client{
		url:       url,
		apiKey:    apiKey,
		userAgent: "gasometer-backfill/1.0",
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// HasAPIKey returns true if an API key is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// URL returns the endpoint events are posted to.
func (c *Client) URL() string {
	return c.url
}

// =============================================================================
// API Methods
// =============================================================================

// PostEvent sends one event. Only HTTP 201 counts as success; any other
// status returns a *StatusError. There is no retry.
func (c *Client) PostEvent(ctx context.Context, ev costevent.Event) error {
	body, err := utils.MarshalNoEscape(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())

	// #nosec G107 -- endpoint comes from operator configuration
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return newStatusError(resp.StatusCode, respBody)
	}

	return nil
}
