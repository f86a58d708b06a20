// Package client provides the HTTP side of the DevTools endpoint: polling
// /json/version after browser launch until the browser-scoped websocket
// URL is published.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultCheckInterval is the default poll interval while waiting for
	// the endpoint to come up.
	DefaultCheckInterval = 100 * time.Millisecond

	// DefaultStartupTimeout is the default overall limit on waiting for
	// the endpoint.
	DefaultStartupTimeout = 30 * time.Second
)

// Error is a client error.
type Error string

// Error satisfies the error interface.
func (err Error) Error() string {
	return string(err)
}

const (
	// ErrEndpointNotReachable is returned when the DevTools HTTP endpoint
	// did not come up within the startup timeout.
	ErrEndpointNotReachable Error = "devtools endpoint not reachable"

	// ErrMissingWebSocketURL is returned when /json/version omits the
	// webSocketDebuggerUrl field.
	ErrMissingWebSocketURL Error = "version info missing webSocketDebuggerUrl"
)

// VersionInfo is the payload of /json/version.
type VersionInfo struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	UserAgent            string `json:"User-Agent"`
	V8Version            string `json:"V8-Version"`
	WebKitVersion        string `json:"WebKit-Version"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Client polls a browser's DevTools HTTP endpoint.
type Client struct {
	baseURL string
	check   time.Duration
	httpc   *http.Client
}

// Option is a client option.
type Option func(*Client)

// WithCheckInterval sets the poll interval.
func WithCheckInterval(d time.Duration) Option {
	return func(c *Client) {
		c.check = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpc = hc
	}
}

// New creates a client for the DevTools endpoint listening on port.
func New(port int, opts ...Option) *Client {
	c := &Client{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		check:   DefaultCheckInterval,
		httpc:   &http.Client{Timeout: 2 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewForURL creates a client for an explicit base URL, mainly for tests.
func NewForURL(baseURL string, opts ...Option) *Client {
	c := New(0, opts...)
	c.baseURL = baseURL
	return c
}

// VersionInfo fetches /json/version once.
func (c *Client) VersionInfo(ctx context.Context) (*VersionInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/version", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	v := new(VersionInfo)
	if err := json.Unmarshal(body, v); err != nil {
		return nil, err
	}
	return v, nil
}

// WaitForWebSocketURL polls /json/version until it carries a
// webSocketDebuggerUrl, bounded by ctx. On a ctx deadline the last poll
// error is wrapped in ErrEndpointNotReachable.
func (c *Client) WaitForWebSocketURL(ctx context.Context) (string, error) {
	ticker := time.NewTicker(c.check)
	defer ticker.Stop()

	var lastErr error = ErrEndpointNotReachable
	for {
		v, err := c.VersionInfo(ctx)
		switch {
		case err == nil && v.WebSocketDebuggerURL != "":
			return v.WebSocketDebuggerURL, nil
		case err == nil:
			lastErr = ErrMissingWebSocketURL
		default:
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrEndpointNotReachable, lastErr)
		case <-ticker.C:
		}
	}
}
