package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionInfo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/json/version", r.URL.Path)
		w.Write([]byte(`{
			"Browser": "Chrome/120.0.6099.109",
			"Protocol-Version": "1.3",
			"webSocketDebuggerUrl": "ws://127.0.0.1:9222/devtools/browser/abc"
		}`))
	}))
	defer srv.Close()

	c := NewForURL(srv.URL)
	v, err := c.VersionInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Chrome/120.0.6099.109", v.Browser)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc", v.WebSocketDebuggerURL)
}

func TestWaitForWebSocketURLRetriesUntilUp(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The endpoint needs a few polls before it is ready.
		if calls.Add(1) < 3 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"webSocketDebuggerUrl": "ws://127.0.0.1:9222/devtools/browser/abc"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := NewForURL(srv.URL, WithCheckInterval(10*time.Millisecond))
	wsURL, err := c.WaitForWebSocketURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc", wsURL)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestWaitForWebSocketURLTimesOut(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// Nothing is listening on this port.
	c := New(1, WithCheckInterval(20*time.Millisecond))
	_, err := c.WaitForWebSocketURL(ctx)
	require.ErrorIs(t, err, ErrEndpointNotReachable)
}

func TestWaitForWebSocketURLMissingField(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Browser": "Chrome/120"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	c := NewForURL(srv.URL, WithCheckInterval(20*time.Millisecond))
	_, err := c.WaitForWebSocketURL(ctx)
	require.ErrorIs(t, err, ErrEndpointNotReachable)
}
