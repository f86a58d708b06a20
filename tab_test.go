package pydoll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// newTestTab wires a Tab to a fake endpoint without a browser process.
func newTestTab(t *testing.T, srv *fakeCDP) *Tab {
	t.Helper()
	b := newBrowser(func() string { return "" })
	conn := NewConnection(srv.url)
	t.Cleanup(func() { conn.Close() })
	tab := newTab(b, conn, "target-1", "")
	b.tabs["target-1"] = tab
	b.tabOrder = append(b.tabOrder, "target-1")
	return tab
}

func TestFormatFromExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		format string
		ok     bool
	}{
		{"shot.png", "png", true},
		{"shot.jpeg", "jpeg", true},
		{"shot.jpg", "jpeg", true},
		{"shot.WEBP", "webp", true},
		{"shot.gif", "", false},
		{"shot", "", false},
	}
	for _, tt := range tests {
		format, err := formatFromExtension(tt.path)
		if tt.ok {
			require.NoError(t, err, tt.path)
			assert.Equal(t, tt.format, format, tt.path)
		} else {
			require.ErrorIs(t, err, ErrInvalidFileExtension, tt.path)
		}
	}
}

func TestTakeScreenshotRequiresPathOrBase64(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, nil)
	tab := newTestTab(t, srv)

	_, err := tab.TakeScreenshot(context.Background(), ScreenshotOptions{})
	require.ErrorIs(t, err, ErrMissingScreenshotPath)
	// Validation fails before any command is issued.
	assert.Empty(t, srv.recordedFrames())
}

func TestTakeScreenshotIframeTarget(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		// Iframe targets answer captureScreenshot without data.
		s.respond(msg.ID, map[string]any{})
	})
	tab := newTestTab(t, srv)

	_, err := tab.TakeScreenshot(context.Background(), ScreenshotOptions{AsBase64: true})
	require.ErrorIs(t, err, ErrTopLevelTargetRequired)
}

func TestPrintToPDFScaleBounds(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, nil)
	tab := newTestTab(t, srv)

	for _, scale := range []float64{0.05, 2.5, -1} {
		_, err := tab.PrintToPDF(context.Background(), PDFOptions{AsBase64: true, Scale: scale})
		require.ErrorIs(t, err, ErrInvalidPDFScale)
	}
	// Out-of-range scales are never transmitted.
	assert.Empty(t, srv.recordedFrames())
}

func TestPrintToPDFReturnsBytes(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		require.Equal(t, "Page.printToPDF", msg.Method)
		s.respond(msg.ID, map[string]any{"data": "JVBERi0="})
	})
	tab := newTestTab(t, srv)

	data, err := tab.PrintToPDF(context.Background(), PDFOptions{AsBase64: true, Scale: 1.5})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-"), data)
}

func TestWrapElementScript(t *testing.T) {
	t.Parallel()

	// The bareword argument becomes this, and bare bodies are wrapped.
	wrapped := wrapElementScript("argument.value = 'x'")
	assert.Equal(t, "function() { this.value = 'x' }", wrapped)

	// Existing function declarations are passed through.
	assert.Equal(t, "function(a) { return a; }", wrapElementScript("function(a) { return a; }"))

	// The substitution is lexically naive: strings are rewritten too.
	assert.Contains(t, wrapElementScript(`x = "argument"`), `"this"`)
}

func TestEnablePageEventsIsIdempotent(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, nil)
	tab := newTestTab(t, srv)
	ctx := context.Background()

	require.NoError(t, tab.EnablePageEvents(ctx))
	require.NoError(t, tab.EnablePageEvents(ctx))
	require.NoError(t, tab.EnablePageEvents(ctx))
	assert.Equal(t, 1, srv.countFrames("Page.enable"))

	require.NoError(t, tab.DisablePageEvents(ctx))
	require.NoError(t, tab.DisablePageEvents(ctx))
	assert.Equal(t, 1, srv.countFrames("Page.disable"))
}

func TestEnableNetworkEventsRecordsLog(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, nil)
	tab := newTestTab(t, srv)
	ctx := context.Background()

	require.NoError(t, tab.EnableNetworkEvents(ctx))

	sess := srv.session(t)
	sess.event(protocol.EventNetworkRequestWillBeSent, protocol.RequestWillBeSent{
		RequestID: "r1",
		Request:   protocol.Request{URL: "http://localhost/api/items", Method: "GET"},
	})
	sess.event(protocol.EventNetworkRequestWillBeSent, protocol.RequestWillBeSent{
		RequestID: "r2",
		Request:   protocol.Request{URL: "http://localhost/static/app.js", Method: "GET"},
	})
	sess.event(protocol.EventNetworkResponseReceived, protocol.ResponseReceived{
		RequestID: "r1",
		Response:  protocol.Response{Status: 200},
	})

	// Each event callback runs on its own goroutine, so wait for the
	// response event as well as the two requests.
	require.True(t, waitFor(t, 2*time.Second, func() bool {
		logs := tab.GetNetworkLogs("/api/items")
		return len(tab.GetNetworkLogs("")) == 2 && len(logs) == 1 && logs[0].Status == 200
	}))

	logs := tab.GetNetworkLogs("/api/items")
	require.Len(t, logs, 1)
	assert.Equal(t, "r1", logs[0].RequestID)
	assert.Equal(t, int64(200), logs[0].Status)
}

func TestNetworkLogRingIsBounded(t *testing.T) {
	t.Parallel()

	l := newNetworkLog()
	for i := 0; i < networkLogCapacity+10; i++ {
		l.requestWillBeSent(&protocol.RequestWillBeSent{
			RequestID: fmt.Sprintf("req-%d", i),
			Request:   protocol.Request{URL: "http://x/"},
		})
	}
	assert.LessOrEqual(t, len(l.filter("")), networkLogCapacity)
}

func TestGetNetworkResponseBody(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		require.Equal(t, "Network.getResponseBody", msg.Method)
		calls++
		s.respond(msg.ID, map[string]any{"body": "eyJvayI6dHJ1ZX0=", "base64Encoded": true})
	})
	tab := newTestTab(t, srv)

	body, err := tab.GetNetworkResponseBody(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))

	// Second read is served from the cache.
	body, err = tab.GetNetworkResponseBody(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, 1, calls)
}

func TestBodyCacheEvictsOldest(t *testing.T) {
	t.Parallel()

	c := newBodyCache(2)
	c.put("a", []byte("1"))
	c.put("b", []byte("2"))
	c.put("c", []byte("3"))

	_, ok := c.get("a")
	assert.False(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestHandleDialogWithoutDialog(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, nil)
	tab := newTestTab(t, srv)

	assert.False(t, tab.HasDialog())
	_, err := tab.GetDialogMessage()
	require.ErrorIs(t, err, ErrNoDialog)
	require.ErrorIs(t, tab.HandleDialog(context.Background(), true, ""), ErrNoDialog)
}

func TestHandleDialogAccepts(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, nil)
	tab := newTestTab(t, srv)
	ctx := context.Background()

	require.NoError(t, tab.EnablePageEvents(ctx))
	sess := srv.session(t)
	sess.event(protocol.EventPageJavascriptDialogOpening, protocol.JavascriptDialogOpening{
		Message: "continue?",
		Type:    "confirm",
	})
	require.True(t, waitFor(t, 2*time.Second, tab.HasDialog))

	msg, err := tab.GetDialogMessage()
	require.NoError(t, err)
	assert.Equal(t, "continue?", msg)

	require.NoError(t, tab.HandleDialog(ctx, true, ""))
	assert.Equal(t, 1, srv.countFrames("Page.handleJavaScriptDialog"))
	assert.False(t, tab.HasDialog())
}

func TestTabClosedOperationsFail(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, nil)
	tab := newTestTab(t, srv)
	tab.markClosed()

	_, err := tab.CurrentURL(context.Background())
	require.ErrorIs(t, err, ErrTabClosed)
	require.ErrorIs(t, tab.EnablePageEvents(context.Background()), ErrTabClosed)
	_, err = tab.On("Page.loadEventFired", func(*protocol.Message) {}, false)
	require.ErrorIs(t, err, ErrTabClosed)
}

func TestGetFrameRequiresSrc(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, nil)
	tab := newTestTab(t, srv)

	srcless := newWebElement(nil, "o1", ByTag, "iframe", []string{"tag_name", "iframe"})
	_, err := tab.GetFrame(context.Background(), srcless)
	require.ErrorIs(t, err, ErrIFrameHasNoSrc)
}

func TestTabCloseRemovesFromRegistry(t *testing.T) {
	t.Parallel()

	srv := newFakeCDP(t, nil)
	tab := newTestTab(t, srv)
	require.Len(t, tab.browser.GetOpenedTabs(), 1)

	require.NoError(t, tab.Close(context.Background()))
	assert.Equal(t, 1, srv.countFrames("Page.close"))
	assert.Empty(t, tab.browser.GetOpenedTabs())

	// The handle is dead after Close.
	_, err := tab.CurrentURL(context.Background())
	require.ErrorIs(t, err, ErrTabClosed)
}
