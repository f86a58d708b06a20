package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalCommand(t *testing.T, cmd *Command) map[string]any {
	t.Helper()
	data, err := json.Marshal(cmd)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestCommandWireShape(t *testing.T) {
	t.Parallel()

	cmd := PageNavigate("https://example.org")
	cmd.ID = 7
	m := marshalCommand(t, cmd)

	assert.Equal(t, float64(7), m["id"])
	assert.Equal(t, "Page.navigate", m["method"])
	params := m["params"].(map[string]any)
	assert.Equal(t, "https://example.org", params["url"])
}

func TestTargetCreateTargetDefaultsToBlank(t *testing.T) {
	t.Parallel()

	m := marshalCommand(t, TargetCreateTarget("", ""))
	params := m["params"].(map[string]any)
	assert.Equal(t, "about:blank", params["url"])
	_, hasContext := params["browserContextId"]
	assert.False(t, hasContext)

	m = marshalCommand(t, TargetCreateTarget("https://x.test", "ctx-1"))
	params = m["params"].(map[string]any)
	assert.Equal(t, "ctx-1", params["browserContextId"])
}

func TestCaptureScreenshotOmitsQualityForPNG(t *testing.T) {
	t.Parallel()

	m := marshalCommand(t, PageCaptureScreenshot("png", 80, nil, false))
	params := m["params"].(map[string]any)
	_, hasQuality := params["quality"]
	assert.False(t, hasQuality)

	m = marshalCommand(t, PageCaptureScreenshot("jpeg", 80, &Viewport{X: 1, Y: 2, Width: 3, Height: 4, Scale: 1}, false))
	params = m["params"].(map[string]any)
	assert.Equal(t, float64(80), params["quality"])
	clip := params["clip"].(map[string]any)
	assert.Equal(t, float64(1), clip["scale"])
}

func TestFetchContinueWithAuthShape(t *testing.T) {
	t.Parallel()

	m := marshalCommand(t, FetchContinueWithAuth("req-1", "user", "secret"))
	assert.Equal(t, "Fetch.continueWithAuth", m["method"])
	params := m["params"].(map[string]any)
	resp := params["authChallengeResponse"].(map[string]any)
	assert.Equal(t, "ProvideCredentials", resp["response"])
	assert.Equal(t, "user", resp["username"])
	assert.Equal(t, "secret", resp["password"])
}

func TestFetchEnableShape(t *testing.T) {
	t.Parallel()

	m := marshalCommand(t, FetchEnable(true, RequestPattern{URLPattern: "*"}))
	params := m["params"].(map[string]any)
	assert.Equal(t, true, params["handleAuthRequests"])
	patterns := params["patterns"].([]any)
	require.Len(t, patterns, 1)

	// Without patterns or auth, the params stay minimal.
	m = marshalCommand(t, FetchEnable(false))
	params = m["params"].(map[string]any)
	_, hasPatterns := params["patterns"]
	assert.False(t, hasPatterns)
}

func TestMessageClassification(t *testing.T) {
	t.Parallel()

	var response Message
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "result": {"ok": true}}`), &response))
	assert.False(t, response.IsEvent())

	var event Message
	require.NoError(t, json.Unmarshal([]byte(`{"method": "Page.loadEventFired", "params": {}}`), &event))
	assert.True(t, event.IsEvent())
}

func TestMessageErrorUnmarshal(t *testing.T) {
	t.Parallel()

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "error": {"code": -32601, "message": "method not found"}}`), &msg))
	require.NotNil(t, msg.Error)
	assert.Equal(t, int64(-32601), msg.Error.Code)
	assert.EqualError(t, msg.Error, "cdp error -32601: method not found")
}

func TestCookieParamRoundTrip(t *testing.T) {
	t.Parallel()

	p := CookieParam{
		Name:     "session",
		Value:    "abc",
		Domain:   "example.org",
		Path:     "/",
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  1700000000,
	}
	data, err := json.Marshal(NetworkSetCookies([]CookieParam{p}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sameSite":"Lax"`)
	assert.Contains(t, string(data), `"httpOnly":true`)

	// A zero Expires is omitted: session cookie.
	data, err = json.Marshal(NetworkSetCookies([]CookieParam{{Name: "s", Value: "1"}}))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "expires")
}

func TestStorageCookiesContextScope(t *testing.T) {
	t.Parallel()

	m := marshalCommand(t, StorageGetCookies("ctx-1"))
	params := m["params"].(map[string]any)
	assert.Equal(t, "ctx-1", params["browserContextId"])

	m = marshalCommand(t, StorageGetCookies(""))
	params = m["params"].(map[string]any)
	_, has := params["browserContextId"]
	assert.False(t, has)
}

func TestDispatchMouseEventShape(t *testing.T) {
	t.Parallel()

	m := marshalCommand(t, InputDispatchMouseEvent(DispatchMouseEventParams{
		Type: MousePressed, X: 10.5, Y: 20.5, Button: "left", ClickCount: 1,
	}))
	params := m["params"].(map[string]any)
	assert.Equal(t, "mousePressed", params["type"])
	assert.Equal(t, 10.5, params["x"])
	assert.Equal(t, float64(1), params["clickCount"])
}
