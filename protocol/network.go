package protocol

// Cookie follows the CDP Network.Cookie shape.
type Cookie struct {
	Name         string  `json:"name"`
	Value        string  `json:"value"`
	Domain       string  `json:"domain"`
	Path         string  `json:"path"`
	Expires      float64 `json:"expires"`
	Size         int64   `json:"size"`
	HTTPOnly     bool    `json:"httpOnly"`
	Secure       bool    `json:"secure"`
	Session      bool    `json:"session"`
	SameSite     string  `json:"sameSite,omitempty"`
	Priority     string  `json:"priority,omitempty"`
	SourceScheme string  `json:"sourceScheme,omitempty"`
	SourcePort   int64   `json:"sourcePort,omitempty"`
}

// CookieParam is the settable subset of Cookie, following the CDP
// Network.CookieParam shape. Expires of zero means a session cookie.
type CookieParam struct {
	Name         string  `json:"name"`
	Value        string  `json:"value"`
	URL          string  `json:"url,omitempty"`
	Domain       string  `json:"domain,omitempty"`
	Path         string  `json:"path,omitempty"`
	Secure       bool    `json:"secure,omitempty"`
	HTTPOnly     bool    `json:"httpOnly,omitempty"`
	SameSite     string  `json:"sameSite,omitempty"`
	Expires      float64 `json:"expires,omitempty"`
	Priority     string  `json:"priority,omitempty"`
	SourceScheme string  `json:"sourceScheme,omitempty"`
	SourcePort   int64   `json:"sourcePort,omitempty"`
}

// GetCookiesResult is the result shape of Network.getCookies and
// Storage.getCookies.
type GetCookiesResult struct {
	Cookies []Cookie `json:"cookies"`
}

// Request is the CDP Network.Request subset the library records.
type Request struct {
	URL      string            `json:"url"`
	Method   string            `json:"method"`
	Headers  map[string]string `json:"headers,omitempty"`
	PostData string            `json:"postData,omitempty"`
}

// Response is the CDP Network.Response subset the library records.
type Response struct {
	URL        string            `json:"url"`
	Status     int64             `json:"status"`
	StatusText string            `json:"statusText,omitempty"`
	Headers    map[string]any    `json:"headers,omitempty"`
	MimeType   string            `json:"mimeType,omitempty"`
	RemoteIPAddress string       `json:"remoteIPAddress,omitempty"`
}

// RequestWillBeSent is the params shape of Network.requestWillBeSent.
type RequestWillBeSent struct {
	RequestID string  `json:"requestId"`
	LoaderID  string  `json:"loaderId"`
	Request   Request `json:"request"`
	Timestamp float64 `json:"timestamp"`
	Type      string  `json:"type,omitempty"`
}

// ResponseReceived is the params shape of Network.responseReceived.
type ResponseReceived struct {
	RequestID string   `json:"requestId"`
	Response  Response `json:"response"`
	Timestamp float64  `json:"timestamp"`
	Type      string   `json:"type,omitempty"`
}

// LoadingFinished is the params shape of Network.loadingFinished.
type LoadingFinished struct {
	RequestID         string  `json:"requestId"`
	Timestamp         float64 `json:"timestamp"`
	EncodedDataLength float64 `json:"encodedDataLength"`
}

// LoadingFailed is the params shape of Network.loadingFailed.
type LoadingFailed struct {
	RequestID string `json:"requestId"`
	ErrorText string `json:"errorText"`
	Canceled  bool   `json:"canceled,omitempty"`
}

// GetResponseBodyResult is the result shape of Network.getResponseBody.
type GetResponseBodyResult struct {
	Body          string `json:"body"`
	Base64Encoded bool   `json:"base64Encoded"`
}

type setCookiesParams struct {
	Cookies []CookieParam `json:"cookies"`
}

type requestIDParams struct {
	RequestID string `json:"requestId"`
}

// NetworkEnable builds Network.enable.
func NetworkEnable() *Command {
	return newCommand("Network.enable", nil)
}

// NetworkDisable builds Network.disable.
func NetworkDisable() *Command {
	return newCommand("Network.disable", nil)
}

// NetworkGetCookies builds Network.getCookies, which reads the cookies of
// the issuing target's browser context (incognito included).
func NetworkGetCookies() *Command {
	return newCommand("Network.getCookies", nil)
}

// NetworkSetCookies builds Network.setCookies.
func NetworkSetCookies(cookies []CookieParam) *Command {
	return newCommand("Network.setCookies", setCookiesParams{Cookies: cookies})
}

// NetworkClearBrowserCookies builds Network.clearBrowserCookies.
func NetworkClearBrowserCookies() *Command {
	return newCommand("Network.clearBrowserCookies", nil)
}

// NetworkGetResponseBody builds Network.getResponseBody.
func NetworkGetResponseBody(requestID string) *Command {
	return newCommand("Network.getResponseBody", requestIDParams{RequestID: requestID})
}

// NetworkSetUserAgentOverride builds Network.setUserAgentOverride.
func NetworkSetUserAgentOverride(userAgent string) *Command {
	return newCommand("Network.setUserAgentOverride", map[string]any{"userAgent": userAgent})
}
