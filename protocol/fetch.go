package protocol

// RequestPattern selects which requests the Fetch domain pauses.
type RequestPattern struct {
	URLPattern   string `json:"urlPattern,omitempty"`
	ResourceType string `json:"resourceType,omitempty"`
	RequestStage string `json:"requestStage,omitempty"`
}

// RequestPaused is the params shape of Fetch.requestPaused.
type RequestPaused struct {
	RequestID    string  `json:"requestId"`
	Request      Request `json:"request"`
	FrameID      string  `json:"frameId"`
	ResourceType string  `json:"resourceType"`
	NetworkID    string  `json:"networkId,omitempty"`
}

// AuthChallenge describes the challenge inside Fetch.authRequired.
type AuthChallenge struct {
	Source string `json:"source,omitempty"`
	Origin string `json:"origin"`
	Scheme string `json:"scheme"`
	Realm  string `json:"realm"`
}

// AuthRequired is the params shape of Fetch.authRequired.
type AuthRequired struct {
	RequestID     string        `json:"requestId"`
	Request       Request       `json:"request"`
	FrameID       string        `json:"frameId"`
	ResourceType  string        `json:"resourceType"`
	AuthChallenge AuthChallenge `json:"authChallenge"`
}

// AuthChallengeResponse answers a Fetch.authRequired event.
type AuthChallengeResponse struct {
	Response string `json:"response"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// HeaderEntry is one request/response header for Fetch fulfillment.
type HeaderEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type fetchEnableParams struct {
	Patterns           []RequestPattern `json:"patterns,omitempty"`
	HandleAuthRequests bool             `json:"handleAuthRequests,omitempty"`
}

type continueRequestParams struct {
	RequestID string `json:"requestId"`
	URL       string `json:"url,omitempty"`
	Method    string `json:"method,omitempty"`
}

type continueWithAuthParams struct {
	RequestID             string                `json:"requestId"`
	AuthChallengeResponse AuthChallengeResponse `json:"authChallengeResponse"`
}

type fulfillRequestParams struct {
	RequestID       string        `json:"requestId"`
	ResponseCode    int           `json:"responseCode"`
	ResponseHeaders []HeaderEntry `json:"responseHeaders,omitempty"`
	Body            string        `json:"body,omitempty"`
}

type failRequestParams struct {
	RequestID   string `json:"requestId"`
	ErrorReason string `json:"errorReason"`
}

// FetchEnable builds Fetch.enable. An empty pattern pauses every request.
func FetchEnable(handleAuthRequests bool, patterns ...RequestPattern) *Command {
	return newCommand("Fetch.enable", fetchEnableParams{
		Patterns:           patterns,
		HandleAuthRequests: handleAuthRequests,
	})
}

// FetchDisable builds Fetch.disable.
func FetchDisable() *Command {
	return newCommand("Fetch.disable", nil)
}

// FetchContinueRequest builds Fetch.continueRequest, releasing a paused
// request unmodified.
func FetchContinueRequest(requestID string) *Command {
	return newCommand("Fetch.continueRequest", continueRequestParams{RequestID: requestID})
}

// FetchContinueWithAuth builds Fetch.continueWithAuth providing the given
// credentials.
func FetchContinueWithAuth(requestID, username, password string) *Command {
	return newCommand("Fetch.continueWithAuth", continueWithAuthParams{
		RequestID: requestID,
		AuthChallengeResponse: AuthChallengeResponse{
			Response: "ProvideCredentials",
			Username: username,
			Password: password,
		},
	})
}

// FetchFulfillRequest builds Fetch.fulfillRequest. body must already be
// base64-encoded.
func FetchFulfillRequest(requestID string, responseCode int, headers []HeaderEntry, body string) *Command {
	return newCommand("Fetch.fulfillRequest", fulfillRequestParams{
		RequestID:       requestID,
		ResponseCode:    responseCode,
		ResponseHeaders: headers,
		Body:            body,
	})
}

// FetchFailRequest builds Fetch.failRequest.
func FetchFailRequest(requestID, errorReason string) *Command {
	return newCommand("Fetch.failRequest", failRequestParams{
		RequestID:   requestID,
		ErrorReason: errorReason,
	})
}
