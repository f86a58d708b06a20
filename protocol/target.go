package protocol

// TargetInfo describes a controllable target inside the browser process.
type TargetInfo struct {
	TargetID         string `json:"targetId"`
	Type             string `json:"type"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	Attached         bool   `json:"attached"`
	OpenerID         string `json:"openerId,omitempty"`
	CanAccessOpener  bool   `json:"canAccessOpener,omitempty"`
	BrowserContextID string `json:"browserContextId,omitempty"`
}

// GetTargetsResult is the result shape of Target.getTargets.
type GetTargetsResult struct {
	TargetInfos []TargetInfo `json:"targetInfos"`
}

// CreateTargetResult is the result shape of Target.createTarget.
type CreateTargetResult struct {
	TargetID string `json:"targetId"`
}

// CreateBrowserContextResult is the result shape of
// Target.createBrowserContext.
type CreateBrowserContextResult struct {
	BrowserContextID string `json:"browserContextId"`
}

type getTargetsParams struct {
	Filter []map[string]any `json:"filter,omitempty"`
}

type createTargetParams struct {
	URL              string `json:"url"`
	Width            int    `json:"width,omitempty"`
	Height           int    `json:"height,omitempty"`
	BrowserContextID string `json:"browserContextId,omitempty"`
	NewWindow        bool   `json:"newWindow,omitempty"`
	Background       bool   `json:"background,omitempty"`
}

type createBrowserContextParams struct {
	DisposeOnDetach bool   `json:"disposeOnDetach,omitempty"`
	ProxyServer     string `json:"proxyServer,omitempty"`
	ProxyBypassList string `json:"proxyBypassList,omitempty"`
}

type browserContextParams struct {
	BrowserContextID string `json:"browserContextId"`
}

type targetIDParams struct {
	TargetID string `json:"targetId"`
}

// TargetGetTargets builds Target.getTargets.
func TargetGetTargets() *Command {
	return newCommand("Target.getTargets", getTargetsParams{})
}

// TargetCreateTarget builds Target.createTarget. browserContextID may be
// empty for the default context.
func TargetCreateTarget(url, browserContextID string) *Command {
	if url == "" {
		url = "about:blank"
	}
	return newCommand("Target.createTarget", createTargetParams{
		URL:              url,
		BrowserContextID: browserContextID,
	})
}

// TargetCreateBrowserContext builds Target.createBrowserContext. The proxy
// server, if any, must already be stripped of userinfo by the caller.
func TargetCreateBrowserContext(proxyServer, proxyBypassList string) *Command {
	return newCommand("Target.createBrowserContext", createBrowserContextParams{
		ProxyServer:     proxyServer,
		ProxyBypassList: proxyBypassList,
	})
}

// TargetDisposeBrowserContext builds Target.disposeBrowserContext.
func TargetDisposeBrowserContext(browserContextID string) *Command {
	return newCommand("Target.disposeBrowserContext", browserContextParams{
		BrowserContextID: browserContextID,
	})
}

// TargetActivateTarget builds Target.activateTarget.
func TargetActivateTarget(targetID string) *Command {
	return newCommand("Target.activateTarget", targetIDParams{TargetID: targetID})
}

// TargetCloseTarget builds Target.closeTarget.
func TargetCloseTarget(targetID string) *Command {
	return newCommand("Target.closeTarget", targetIDParams{TargetID: targetID})
}

// TargetSetDiscoverTargets builds Target.setDiscoverTargets.
func TargetSetDiscoverTargets(discover bool) *Command {
	return newCommand("Target.setDiscoverTargets", map[string]any{"discover": discover})
}
