package protocol

// WindowBounds is the CDP Browser.Bounds shape. WindowState is one of
// "normal", "minimized", "maximized", "fullscreen".
type WindowBounds struct {
	Left        int    `json:"left,omitempty"`
	Top         int    `json:"top,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	WindowState string `json:"windowState,omitempty"`
}

// GetWindowForTargetResult is the result shape of Browser.getWindowForTarget.
type GetWindowForTargetResult struct {
	WindowID int64        `json:"windowId"`
	Bounds   WindowBounds `json:"bounds"`
}

// DownloadWillBegin is the params shape of Browser.downloadWillBegin.
type DownloadWillBegin struct {
	FrameID           string `json:"frameId"`
	GUID              string `json:"guid"`
	URL               string `json:"url"`
	SuggestedFilename string `json:"suggestedFilename"`
}

// DownloadProgress is the params shape of Browser.downloadProgress. State
// is one of "inProgress", "completed", "canceled".
type DownloadProgress struct {
	GUID          string  `json:"guid"`
	TotalBytes    float64 `json:"totalBytes"`
	ReceivedBytes float64 `json:"receivedBytes"`
	State         string  `json:"state"`
}

type setDownloadBehaviorParams struct {
	Behavior         string `json:"behavior"`
	BrowserContextID string `json:"browserContextId,omitempty"`
	DownloadPath     string `json:"downloadPath,omitempty"`
	EventsEnabled    bool   `json:"eventsEnabled,omitempty"`
}

type grantPermissionsParams struct {
	Permissions      []string `json:"permissions"`
	Origin           string   `json:"origin,omitempty"`
	BrowserContextID string   `json:"browserContextId,omitempty"`
}

type setWindowBoundsParams struct {
	WindowID int64        `json:"windowId"`
	Bounds   WindowBounds `json:"bounds"`
}

// BrowserVersionResult is the result shape of Browser.getVersion.
type BrowserVersionResult struct {
	ProtocolVersion string `json:"protocolVersion"`
	Product         string `json:"product"`
	Revision        string `json:"revision"`
	UserAgent       string `json:"userAgent"`
	JSVersion       string `json:"jsVersion"`
}

// BrowserGetVersion builds Browser.getVersion.
func BrowserGetVersion() *Command {
	return newCommand("Browser.getVersion", nil)
}

// BrowserClose builds Browser.close for a graceful shutdown.
func BrowserClose() *Command {
	return newCommand("Browser.close", nil)
}

// BrowserSetDownloadBehavior builds Browser.setDownloadBehavior. behavior
// is "allow", "allowAndName", "deny" or "default".
func BrowserSetDownloadBehavior(behavior, downloadPath, browserContextID string, eventsEnabled bool) *Command {
	return newCommand("Browser.setDownloadBehavior", setDownloadBehaviorParams{
		Behavior:         behavior,
		BrowserContextID: browserContextID,
		DownloadPath:     downloadPath,
		EventsEnabled:    eventsEnabled,
	})
}

// BrowserGrantPermissions builds Browser.grantPermissions, optionally
// scoped to an origin and browser context.
func BrowserGrantPermissions(permissions []string, origin, browserContextID string) *Command {
	return newCommand("Browser.grantPermissions", grantPermissionsParams{
		Permissions:      permissions,
		Origin:           origin,
		BrowserContextID: browserContextID,
	})
}

// BrowserResetPermissions builds Browser.resetPermissions.
func BrowserResetPermissions(browserContextID string) *Command {
	p := map[string]any{}
	if browserContextID != "" {
		p["browserContextId"] = browserContextID
	}
	return newCommand("Browser.resetPermissions", p)
}

// BrowserGetWindowForTarget builds Browser.getWindowForTarget.
func BrowserGetWindowForTarget(targetID string) *Command {
	return newCommand("Browser.getWindowForTarget", map[string]any{"targetId": targetID})
}

// BrowserSetWindowBounds builds Browser.setWindowBounds.
func BrowserSetWindowBounds(windowID int64, bounds WindowBounds) *Command {
	return newCommand("Browser.setWindowBounds", setWindowBoundsParams{
		WindowID: windowID,
		Bounds:   bounds,
	})
}
