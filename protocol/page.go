package protocol

// Viewport is a clip rectangle for Page.captureScreenshot.
type Viewport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// NavigateResult is the result shape of Page.navigate.
type NavigateResult struct {
	FrameID   string `json:"frameId"`
	LoaderID  string `json:"loaderId,omitempty"`
	ErrorText string `json:"errorText,omitempty"`
}

// NavigationEntry is one entry of the tab's navigation history.
type NavigationEntry struct {
	ID             int64  `json:"id"`
	URL            string `json:"url"`
	UserTypedURL   string `json:"userTypedURL"`
	Title          string `json:"title"`
	TransitionType string `json:"transitionType"`
}

// NavigationHistoryResult is the result shape of Page.getNavigationHistory.
type NavigationHistoryResult struct {
	CurrentIndex int               `json:"currentIndex"`
	Entries      []NavigationEntry `json:"entries"`
}

// CaptureResult is the base64 payload shared by Page.captureScreenshot and
// Page.printToPDF responses.
type CaptureResult struct {
	Data string `json:"data"`
}

// JavascriptDialogOpening is the params shape of the
// Page.javascriptDialogOpening event.
type JavascriptDialogOpening struct {
	URL           string `json:"url"`
	Message       string `json:"message"`
	Type          string `json:"type"`
	HasBrowserHandler bool `json:"hasBrowserHandler"`
	DefaultPrompt string `json:"defaultPrompt,omitempty"`
}

// FileChooserOpened is the params shape of the Page.fileChooserOpened event.
type FileChooserOpened struct {
	FrameID       string `json:"frameId"`
	Mode          string `json:"mode"`
	BackendNodeID int64  `json:"backendNodeId,omitempty"`
}

type navigateParams struct {
	URL            string `json:"url"`
	Referrer       string `json:"referrer,omitempty"`
	TransitionType string `json:"transitionType,omitempty"`
}

type reloadParams struct {
	IgnoreCache bool `json:"ignoreCache,omitempty"`
}

type captureScreenshotParams struct {
	Format                string    `json:"format,omitempty"`
	Quality               int       `json:"quality,omitempty"`
	Clip                  *Viewport `json:"clip,omitempty"`
	CaptureBeyondViewport bool      `json:"captureBeyondViewport,omitempty"`
}

// PrintToPDFParams are the Page.printToPDF options the library exposes.
type PrintToPDFParams struct {
	Landscape           bool    `json:"landscape,omitempty"`
	DisplayHeaderFooter bool    `json:"displayHeaderFooter,omitempty"`
	PrintBackground     bool    `json:"printBackground,omitempty"`
	Scale               float64 `json:"scale,omitempty"`
}

type handleDialogParams struct {
	Accept     bool   `json:"accept"`
	PromptText string `json:"promptText,omitempty"`
}

type handleFileChooserParams struct {
	Action string   `json:"action"`
	Files  []string `json:"files,omitempty"`
}

// PageEnable builds Page.enable.
func PageEnable() *Command {
	return newCommand("Page.enable", nil)
}

// PageDisable builds Page.disable.
func PageDisable() *Command {
	return newCommand("Page.disable", nil)
}

// PageNavigate builds Page.navigate.
func PageNavigate(url string) *Command {
	return newCommand("Page.navigate", navigateParams{URL: url})
}

// PageReload builds Page.reload.
func PageReload(ignoreCache bool) *Command {
	return newCommand("Page.reload", reloadParams{IgnoreCache: ignoreCache})
}

// PageGetNavigationHistory builds Page.getNavigationHistory.
func PageGetNavigationHistory() *Command {
	return newCommand("Page.getNavigationHistory", nil)
}

// PageCaptureScreenshot builds Page.captureScreenshot. clip may be nil for
// a full-viewport capture; quality applies to jpeg and webp only.
func PageCaptureScreenshot(format string, quality int, clip *Viewport, beyondViewport bool) *Command {
	p := captureScreenshotParams{
		Format:                format,
		Clip:                  clip,
		CaptureBeyondViewport: beyondViewport,
	}
	if format != "png" {
		p.Quality = quality
	}
	return newCommand("Page.captureScreenshot", p)
}

// PagePrintToPDF builds Page.printToPDF.
func PagePrintToPDF(params PrintToPDFParams) *Command {
	return newCommand("Page.printToPDF", params)
}

// PageHandleJavaScriptDialog builds Page.handleJavaScriptDialog.
func PageHandleJavaScriptDialog(accept bool, promptText string) *Command {
	return newCommand("Page.handleJavaScriptDialog", handleDialogParams{
		Accept:     accept,
		PromptText: promptText,
	})
}

// PageSetInterceptFileChooserDialog builds
// Page.setInterceptFileChooserDialog.
func PageSetInterceptFileChooserDialog(enabled bool) *Command {
	return newCommand("Page.setInterceptFileChooserDialog", map[string]any{"enabled": enabled})
}

// PageHandleFileChooser builds Page.handleFileChooser accepting the given
// files.
func PageHandleFileChooser(files []string) *Command {
	return newCommand("Page.handleFileChooser", handleFileChooserParams{
		Action: "accept",
		Files:  files,
	})
}

// PageClose builds Page.close.
func PageClose() *Command {
	return newCommand("Page.close", nil)
}

// PageSetBypassCSP builds Page.setBypassCSP.
func PageSetBypassCSP(enabled bool) *Command {
	return newCommand("Page.setBypassCSP", map[string]any{"enabled": enabled})
}
