package pydoll

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// readyStatePollInterval is how often navigation polls document.readyState.
const readyStatePollInterval = 100 * time.Millisecond

// Tab is the per-target facade. It owns its own connection to the
// target's page endpoint and drives navigation, script execution, element
// finding, event enablement, cookies, screenshots, PDFs, dialogs,
// downloads, and iframe access.
type Tab struct {
	locator

	browser          *Browser
	conn             *Connection
	targetID         string
	browserContextID string
	log              *logrus.Entry

	mu          sync.Mutex
	closed      bool
	pageOn      bool
	networkOn   bool
	domOn       bool
	fetchOn     bool
	runtimeOn   bool
	fileChooser bool

	netLog *networkLog
}

func newTab(b *Browser, conn *Connection, targetID, browserContextID string) *Tab {
	t := &Tab{
		browser:          b,
		conn:             conn,
		targetID:         targetID,
		browserContextID: browserContextID,
		log:              b.logger.WithField("category", "tab"),
		netLog:           newNetworkLog(),
	}
	t.locator = locator{conn: conn}
	return t
}

// TargetID returns the CDP target id this tab wraps.
func (t *Tab) TargetID() string {
	return t.targetID
}

// BrowserContextID returns the browser context the tab belongs to; empty
// for the default context.
func (t *Tab) BrowserContextID() string {
	return t.browserContextID
}

func (t *Tab) markClosed() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

func (t *Tab) checkOpen() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTabClosed
	}
	return nil
}

func (t *Tab) execute(ctx context.Context, cmd *protocol.Command) (*protocol.Message, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return t.conn.ExecuteCommand(ctx, cmd)
}

// GoTo navigates to urlstr and waits until document.readyState reports
// complete, bounded by ctx. Navigating to the page's current URL issues a
// reload instead so the call cannot silently no-op.
func (t *Tab) GoTo(ctx context.Context, urlstr string) error {
	current, err := t.CurrentURL(ctx)
	if err == nil && current == urlstr {
		return t.Refresh(ctx)
	}
	msg, err := t.execute(ctx, protocol.PageNavigate(urlstr))
	if err != nil {
		return err
	}
	var res protocol.NavigateResult
	if err := msg.UnmarshalResult(&res); err == nil && res.ErrorText != "" {
		return fmt.Errorf("navigate to %s: %s", urlstr, res.ErrorText)
	}
	return t.waitPageLoad(ctx)
}

// Refresh reloads the page and waits for readiness.
func (t *Tab) Refresh(ctx context.Context) error {
	if _, err := t.execute(ctx, protocol.PageReload(false)); err != nil {
		return err
	}
	return t.waitPageLoad(ctx)
}

func (t *Tab) waitPageLoad(ctx context.Context) error {
	ticker := time.NewTicker(readyStatePollInterval)
	defer ticker.Stop()
	for {
		obj, err := t.evaluate(ctx, "document.readyState", true)
		if err == nil {
			var state string
			if json.Unmarshal(obj.Value, &state) == nil && state == "complete" {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("page load: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// CurrentURL returns the URL of the current navigation history entry.
func (t *Tab) CurrentURL(ctx context.Context) (string, error) {
	msg, err := t.execute(ctx, protocol.PageGetNavigationHistory())
	if err != nil {
		return "", err
	}
	var res protocol.NavigationHistoryResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return "", err
	}
	if res.CurrentIndex < 0 || res.CurrentIndex >= len(res.Entries) {
		return "", fmt.Errorf("navigation history index out of range")
	}
	return res.Entries[res.CurrentIndex].URL, nil
}

// PageSource returns the full serialized HTML of the current document.
func (t *Tab) PageSource(ctx context.Context) (string, error) {
	msg, err := t.execute(ctx, protocol.DOMGetDocument())
	if err != nil {
		return "", err
	}
	var doc protocol.GetDocumentResult
	if err := msg.UnmarshalResult(&doc); err != nil {
		return "", err
	}
	msg, err = t.execute(ctx, protocol.DOMGetOuterHTML(doc.Root.NodeID))
	if err != nil {
		return "", err
	}
	var html protocol.GetOuterHTMLResult
	if err := msg.UnmarshalResult(&html); err != nil {
		return "", err
	}
	return html.OuterHTML, nil
}

func (t *Tab) evaluate(ctx context.Context, expression string, byValue bool) (*protocol.RemoteObject, error) {
	msg, err := t.execute(ctx, protocol.RuntimeEvaluate(expression, byValue))
	if err != nil {
		return nil, err
	}
	var res protocol.EvaluateResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return nil, err
	}
	if res.ExceptionDetails != nil {
		return nil, fmt.Errorf("script exception: %s", exceptionText(res.ExceptionDetails))
	}
	return &res.Result, nil
}

func exceptionText(d *protocol.ExceptionDetails) string {
	if d.Exception != nil && d.Exception.Description != "" {
		return d.Exception.Description
	}
	return d.Text
}

// ExecuteScript evaluates script in the page's global scope and returns
// the resulting remote object.
func (t *Tab) ExecuteScript(ctx context.Context, script string) (*protocol.RemoteObject, error) {
	return t.evaluate(ctx, script, true)
}

// ExecuteScriptOn runs script with el bound as this. Occurrences of the
// bareword "argument" are rewritten to "this" first; the substitution is
// lexically naive, so the word is replaced inside strings and comments
// too.
func (t *Tab) ExecuteScriptOn(ctx context.Context, script string, el *WebElement) (*protocol.RemoteObject, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return el.callFunction(ctx, wrapElementScript(script), true)
}

// argumentWordRE matches "argument" as a whole word only.
var argumentWordRE = regexp.MustCompile(`\bargument\b`)

// wrapElementScript rewrites "argument" to "this" and wraps bare
// statement bodies in a function declaration when the script is not one
// already.
func wrapElementScript(script string) string {
	script = argumentWordRE.ReplaceAllString(script, "this")
	trimmed := strings.TrimSpace(script)
	if strings.HasPrefix(trimmed, "function") || strings.HasPrefix(trimmed, "(") || strings.HasPrefix(trimmed, "async ") {
		return trimmed
	}
	return "function() { " + script + " }"
}

// GetCookies reads the cookies visible to this tab. Network.getCookies is
// used rather than Storage so incognito contexts behave.
func (t *Tab) GetCookies(ctx context.Context) ([]protocol.Cookie, error) {
	msg, err := t.execute(ctx, protocol.NetworkGetCookies())
	if err != nil {
		return nil, err
	}
	var res protocol.GetCookiesResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return nil, err
	}
	return res.Cookies, nil
}

// SetCookies sets cookies in this tab's browser context.
func (t *Tab) SetCookies(ctx context.Context, cookies []protocol.CookieParam) error {
	_, err := t.execute(ctx, protocol.NetworkSetCookies(cookies))
	return err
}

// DeleteAllCookies clears the cookies of this tab's browser context.
func (t *Tab) DeleteAllCookies(ctx context.Context) error {
	_, err := t.execute(ctx, protocol.NetworkClearBrowserCookies())
	return err
}

// ScreenshotOptions controls TakeScreenshot. Format is inferred from
// Path's extension when unset; .jpg is normalized to jpeg.
type ScreenshotOptions struct {
	Path           string
	AsBase64       bool
	Format         string
	Quality        int
	BeyondViewport bool
}

// TakeScreenshot captures the page and returns the image bytes, writing
// them to opts.Path when given. Capturing an iframe target fails with
// ErrTopLevelTargetRequired since the protocol cannot produce one there.
func (t *Tab) TakeScreenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	if opts.Path == "" && !opts.AsBase64 {
		return nil, ErrMissingScreenshotPath
	}
	format := opts.Format
	if format == "" && opts.Path != "" {
		var err error
		if format, err = formatFromExtension(opts.Path); err != nil {
			return nil, err
		}
	}
	if format == "" {
		format = "png"
	}
	quality := opts.Quality
	if quality == 0 {
		quality = 100
	}

	msg, err := t.execute(ctx, protocol.PageCaptureScreenshot(format, quality, nil, opts.BeyondViewport))
	if err != nil {
		return nil, err
	}
	var res protocol.CaptureResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return nil, err
	}
	if res.Data == "" {
		return nil, ErrTopLevelTargetRequired
	}
	data, err := base64.StdEncoding.DecodeString(res.Data)
	if err != nil {
		return nil, err
	}
	if opts.Path != "" {
		if err := os.WriteFile(opts.Path, data, 0o644); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// formatFromExtension maps a screenshot file extension onto the CDP
// format name.
func formatFromExtension(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".webp":
		return "webp", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFileExtension, filepath.Ext(path))
	}
}

// PDFOptions controls PrintToPDF. A zero Scale means the browser default;
// anything outside [0.1, 2.0] is rejected.
type PDFOptions struct {
	Path                string
	AsBase64            bool
	Landscape           bool
	DisplayHeaderFooter bool
	PrintBackground     bool
	Scale               float64
}

// PrintToPDF renders the page to PDF and returns the bytes, writing them
// to opts.Path when given.
func (t *Tab) PrintToPDF(ctx context.Context, opts PDFOptions) ([]byte, error) {
	if opts.Path == "" && !opts.AsBase64 {
		return nil, ErrMissingScreenshotPath
	}
	if opts.Scale != 0 && (opts.Scale < 0.1 || opts.Scale > 2.0) {
		return nil, ErrInvalidPDFScale
	}
	msg, err := t.execute(ctx, protocol.PagePrintToPDF(protocol.PrintToPDFParams{
		Landscape:           opts.Landscape,
		DisplayHeaderFooter: opts.DisplayHeaderFooter,
		PrintBackground:     opts.PrintBackground,
		Scale:               opts.Scale,
	}))
	if err != nil {
		return nil, err
	}
	var res protocol.CaptureResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(res.Data)
	if err != nil {
		return nil, err
	}
	if opts.Path != "" {
		if err := os.WriteFile(opts.Path, data, 0o644); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// GetFrame resolves the Tab driving the given iframe element. The iframe
// must have a navigable src; srcdoc frames are not addressable as targets.
func (t *Tab) GetFrame(ctx context.Context, iframe *WebElement) (*Tab, error) {
	src := iframe.Src()
	if src == "" {
		return nil, ErrIFrameHasNoSrc
	}
	targets, err := t.browser.GetTargets(ctx)
	if err != nil {
		return nil, err
	}
	for _, info := range targets {
		if info.URL == src {
			return t.browser.adoptTarget(ctx, info.TargetID, info.BrowserContextID)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrIFrameTargetNotFound, src)
}

// Activate brings the tab to the foreground.
func (t *Tab) Activate(ctx context.Context) error {
	conn, err := t.browser.connection()
	if err != nil {
		return err
	}
	_, err = conn.ExecuteCommand(ctx, protocol.TargetActivateTarget(t.targetID))
	return err
}

// Close closes the tab. Subsequent operations fail with ErrTabClosed.
func (t *Tab) Close(ctx context.Context) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if _, err := t.conn.ExecuteCommand(ctx, protocol.PageClose()); err != nil {
		return err
	}
	t.conn.Close()
	t.markClosed()
	t.browser.removeTab(t.targetID)
	return nil
}

// SetUserAgent overrides the tab's user agent for subsequent requests.
func (t *Tab) SetUserAgent(ctx context.Context, userAgent string) error {
	_, err := t.execute(ctx, protocol.EmulationSetUserAgentOverride(userAgent, "", ""))
	return err
}

// BypassCSP toggles Content-Security-Policy bypass for the page.
func (t *Tab) BypassCSP(ctx context.Context, enabled bool) error {
	_, err := t.execute(ctx, protocol.PageSetBypassCSP(enabled))
	return err
}
