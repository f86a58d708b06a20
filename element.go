package pydoll

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yie1d/pydoll-sub004/kb"
	"github.com/yie1d/pydoll-sub004/protocol"
)

// DefaultClickHoldTime separates the synthesized mouse press and release
// so timing-based bot detectors see a realistic sequence.
const DefaultClickHoldTime = 100 * time.Millisecond

// Bounds is an element's position and size in page coordinates.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// WebElement is a handle to a remote DOM element: a CDP object id on the
// connection that produced it, plus the attributes captured at discovery.
// It embeds the locator, so Find and Query run relative to the element.
//
// The handle stays valid until the tab navigates away from the element's
// document or closes. Object ids are meaningless on any other connection.
type WebElement struct {
	locator

	objectID string
	attrs    map[string]string
	by       By
	selector string
}

// newWebElement parses the flat [name1, value1, ...] attribute list
// captured at discovery. The class attribute is stored under class_name.
func newWebElement(conn *Connection, objectID string, by By, selector string, attrList []string) *WebElement {
	attrs := make(map[string]string, len(attrList)/2)
	for i := 0; i+1 < len(attrList); i += 2 {
		name := attrList[i]
		if name == "class" {
			name = "class_name"
		}
		attrs[name] = attrList[i+1]
	}
	return &WebElement{
		locator:  locator{conn: conn, objectID: objectID},
		objectID: objectID,
		attrs:    attrs,
		by:       by,
		selector: selector,
	}
}

// ObjectID returns the CDP remote object id backing this handle.
func (e *WebElement) ObjectID() string {
	return e.objectID
}

// Attribute returns a cached attribute captured at discovery.
func (e *WebElement) Attribute(name string) (string, bool) {
	if name == "class" {
		name = "class_name"
	}
	v, ok := e.attrs[name]
	return v, ok
}

// ID returns the cached id attribute.
func (e *WebElement) ID() string { return e.attrs["id"] }

// ClassName returns the cached class attribute.
func (e *WebElement) ClassName() string { return e.attrs["class_name"] }

// Class is an alias for ClassName.
func (e *WebElement) Class() string { return e.ClassName() }

// TagName returns the element's lowercased tag name.
func (e *WebElement) TagName() string { return e.attrs["tag_name"] }

// Name returns the cached name attribute.
func (e *WebElement) Name() string { return e.attrs["name"] }

// Value returns the cached value attribute.
func (e *WebElement) Value() string { return e.attrs["value"] }

// Type returns the cached type attribute.
func (e *WebElement) Type() string { return e.attrs["type"] }

// Href returns the cached href attribute.
func (e *WebElement) Href() string { return e.attrs["href"] }

// Src returns the cached src attribute.
func (e *WebElement) Src() string { return e.attrs["src"] }

// IsEnabled reports whether the element carried no disabled attribute at
// discovery.
func (e *WebElement) IsEnabled() bool {
	_, disabled := e.attrs["disabled"]
	return !disabled
}

// callFunction runs a function declaration with the element bound as
// this.
func (e *WebElement) callFunction(ctx context.Context, decl string, byValue bool, args ...protocol.CallArgument) (*protocol.RemoteObject, error) {
	msg, err := e.conn.ExecuteCommand(ctx, protocol.RuntimeCallFunctionOn(e.objectID, decl, byValue, args...))
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

func (e *WebElement) callBool(ctx context.Context, decl string) (bool, error) {
	obj, err := e.callFunction(ctx, decl, true)
	if err != nil {
		return false, err
	}
	var v bool
	if obj.Value != nil {
		if err := json.Unmarshal(obj.Value, &v); err != nil {
			return false, err
		}
	}
	return v, nil
}

// OuterHTML returns the element's live serialized HTML.
func (e *WebElement) OuterHTML(ctx context.Context) (string, error) {
	msg, err := e.conn.ExecuteCommand(ctx, protocol.DOMGetOuterHTMLByObjectID(e.objectID))
	if err != nil {
		return "", err
	}
	var res protocol.GetOuterHTMLResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return "", err
	}
	return res.OuterHTML, nil
}

// InnerHTML returns the element's live inner HTML.
func (e *WebElement) InnerHTML(ctx context.Context) (string, error) {
	obj, err := e.callFunction(ctx, `function() { return this.innerHTML; }`, true)
	if err != nil {
		return "", err
	}
	var s string
	if obj.Value != nil {
		if err := json.Unmarshal(obj.Value, &s); err != nil {
			return "", err
		}
	}
	return s, nil
}

// Text returns the element's visible text content with whitespace
// normalized: the outer HTML is fetched and parsed, scripts and styles
// stripped.
func (e *WebElement) Text(ctx context.Context) (string, error) {
	html, err := e.OuterHTML(ctx)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// GetAttribute reads an attribute's live value.
func (e *WebElement) GetAttribute(ctx context.Context, name string) (string, error) {
	obj, err := e.callFunction(ctx, `function(n) { return this.getAttribute(n); }`, true,
		protocol.CallArgument{Value: name})
	if err != nil {
		return "", err
	}
	if obj.Value == nil {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(obj.Value, &s); err != nil {
		return "", err
	}
	return s, nil
}

// SetAttribute sets an attribute, dispatching input and change events
// when the value property is touched so framework listeners fire.
func (e *WebElement) SetAttribute(ctx context.Context, name, value string) error {
	_, err := e.callFunction(ctx, setAttributeFn, true,
		protocol.CallArgument{Value: name},
		protocol.CallArgument{Value: value})
	return err
}

// Bounds returns the element's box in page coordinates via
// DOM.getBoxModel, falling back to getBoundingClientRect when the box
// model is refused (elements inside iframes, display: contents).
func (e *WebElement) Bounds(ctx context.Context) (Bounds, error) {
	msg, err := e.conn.ExecuteCommand(ctx, protocol.DOMGetBoxModel(e.objectID))
	if err == nil {
		var res protocol.GetBoxModelResult
		if err := msg.UnmarshalResult(&res); err == nil && len(res.Model.Content) >= 2 {
			return Bounds{
				X:      res.Model.Content[0],
				Y:      res.Model.Content[1],
				Width:  res.Model.Width,
				Height: res.Model.Height,
			}, nil
		}
	}
	return e.boundsViaJS(ctx)
}

func (e *WebElement) boundsViaJS(ctx context.Context) (Bounds, error) {
	obj, err := e.callFunction(ctx, clientRectFn, true)
	if err != nil {
		return Bounds{}, err
	}
	if obj.Value == nil {
		return Bounds{}, fmt.Errorf("element has no client rect")
	}
	var raw struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.Unmarshal(obj.Value, &raw); err != nil {
		return Bounds{}, err
	}
	return Bounds{X: raw.X, Y: raw.Y, Width: raw.Width, Height: raw.Height}, nil
}

// ClickOption configures Click.
type ClickOption func(*clickOptions)

type clickOptions struct {
	xOffset  float64
	yOffset  float64
	holdTime time.Duration
}

// ClickOffset clicks at an offset from the element's center.
func ClickOffset(x, y float64) ClickOption {
	return func(o *clickOptions) { o.xOffset, o.yOffset = x, y }
}

// ClickHold overrides the press/release separation.
func ClickHold(d time.Duration) ClickOption {
	return func(o *clickOptions) { o.holdTime = d }
}

// Click performs a realistic click: scroll into view, then a mouse press
// and release at the element's center. Option elements are selected via
// script instead, since real mouse events do not work on them. Invisible
// elements fail with ErrElementNotVisible.
func (e *WebElement) Click(ctx context.Context, opts ...ClickOption) error {
	o := &clickOptions{holdTime: DefaultClickHoldTime}
	for _, opt := range opts {
		opt(o)
	}

	if e.TagName() == "option" {
		return e.clickOptionTag(ctx)
	}

	visible, err := e.IsVisible(ctx)
	if err != nil {
		return err
	}
	if !visible {
		return ErrElementNotVisible
	}

	if err := e.ScrollIntoView(ctx); err != nil {
		return err
	}
	bounds, err := e.Bounds(ctx)
	if err != nil {
		return err
	}
	x := bounds.X + bounds.Width/2 + o.xOffset
	y := bounds.Y + bounds.Height/2 + o.yOffset

	// Two events rather than a single synthetic click, so the press and
	// release are separately timed.
	if _, err := e.conn.ExecuteCommand(ctx, protocol.InputDispatchMouseEvent(protocol.DispatchMouseEventParams{
		Type: protocol.MousePressed, X: x, Y: y, Button: "left", ClickCount: 1,
	})); err != nil {
		return err
	}
	select {
	case <-time.After(o.holdTime):
	case <-ctx.Done():
		return ctx.Err()
	}
	_, err = e.conn.ExecuteCommand(ctx, protocol.InputDispatchMouseEvent(protocol.DispatchMouseEventParams{
		Type: protocol.MouseReleased, X: x, Y: y, Button: "left", ClickCount: 1,
	}))
	return err
}

// clickOptionTag selects an option element and fires a change event on
// its select parent.
func (e *WebElement) clickOptionTag(ctx context.Context) error {
	_, err := e.callFunction(ctx, clickOptionFn, true)
	return err
}

// ClickUsingJS clicks via the element's own click() method. It works on
// covered or invisible elements but dispatches no synthetic mouse events,
// so sites inspecting the event sequence can tell.
func (e *WebElement) ClickUsingJS(ctx context.Context) error {
	_, err := e.callFunction(ctx, `function() { this.click(); }`, true)
	return err
}

// TypeText sends text as individual key events, waiting interval between
// keystrokes. The delay is fixed; realistic jitter is up to the caller.
func (e *WebElement) TypeText(ctx context.Context, text string, interval time.Duration) error {
	if err := e.focus(ctx); err != nil {
		return err
	}
	for i, r := range text {
		if i > 0 && interval > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		key, ok := kb.ForRune(r)
		if !ok {
			key = kb.Key{Key: string(r), Text: string(r), Unmodified: string(r), Print: true}
		}
		if err := e.dispatchKey(ctx, protocol.KeyDown, key, 0); err != nil {
			return err
		}
		if err := e.dispatchKey(ctx, protocol.KeyUp, key, 0); err != nil {
			return err
		}
	}
	return nil
}

// InsertText places text into the focused element in a single protocol
// call; faster than TypeText but with no per-key events.
func (e *WebElement) InsertText(ctx context.Context, text string) error {
	if err := e.focus(ctx); err != nil {
		return err
	}
	_, err := e.conn.ExecuteCommand(ctx, protocol.InputInsertText(text))
	return err
}

func (e *WebElement) focus(ctx context.Context) error {
	_, err := e.callFunction(ctx, `function() { this.focus(); }`, true)
	return err
}

// PressKeyboardKey sends a named key (Enter, Tab, Escape, ArrowDown, F5,
// ...) as a down/up pair with the given modifier bits.
func (e *WebElement) PressKeyboardKey(ctx context.Context, name string, modifiers int) error {
	key, ok := kb.Keys[name]
	if !ok {
		return fmt.Errorf("unknown key %q", name)
	}
	if err := e.focus(ctx); err != nil {
		return err
	}
	if err := e.dispatchKey(ctx, protocol.KeyDown, key, modifiers); err != nil {
		return err
	}
	return e.dispatchKey(ctx, protocol.KeyUp, key, modifiers)
}

// KeyDown sends a bare key-down, for manual modifier sequences like
// Ctrl+A.
func (e *WebElement) KeyDown(ctx context.Context, key kb.Key, modifiers int) error {
	return e.dispatchKey(ctx, protocol.KeyDown, key, modifiers)
}

// KeyUp releases a key previously sent with KeyDown.
func (e *WebElement) KeyUp(ctx context.Context, key kb.Key, modifiers int) error {
	return e.dispatchKey(ctx, protocol.KeyUp, key, modifiers)
}

func (e *WebElement) dispatchKey(ctx context.Context, typ string, key kb.Key, modifiers int) error {
	p := protocol.DispatchKeyEventParams{
		Type:                  typ,
		Modifiers:             modifiers,
		Code:                  key.Code,
		Key:                   key.Key,
		WindowsVirtualKeyCode: key.Windows,
		NativeVirtualKeyCode:  key.Native,
	}
	if typ == protocol.KeyDown && key.Print {
		p.Text = key.Text
		p.UnmodifiedText = key.Unmodified
	}
	_, err := e.conn.ExecuteCommand(ctx, protocol.InputDispatchKeyEvent(p))
	return err
}

// SetInputFiles attaches one or more files to an input[type=file]
// element.
func (e *WebElement) SetInputFiles(ctx context.Context, files ...string) error {
	if e.TagName() != "input" || e.Type() != "file" {
		return ErrElementNotAFileInput
	}
	normalized, err := normalizeFiles(files)
	if err != nil {
		return err
	}
	_, err = e.conn.ExecuteCommand(ctx, protocol.DOMSetFileInputFiles(e.objectID, normalized))
	return err
}

// ScrollIntoView scrolls the element into the viewport if needed.
func (e *WebElement) ScrollIntoView(ctx context.Context) error {
	_, err := e.callFunction(ctx, `function() { this.scrollIntoViewIfNeeded ? this.scrollIntoViewIfNeeded() : this.scrollIntoView(); }`, true)
	return err
}

// IsVisible reports whether the element occupies layout space and is not
// display: none.
func (e *WebElement) IsVisible(ctx context.Context) (bool, error) {
	return e.callBool(ctx, visibleFn)
}

// IsOnTop reports whether the hit target at the element's own center is
// the element itself or one of its descendants.
func (e *WebElement) IsOnTop(ctx context.Context) (bool, error) {
	return e.callBool(ctx, onTopFn)
}

// IsInteractable reports whether the element is both visible and on top.
func (e *WebElement) IsInteractable(ctx context.Context) (bool, error) {
	visible, err := e.IsVisible(ctx)
	if err != nil || !visible {
		return false, err
	}
	return e.IsOnTop(ctx)
}

// TakeScreenshot captures just this element. The image is always JPEG:
// the capture uses the protocol's clip option, and that path is fixed to
// JPEG here. Quality runs 1-100.
func (e *WebElement) TakeScreenshot(ctx context.Context, path string, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = 100
	}
	// Bounds via the client rect; getBoxModel refuses some elements the
	// rect handles fine.
	bounds, err := e.boundsViaJS(ctx)
	if err != nil {
		return nil, err
	}
	clip := &protocol.Viewport{
		X:      bounds.X,
		Y:      bounds.Y,
		Width:  bounds.Width,
		Height: bounds.Height,
		Scale:  1,
	}
	msg, err := e.conn.ExecuteCommand(ctx, protocol.PageCaptureScreenshot("jpeg", quality, clip, false))
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
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// JavaScript snippets for element state and interaction.
const (
	visibleFn = `function() {
		if (!(this.offsetWidth > 0 && this.offsetHeight > 0)) return false;
		return getComputedStyle(this).display !== "none";
	}`

	onTopFn = `function() {
		const r = this.getBoundingClientRect();
		const el = document.elementFromPoint(r.left + r.width / 2, r.top + r.height / 2);
		return el === this || this.contains(el);
	}`

	clientRectFn = `function() {
		const e = this.getBoundingClientRect(),
		t = this.ownerDocument.documentElement.getBoundingClientRect();
		return {
			x: e.left - t.left,
			y: e.top - t.top,
			width: e.width,
			height: e.height,
		};
	}`

	clickOptionFn = `function() {
		this.selected = true;
		const select = this.closest("select");
		if (select) {
			select.dispatchEvent(new Event("input", { bubbles: true }));
			select.dispatchEvent(new Event("change", { bubbles: true }));
		}
	}`

	setAttributeFn = `function(n, v) {
		this.setAttribute(n, v);
		if (n === "value") {
			this.value = v;
			this.dispatchEvent(new Event("input", { bubbles: true }));
			this.dispatchEvent(new Event("change", { bubbles: true }));
		}
		return this.getAttribute(n);
	}`
)
