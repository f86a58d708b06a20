package protocol

// Mouse event types.
const (
	MousePressed  = "mousePressed"
	MouseReleased = "mouseReleased"
	MouseMoved    = "mouseMoved"
)

// Key event types.
const (
	KeyDown    = "keyDown"
	KeyUp      = "keyUp"
	RawKeyDown = "rawKeyDown"
	KeyChar    = "char"
)

// DispatchMouseEventParams are the Input.dispatchMouseEvent params.
type DispatchMouseEventParams struct {
	Type       string  `json:"type"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Button     string  `json:"button,omitempty"`
	Buttons    int     `json:"buttons,omitempty"`
	ClickCount int     `json:"clickCount,omitempty"`
	Modifiers  int     `json:"modifiers,omitempty"`
}

// DispatchKeyEventParams are the Input.dispatchKeyEvent params.
type DispatchKeyEventParams struct {
	Type                  string `json:"type"`
	Modifiers             int    `json:"modifiers,omitempty"`
	Text                  string `json:"text,omitempty"`
	UnmodifiedText        string `json:"unmodifiedText,omitempty"`
	KeyIdentifier         string `json:"keyIdentifier,omitempty"`
	Code                  string `json:"code,omitempty"`
	Key                   string `json:"key,omitempty"`
	WindowsVirtualKeyCode int64  `json:"windowsVirtualKeyCode,omitempty"`
	NativeVirtualKeyCode  int64  `json:"nativeVirtualKeyCode,omitempty"`
	AutoRepeat            bool   `json:"autoRepeat,omitempty"`
	IsKeypad              bool   `json:"isKeypad,omitempty"`
	IsSystemKey           bool   `json:"isSystemKey,omitempty"`
}

// InputDispatchMouseEvent builds Input.dispatchMouseEvent.
func InputDispatchMouseEvent(params DispatchMouseEventParams) *Command {
	return newCommand("Input.dispatchMouseEvent", params)
}

// InputDispatchKeyEvent builds Input.dispatchKeyEvent.
func InputDispatchKeyEvent(params DispatchKeyEventParams) *Command {
	return newCommand("Input.dispatchKeyEvent", params)
}

// InputInsertText builds Input.insertText, which places text into the
// focused element in one shot without per-key events.
func InputInsertText(text string) *Command {
	return newCommand("Input.insertText", map[string]any{"text": text})
}
