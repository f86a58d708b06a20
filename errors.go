package pydoll

import "fmt"

// Error is a pydoll error.
type Error string

// Error satisfies the error interface.
func (err Error) Error() string {
	return string(err)
}

// Error types.
const (
	// ErrBrowserBinaryNotFound is returned when no browser executable could
	// be located, either from the ExecPath option or the per-OS defaults.
	ErrBrowserBinaryNotFound Error = "browser binary not found"

	// ErrFailedToStartBrowser is returned when the DevTools endpoint does
	// not become reachable within the startup timeout.
	ErrFailedToStartBrowser Error = "failed to start browser"

	// ErrInvalidConnectionPort is the invalid debugging port error.
	ErrInvalidConnectionPort Error = "invalid connection port"

	// ErrConnectionClosed is returned for operations on a closed connection,
	// and delivered to commands that were in flight when the socket closed.
	ErrConnectionClosed Error = "connection closed"

	// ErrCommandTimeout is returned when a command's response did not
	// arrive within the caller's deadline, or within DefaultCommandTimeout
	// when the context carries none.
	ErrCommandTimeout Error = "command timed out"

	// ErrInvalidCommand is returned for commands without a method.
	ErrInvalidCommand Error = "invalid command"

	// ErrInvalidWebsocketMessage is returned for non-text frames on the
	// CDP socket.
	ErrInvalidWebsocketMessage Error = "invalid websocket message"

	// ErrTabClosed is returned for operations on a closed tab.
	ErrTabClosed Error = "tab closed"

	// ErrElementNotFound is the no matching element error.
	ErrElementNotFound Error = "element not found"

	// ErrWaitElementTimeout is returned when polling for an element did not
	// produce a match before the timeout elapsed.
	ErrWaitElementTimeout Error = "timed out waiting for element"

	// ErrInvalidSelector is the malformed selector or xpath error.
	ErrInvalidSelector Error = "invalid selector"

	// ErrElementNotVisible is the not visible error.
	ErrElementNotVisible Error = "element not visible"

	// ErrElementNotInteractable is the element not interactable error. No
	// operation in this package returns it: Click reports a hidden element
	// with ErrElementNotVisible and does not check for covering elements.
	ErrElementNotInteractable Error = "element not interactable"

	// ErrElementNotAFileInput is returned by SetInputFiles on elements that
	// are not <input type="file">.
	ErrElementNotAFileInput Error = "element is not a file input"

	// ErrInvalidFileExtension is the unknown screenshot extension error.
	ErrInvalidFileExtension Error = "invalid file extension"

	// ErrMissingScreenshotPath is returned when neither a path nor base64
	// output was requested.
	ErrMissingScreenshotPath Error = "missing screenshot path"

	// ErrTopLevelTargetRequired is returned when a capture is attempted on
	// a target that cannot produce one, notably iframe targets.
	ErrTopLevelTargetRequired Error = "operation requires a top-level target"

	// ErrInvalidPDFScale is returned for PrintToPDF scales outside
	// [0.1, 2.0]; out-of-range values are never transmitted.
	ErrInvalidPDFScale Error = "pdf scale must be in [0.1, 2.0]"

	// ErrIFrameHasNoSrc is returned by GetFrame for iframes without a
	// navigable src attribute (for example srcdoc frames).
	ErrIFrameHasNoSrc Error = "iframe has no src"

	// ErrIFrameTargetNotFound is returned when no target matches the
	// iframe's src URL.
	ErrIFrameTargetNotFound Error = "iframe target not found"

	// ErrProxyAuthenticationFailed is the rejected proxy credentials error.
	// No operation in this package returns it: the proxy auth handlers
	// answer the first challenge once and do not detect a rejection.
	ErrProxyAuthenticationFailed Error = "proxy authentication failed"

	// ErrDownloadTimeout is the download did not complete in time error.
	ErrDownloadTimeout Error = "download timed out"

	// ErrDownloadFailed is the download canceled or failed error.
	ErrDownloadFailed Error = "download failed"

	// ErrNoDialog is returned when reading dialog state while no
	// javascript dialog is open.
	ErrNoDialog Error = "no dialog present"

	// ErrBrowserNotStarted is returned for operations that need a running
	// browser process.
	ErrBrowserNotStarted Error = "browser not started"
)

// StartupError wraps a failure during Browser.Start with the phase that
// failed, so callers can tell a spawn failure from an endpoint one.
type StartupError struct {
	Phase string
	Err   error
}

// Error satisfies the error interface.
func (e *StartupError) Error() string {
	return fmt.Sprintf("browser startup failed during %s: %v", e.Phase, e.Err)
}

// Unwrap returns the underlying error.
func (e *StartupError) Unwrap() error {
	return e.Err
}
