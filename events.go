package pydoll

import (
	"context"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// Event enablement. Each CDP domain emits events only once enabled; the
// tab tracks what is on so re-enabling is a no-op and disable only fires
// when the domain was actually enabled. Registered callbacks are kept
// across disable/enable cycles.

// EnablePageEvents enables the Page domain.
func (t *Tab) EnablePageEvents(ctx context.Context) error {
	t.mu.Lock()
	if t.pageOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.PageEnable()); err != nil {
		return err
	}
	t.mu.Lock()
	t.pageOn = true
	t.mu.Unlock()
	return nil
}

// DisablePageEvents disables the Page domain.
func (t *Tab) DisablePageEvents(ctx context.Context) error {
	t.mu.Lock()
	if !t.pageOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.PageDisable()); err != nil {
		return err
	}
	t.mu.Lock()
	t.pageOn = false
	t.mu.Unlock()
	return nil
}

// EnableNetworkEvents enables the Network domain and starts recording
// request/response events into the tab's bounded network log.
func (t *Tab) EnableNetworkEvents(ctx context.Context) error {
	t.mu.Lock()
	if t.networkOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.NetworkEnable()); err != nil {
		return err
	}
	t.subscribeNetworkLog()
	t.mu.Lock()
	t.networkOn = true
	t.mu.Unlock()
	return nil
}

// DisableNetworkEvents disables the Network domain. The recorded log is
// kept until the tab goes away.
func (t *Tab) DisableNetworkEvents(ctx context.Context) error {
	t.mu.Lock()
	if !t.networkOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.NetworkDisable()); err != nil {
		return err
	}
	t.unsubscribeNetworkLog()
	t.mu.Lock()
	t.networkOn = false
	t.mu.Unlock()
	return nil
}

// EnableDOMEvents enables the DOM domain.
func (t *Tab) EnableDOMEvents(ctx context.Context) error {
	t.mu.Lock()
	if t.domOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.DOMEnable()); err != nil {
		return err
	}
	t.mu.Lock()
	t.domOn = true
	t.mu.Unlock()
	return nil
}

// DisableDOMEvents disables the DOM domain.
func (t *Tab) DisableDOMEvents(ctx context.Context) error {
	t.mu.Lock()
	if !t.domOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.DOMDisable()); err != nil {
		return err
	}
	t.mu.Lock()
	t.domOn = false
	t.mu.Unlock()
	return nil
}

// EnableRuntimeEvents enables the Runtime domain.
func (t *Tab) EnableRuntimeEvents(ctx context.Context) error {
	t.mu.Lock()
	if t.runtimeOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.RuntimeEnable()); err != nil {
		return err
	}
	t.mu.Lock()
	t.runtimeOn = true
	t.mu.Unlock()
	return nil
}

// DisableRuntimeEvents disables the Runtime domain.
func (t *Tab) DisableRuntimeEvents(ctx context.Context) error {
	t.mu.Lock()
	if !t.runtimeOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.RuntimeDisable()); err != nil {
		return err
	}
	t.mu.Lock()
	t.runtimeOn = false
	t.mu.Unlock()
	return nil
}

// EnableFetchEvents enables the Fetch domain on this tab's connection.
// Callers typically register a Fetch.requestPaused callback next and
// answer with FetchContinueRequest, FetchFulfillRequest, or
// FetchFailRequest commands.
func (t *Tab) EnableFetchEvents(ctx context.Context, handleAuth bool, patterns ...protocol.RequestPattern) error {
	t.mu.Lock()
	if t.fetchOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.FetchEnable(handleAuth, patterns...)); err != nil {
		return err
	}
	t.mu.Lock()
	t.fetchOn = true
	t.mu.Unlock()
	return nil
}

// DisableFetchEvents disables the Fetch domain on this tab's connection.
func (t *Tab) DisableFetchEvents(ctx context.Context) error {
	t.mu.Lock()
	if !t.fetchOn {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.FetchDisable()); err != nil {
		return err
	}
	t.mu.Lock()
	t.fetchOn = false
	t.mu.Unlock()
	return nil
}

// EnableInterceptFileChooserDialog makes the page report file chooser
// openings instead of showing native dialogs.
func (t *Tab) EnableInterceptFileChooserDialog(ctx context.Context) error {
	t.mu.Lock()
	if t.fileChooser {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.PageSetInterceptFileChooserDialog(true)); err != nil {
		return err
	}
	t.mu.Lock()
	t.fileChooser = true
	t.mu.Unlock()
	return nil
}

// DisableInterceptFileChooserDialog restores native file chooser dialogs.
func (t *Tab) DisableInterceptFileChooserDialog(ctx context.Context) error {
	t.mu.Lock()
	if !t.fileChooser {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()
	if _, err := t.execute(ctx, protocol.PageSetInterceptFileChooserDialog(false)); err != nil {
		return err
	}
	t.mu.Lock()
	t.fileChooser = false
	t.mu.Unlock()
	return nil
}

// On subscribes fn to a CDP event on this tab. Each invocation runs on
// its own goroutine, so a slow handler cannot delay other handlers for
// the same event. The returned id is usable with RemoveCallback.
func (t *Tab) On(event string, fn EventCallback, oneShot bool) (uint64, error) {
	if err := t.checkOpen(); err != nil {
		return 0, err
	}
	return t.conn.RegisterCallback(event, fn, oneShot)
}

// RemoveCallback removes a tab callback by id.
func (t *Tab) RemoveCallback(id uint64) bool {
	return t.conn.RemoveCallback(id)
}

// FileChooserScope is the scoped state installed by ExpectFileChooser.
type FileChooserScope struct {
	tab        *Tab
	restorePage    bool
	restoreChooser bool
	callbackID uint64
	done       chan struct{}
}

// ExpectFileChooser arranges for the next file chooser opened by the page
// to be answered with the given files. It enables Page events and chooser
// interception, registers a one-shot handler, and returns a scope whose
// Close restores the previous enablement state.
func (t *Tab) ExpectFileChooser(ctx context.Context, files ...string) (*FileChooserScope, error) {
	files, err := normalizeFiles(files)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	pageWasOn, chooserWasOn := t.pageOn, t.fileChooser
	t.mu.Unlock()

	if err := t.EnablePageEvents(ctx); err != nil {
		return nil, err
	}
	if err := t.EnableInterceptFileChooserDialog(ctx); err != nil {
		return nil, err
	}

	scope := &FileChooserScope{
		tab:            t,
		restorePage:    !pageWasOn,
		restoreChooser: !chooserWasOn,
		done:           make(chan struct{}),
	}
	id, err := t.On(protocol.EventPageFileChooserOpened, func(ev *protocol.Message) {
		defer close(scope.done)
		if _, err := t.conn.ExecuteCommand(context.Background(), protocol.PageHandleFileChooser(files)); err != nil {
			t.log.WithError(err).Warn("handleFileChooser failed")
		}
	}, true)
	if err != nil {
		return nil, err
	}
	scope.callbackID = id
	return scope, nil
}

// Wait blocks until the chooser was answered or ctx expires.
func (s *FileChooserScope) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close removes the handler if it never fired and restores the previous
// Page/interception enablement.
func (s *FileChooserScope) Close(ctx context.Context) error {
	s.tab.RemoveCallback(s.callbackID)
	var firstErr error
	if s.restoreChooser {
		firstErr = s.tab.DisableInterceptFileChooserDialog(ctx)
	}
	if s.restorePage {
		if err := s.tab.DisablePageEvents(ctx); firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// normalizeFiles accepts one or many paths and resolves them to absolute
// form, the shape DOM.setFileInputFiles and Page.handleFileChooser expect.
func normalizeFiles(files []string) ([]string, error) {
	if len(files) == 0 {
		return nil, Error("no files given")
	}
	out := make([]string, len(files))
	for i, f := range files {
		abs, err := absPath(f)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}
	return out, nil
}
