package pydoll

import (
	"context"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// Dialog access. The connection latches Page.javascriptDialogOpening as
// soon as it arrives because an unanswered dialog blocks all further CDP
// activity on the target; the tab only reads that slot.

// HasDialog reports whether a javascript dialog is currently open.
// Page events must be enabled for the browser to emit the opening event.
func (t *Tab) HasDialog() bool {
	return t.conn.HasDialog()
}

// GetDialogMessage returns the message of the open dialog.
func (t *Tab) GetDialogMessage() (string, error) {
	d, ok := t.conn.Dialog()
	if !ok {
		return "", ErrNoDialog
	}
	return d.Message, nil
}

// HandleDialog accepts or dismisses the open dialog. promptText is only
// meaningful for prompt dialogs when accepting.
func (t *Tab) HandleDialog(ctx context.Context, accept bool, promptText string) error {
	if !t.conn.HasDialog() {
		return ErrNoDialog
	}
	if _, err := t.execute(ctx, protocol.PageHandleJavaScriptDialog(accept, promptText)); err != nil {
		return err
	}
	t.conn.clearDialog()
	return nil
}
