package pydoll

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// DownloadScope is the scoped acquisition returned by ExpectDownload. It
// tracks one download from Browser.downloadWillBegin to completion and
// guarantees cleanup on Close.
type DownloadScope struct {
	tab     *Tab
	dir     string
	tempDir bool

	mu     sync.Mutex
	guid   string
	done   chan struct{}
	failed bool

	beginID    uint64
	progressID uint64
}

// ExpectDownload prepares the browser to capture the next download
// triggered from this tab's context. Downloads are configured per browser
// context, not per tab, so behavior is set at the browser. Files land in
// keepFileAt, or in a temporary directory removed at Close when keepFileAt
// is empty.
func (t *Tab) ExpectDownload(ctx context.Context, keepFileAt string) (*DownloadScope, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}

	dir := keepFileAt
	temp := false
	if dir == "" {
		var err error
		dir, err = os.MkdirTemp("", "pydoll-download-"+uuid.NewString()[:8])
		if err != nil {
			return nil, err
		}
		temp = true
	}

	s := &DownloadScope{
		tab:     t,
		dir:     dir,
		tempDir: temp,
		done:    make(chan struct{}),
	}

	// Downloads are named by their guid so the file path is known before
	// the download finishes.
	if err := t.browser.SetDownloadBehavior(ctx, "allowAndName", dir, t.browserContextID, true); err != nil {
		s.cleanupDir()
		return nil, err
	}

	beginID, err := t.browser.On(protocol.EventBrowserDownloadWillBegin, func(ev *protocol.Message) {
		p := new(protocol.DownloadWillBegin)
		if ev.UnmarshalParams(p) != nil {
			return
		}
		s.mu.Lock()
		if s.guid == "" {
			s.guid = p.GUID
		}
		s.mu.Unlock()
	}, false)
	if err != nil {
		s.cleanupDir()
		return nil, err
	}
	s.beginID = beginID

	progressID, err := t.browser.On(protocol.EventBrowserDownloadProgress, func(ev *protocol.Message) {
		p := new(protocol.DownloadProgress)
		if ev.UnmarshalParams(p) != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.guid != "" && p.GUID != s.guid {
			return
		}
		switch p.State {
		case "completed":
			s.closeDone()
		case "canceled":
			s.failed = true
			s.closeDone()
		}
	}, false)
	if err != nil {
		t.browser.RemoveCallback(beginID)
		s.cleanupDir()
		return nil, err
	}
	s.progressID = progressID

	return s, nil
}

// closeDone is called with s.mu held.
func (s *DownloadScope) closeDone() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// Wait blocks until the download completes, fails, or ctx expires.
func (s *DownloadScope) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		s.mu.Lock()
		failed := s.failed
		s.mu.Unlock()
		if failed {
			return ErrDownloadFailed
		}
		return nil
	case <-ctx.Done():
		return ErrDownloadTimeout
	}
}

// FilePath returns where the downloaded file lives. Empty until the
// download began.
func (s *DownloadScope) FilePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.guid == "" {
		return ""
	}
	return filepath.Join(s.dir, s.guid)
}

// Bytes waits for completion and reads the downloaded file.
func (s *DownloadScope) Bytes(ctx context.Context) ([]byte, error) {
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}
	path := s.FilePath()
	if path == "" {
		return nil, ErrDownloadFailed
	}
	return os.ReadFile(path)
}

// Close restores the default download behavior, removes the event
// subscriptions, and deletes the temporary directory if one was created.
func (s *DownloadScope) Close(ctx context.Context) error {
	s.tab.browser.RemoveCallback(s.beginID)
	s.tab.browser.RemoveCallback(s.progressID)
	err := s.tab.browser.SetDownloadBehavior(ctx, "default", "", s.tab.browserContextID, false)
	s.cleanupDir()
	return err
}

func (s *DownloadScope) cleanupDir() {
	if s.tempDir && s.dir != "" {
		os.RemoveAll(s.dir)
		s.dir = ""
	}
}
