package pydoll

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// fakeCDP is an in-process DevTools endpoint: a websocket server that
// records every incoming frame and lets tests script responses and push
// events, so the connection layer is exercised without a browser.
type fakeCDP struct {
	t   *testing.T
	srv *httptest.Server
	url string

	handler func(s *fakeSession, msg *protocol.Message)

	mu       sync.Mutex
	frames   []string
	sessions []*fakeSession
	sessCh   chan *fakeSession
}

type fakeSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// send writes a JSON frame to the client.
func (s *fakeSession) send(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	s.conn.WriteMessage(websocket.TextMessage, data)
}

// respond answers a command with the given result object.
func (s *fakeSession) respond(id uint64, result any) {
	raw, _ := json.Marshal(result)
	s.send(map[string]any{"id": id, "result": json.RawMessage(raw)})
}

// respondError answers a command with a protocol error.
func (s *fakeSession) respondError(id uint64, code int64, message string) {
	s.send(map[string]any{"id": id, "error": map[string]any{"code": code, "message": message}})
}

// event pushes an event frame.
func (s *fakeSession) event(method string, params any) {
	raw, _ := json.Marshal(params)
	s.send(map[string]any{"method": method, "params": json.RawMessage(raw)})
}

func (s *fakeSession) close() {
	s.conn.Close()
}

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// newFakeCDP starts the endpoint. handler runs for every incoming
// command; a nil handler acknowledges everything with an empty result.
func newFakeCDP(t *testing.T, handler func(s *fakeSession, msg *protocol.Message)) *fakeCDP {
	t.Helper()
	f := &fakeCDP{
		t:       t,
		handler: handler,
		sessCh:  make(chan *fakeSession, 16),
	}
	if f.handler == nil {
		f.handler = func(s *fakeSession, msg *protocol.Message) {
			s.respond(msg.ID, map[string]any{})
		}
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	f.url = "ws" + strings.TrimPrefix(f.srv.URL, "http")
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCDP) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := testUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s := &fakeSession{conn: conn}
	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()
	select {
	case f.sessCh <- s:
	default:
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.frames = append(f.frames, string(data))
		f.mu.Unlock()

		msg := new(protocol.Message)
		if err := json.Unmarshal(data, msg); err != nil {
			continue
		}
		f.handler(s, msg)
	}
}

// session waits for a client to connect.
func (f *fakeCDP) session(t *testing.T) *fakeSession {
	t.Helper()
	select {
	case s := <-f.sessCh:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("no websocket session established")
		return nil
	}
}

// recordedFrames returns a copy of every raw frame received so far.
func (f *fakeCDP) recordedFrames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.frames...)
}

// countFrames counts received frames containing substr.
func (f *fakeCDP) countFrames(substr string) int {
	n := 0
	for _, fr := range f.recordedFrames() {
		if strings.Contains(fr, substr) {
			n++
		}
	}
	return n
}

// waitFor polls until cond is true or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}
