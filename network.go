package pydoll

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/yie1d/pydoll-sub004/protocol"
)

const (
	// networkLogCapacity bounds the per-tab ring of recorded network
	// events.
	networkLogCapacity = 1000

	// responseBodyCacheCapacity bounds the per-tab response body cache.
	responseBodyCacheCapacity = 50
)

// NetworkEvent is one recorded entry of the tab's network log.
type NetworkEvent struct {
	RequestID string
	URL       string
	Method    string
	Type      string
	Status    int64
	Finished  bool
	Failed    bool
	ErrorText string
}

// networkLog buffers a bounded ring of recent network events, keyed for
// update by request id.
type networkLog struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*NetworkEvent

	callbackIDs []uint64

	bodies *bodyCache
}

func newNetworkLog() *networkLog {
	return &networkLog{
		entries: make(map[string]*NetworkEvent),
		bodies:  newBodyCache(responseBodyCacheCapacity),
	}
}

func (l *networkLog) requestWillBeSent(p *protocol.RequestWillBeSent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[p.RequestID]; !ok {
		l.order = append(l.order, p.RequestID)
		if len(l.order) > networkLogCapacity {
			evicted := l.order[0]
			l.order = l.order[1:]
			delete(l.entries, evicted)
		}
	}
	l.entries[p.RequestID] = &NetworkEvent{
		RequestID: p.RequestID,
		URL:       p.Request.URL,
		Method:    p.Request.Method,
		Type:      p.Type,
	}
}

func (l *networkLog) responseReceived(p *protocol.ResponseReceived) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[p.RequestID]; ok {
		e.Status = p.Response.Status
	}
}

func (l *networkLog) loadingFinished(p *protocol.LoadingFinished) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[p.RequestID]; ok {
		e.Finished = true
	}
}

func (l *networkLog) loadingFailed(p *protocol.LoadingFailed) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[p.RequestID]; ok {
		e.Failed = true
		e.ErrorText = p.ErrorText
	}
}

// filter returns entries whose URL contains substr, oldest first.
func (l *networkLog) filter(substr string) []NetworkEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]NetworkEvent, 0, len(l.order))
	for _, id := range l.order {
		e, ok := l.entries[id]
		if !ok {
			continue
		}
		if substr == "" || strings.Contains(e.URL, substr) {
			out = append(out, *e)
		}
	}
	return out
}

// bodyCache is a small LRU of response bodies keyed by request id.
type bodyCache struct {
	mu    sync.Mutex
	cap   int
	order []string
	data  map[string][]byte
}

func newBodyCache(capacity int) *bodyCache {
	return &bodyCache{
		cap:  capacity,
		data: make(map[string][]byte),
	}
}

func (c *bodyCache) get(requestID string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.data[requestID]
	if !ok {
		return nil, false
	}
	c.touch(requestID)
	return body, true
}

func (c *bodyCache) put(requestID string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[requestID]; !ok {
		c.order = append(c.order, requestID)
		if len(c.order) > c.cap {
			evicted := c.order[0]
			c.order = c.order[1:]
			delete(c.data, evicted)
		}
	} else {
		c.touch(requestID)
	}
	c.data[requestID] = body
}

func (c *bodyCache) touch(requestID string) {
	for i, id := range c.order {
		if id == requestID {
			c.order = append(append(c.order[:i:i], c.order[i+1:]...), requestID)
			return
		}
	}
}

// subscribeNetworkLog registers the four Network event recorders on the
// tab's connection.
func (t *Tab) subscribeNetworkLog() {
	sub := func(event string, fn EventCallback) {
		if id, err := t.conn.RegisterCallback(event, fn, false); err == nil {
			t.netLog.callbackIDs = append(t.netLog.callbackIDs, id)
		}
	}
	sub(protocol.EventNetworkRequestWillBeSent, func(ev *protocol.Message) {
		p := new(protocol.RequestWillBeSent)
		if ev.UnmarshalParams(p) == nil {
			t.netLog.requestWillBeSent(p)
		}
	})
	sub(protocol.EventNetworkResponseReceived, func(ev *protocol.Message) {
		p := new(protocol.ResponseReceived)
		if ev.UnmarshalParams(p) == nil {
			t.netLog.responseReceived(p)
		}
	})
	sub(protocol.EventNetworkLoadingFinished, func(ev *protocol.Message) {
		p := new(protocol.LoadingFinished)
		if ev.UnmarshalParams(p) == nil {
			t.netLog.loadingFinished(p)
		}
	})
	sub(protocol.EventNetworkLoadingFailed, func(ev *protocol.Message) {
		p := new(protocol.LoadingFailed)
		if ev.UnmarshalParams(p) == nil {
			t.netLog.loadingFailed(p)
		}
	})
}

func (t *Tab) unsubscribeNetworkLog() {
	for _, id := range t.netLog.callbackIDs {
		t.conn.RemoveCallback(id)
	}
	t.netLog.callbackIDs = nil
}

// GetNetworkLogs returns recorded network events whose URL contains
// filter; an empty filter returns everything. EnableNetworkEvents must
// have been called for events to be recorded.
func (t *Tab) GetNetworkLogs(filter string) []NetworkEvent {
	return t.netLog.filter(filter)
}

// GetNetworkResponseBody fetches the body for a recorded request. The
// browser discards bodies quickly; call this within roughly thirty
// seconds of the response or it may be gone.
func (t *Tab) GetNetworkResponseBody(ctx context.Context, requestID string) ([]byte, error) {
	if body, ok := t.netLog.bodies.get(requestID); ok {
		return body, nil
	}
	msg, err := t.execute(ctx, protocol.NetworkGetResponseBody(requestID))
	if err != nil {
		return nil, err
	}
	var res protocol.GetResponseBodyResult
	if err := msg.UnmarshalResult(&res); err != nil {
		return nil, err
	}
	body := []byte(res.Body)
	if res.Base64Encoded {
		if body, err = base64.StdEncoding.DecodeString(res.Body); err != nil {
			return nil, err
		}
	}
	t.netLog.bodies.put(requestID, body)
	return body, nil
}
