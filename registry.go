package pydoll

import (
	"sync"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// commandRegistry correlates in-flight commands with their responses by id.
// The receive loop resolves entries; callers and the reconnect path cancel
// them.
type commandRegistry struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]chan *result
}

type result struct {
	msg *protocol.Message
	err error
}

func newCommandRegistry() *commandRegistry {
	return &commandRegistry{
		pending: make(map[uint64]chan *result),
	}
}

// create assigns the next id to cmd and registers a completion slot for it.
func (r *commandRegistry) create(cmd *protocol.Command) (uint64, chan *result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	cmd.ID = r.next
	ch := make(chan *result, 1)
	r.pending[cmd.ID] = ch
	return cmd.ID, ch
}

// resolve completes the slot for id with msg. Late responses to cancelled
// commands are dropped.
func (r *commandRegistry) resolve(id uint64, msg *protocol.Message) {
	r.mu.Lock()
	ch, ok := r.pending[id]
	delete(r.pending, id)
	r.mu.Unlock()
	if ok {
		ch <- &result{msg: msg}
	}
}

// cancel removes the slot for id, delivering err if the slot still existed.
func (r *commandRegistry) cancel(id uint64, err error) {
	r.mu.Lock()
	ch, ok := r.pending[id]
	delete(r.pending, id)
	r.mu.Unlock()
	if ok {
		ch <- &result{err: err}
	}
}

// cancelAll fails every in-flight command, used when the socket closes.
func (r *commandRegistry) cancelAll(err error) {
	r.mu.Lock()
	pending := r.pending
	r.pending = make(map[uint64]chan *result)
	r.mu.Unlock()
	for _, ch := range pending {
		ch <- &result{err: err}
	}
}

func (r *commandRegistry) inFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// EventCallback is invoked for each matching CDP event. Each invocation
// runs on its own goroutine so a slow callback cannot block the receive
// loop or other callbacks for the same event.
type EventCallback func(event *protocol.Message)

type callbackEntry struct {
	id      uint64
	event   string
	fn      EventCallback
	oneShot bool
}

// eventRegistry maps event names to ordered callback lists, with an id
// index for O(1) removal. Entries survive CDP domain disable/enable cycles;
// only explicit removal or ClearCallbacks drops them.
type eventRegistry struct {
	mu      sync.Mutex
	next    uint64
	byEvent map[string][]*callbackEntry
	byID    map[uint64]string
}

func newEventRegistry() *eventRegistry {
	return &eventRegistry{
		byEvent: make(map[string][]*callbackEntry),
		byID:    make(map[uint64]string),
	}
}

func (r *eventRegistry) register(event string, fn EventCallback, oneShot bool) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	e := &callbackEntry{id: r.next, event: event, fn: fn, oneShot: oneShot}
	r.byEvent[event] = append(r.byEvent[event], e)
	r.byID[e.id] = event
	return e.id
}

func (r *eventRegistry) remove(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	entries := r.byEvent[event]
	for i, e := range entries {
		if e.id == id {
			r.byEvent[event] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(r.byEvent[event]) == 0 {
		delete(r.byEvent, event)
	}
	return true
}

// drain returns the callbacks registered for event in registration order,
// removing one-shot entries before they are returned so a callback that
// re-subscribes observes a clean table.
func (r *eventRegistry) drain(event string) []*callbackEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.byEvent[event]
	if len(entries) == 0 {
		return nil
	}
	out := make([]*callbackEntry, len(entries))
	copy(out, entries)
	kept := entries[:0]
	for _, e := range entries {
		if e.oneShot {
			delete(r.byID, e.id)
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		delete(r.byEvent, event)
	} else {
		r.byEvent[event] = kept
	}
	return out
}

func (r *eventRegistry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEvent = make(map[string][]*callbackEntry)
	r.byID = make(map[uint64]string)
}

func (r *eventRegistry) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEvent[event])
}
