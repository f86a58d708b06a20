package pydoll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// DefaultCommandTimeout bounds ExecuteCommand when the caller's context
// carries no deadline.
var DefaultCommandTimeout = 10 * time.Second

// Connection owns a single CDP websocket: it multiplexes request/response
// commands and the asynchronous event stream over one socket, correlating
// responses by id and dispatching events to registered callbacks.
//
// The socket is opened lazily by the first command. If it closes
// unexpectedly, in-flight commands fail with ErrConnectionClosed and the
// next command re-dials. Registered callbacks survive reconnects; only
// RemoveCallback, ClearCallbacks, or Close drops them.
type Connection struct {
	url      string
	dialOpts []DialOption
	log      *logrus.Entry

	mu     sync.Mutex
	conn   Transport
	closed bool

	writeMu sync.Mutex

	cmds   *commandRegistry
	events *eventRegistry

	dialogMu sync.Mutex
	dialog   *protocol.JavascriptDialogOpening
}

// ConnectionOption is a connection option.
type ConnectionOption func(*Connection)

// WithConnectionLogger sets the logger used by the connection.
func WithConnectionLogger(logger *logrus.Logger) ConnectionOption {
	return func(c *Connection) {
		c.log = logger.WithField("category", "connection")
	}
}

// WithDialOptions forwards options to the websocket dialer.
func WithDialOptions(opts ...DialOption) ConnectionOption {
	return func(c *Connection) {
		c.dialOpts = append(c.dialOpts, opts...)
	}
}

// NewConnection creates a connection for the given ws:// endpoint URL. No
// I/O happens until the first command.
func NewConnection(urlstr string, opts ...ConnectionOption) *Connection {
	c := &Connection{
		url:    urlstr,
		cmds:   newCommandRegistry(),
		events: newEventRegistry(),
		log:    discardLogger().WithField("category", "connection"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// URL returns the endpoint URL the connection dials.
func (c *Connection) URL() string {
	return c.url
}

// ExecuteCommand assigns a fresh id to cmd, sends it, and waits for the
// correlated response. The wait is bounded by ctx's deadline, or by
// DefaultCommandTimeout when ctx has none. A protocol-level failure is
// returned as a *protocol.CDPError alongside the raw message.
func (c *Connection) ExecuteCommand(ctx context.Context, cmd *protocol.Command) (*protocol.Message, error) {
	if cmd == nil || cmd.Method == "" {
		return nil, ErrInvalidCommand
	}
	conn, err := c.ensureConnected(ctx)
	if err != nil {
		return nil, err
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	id, ch := c.cmds.create(cmd)

	c.writeMu.Lock()
	err = conn.Write(&protocol.Message{ID: cmd.ID, Method: cmd.Method, Params: mustMarshal(cmd.Params)})
	c.writeMu.Unlock()
	if err != nil {
		c.cmds.cancel(id, err)
		<-ch
		c.dropConn(conn)
		return nil, fmt.Errorf("write %s: %w", cmd.Method, err)
	}

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		if res.msg.Error != nil {
			return res.msg, res.msg.Error
		}
		return res.msg, nil
	case <-ctx.Done():
		c.cmds.cancel(id, ctx.Err())
		<-ch
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%s: %w", cmd.Method, ErrCommandTimeout)
		}
		return nil, ctx.Err()
	}
}

// RegisterCallback subscribes fn to the named CDP event. When oneShot is
// set, the entry is removed before its single invocation. The returned id
// is usable with RemoveCallback.
func (c *Connection) RegisterCallback(event string, fn EventCallback, oneShot bool) (uint64, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return 0, ErrConnectionClosed
	}
	return c.events.register(event, fn, oneShot), nil
}

// RemoveCallback removes a callback by id, reporting whether it existed.
func (c *Connection) RemoveCallback(id uint64) bool {
	return c.events.remove(id)
}

// ClearCallbacks removes every registered callback.
func (c *Connection) ClearCallbacks() {
	c.events.clear()
}

// Ping verifies the socket is alive, dialing it if needed.
func (c *Connection) Ping(ctx context.Context) error {
	conn, err := c.ensureConnected(ctx)
	if err != nil {
		return err
	}
	return conn.Ping()
}

// Close clears callbacks, fails in-flight commands, and closes the socket.
// The connection cannot be reused afterwards.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	c.events.clear()
	c.cmds.cancelAll(ErrConnectionClosed)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Closed reports whether Close has been called.
func (c *Connection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// HasDialog reports whether a javascript dialog is currently open on the
// target. The receive loop latches Page.javascriptDialogOpening at the
// connection level because a pending dialog blocks all further CDP
// activity until handled.
func (c *Connection) HasDialog() bool {
	c.dialogMu.Lock()
	defer c.dialogMu.Unlock()
	return c.dialog != nil
}

// Dialog returns the most recent open dialog event, if any.
func (c *Connection) Dialog() (protocol.JavascriptDialogOpening, bool) {
	c.dialogMu.Lock()
	defer c.dialogMu.Unlock()
	if c.dialog == nil {
		return protocol.JavascriptDialogOpening{}, false
	}
	return *c.dialog, true
}

func (c *Connection) clearDialog() {
	c.dialogMu.Lock()
	c.dialog = nil
	c.dialogMu.Unlock()
}

func (c *Connection) ensureConnected(ctx context.Context) (Transport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrConnectionClosed
	}
	if c.conn != nil {
		return c.conn, nil
	}
	conn, err := DialContext(ctx, c.url, c.dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.conn = conn
	go c.receiveLoop(conn)
	c.log.WithField("url", c.url).Debug("connected")
	return conn, nil
}

// dropConn forgets the given transport so the next command re-dials, and
// fails everything still in flight on it.
func (c *Connection) dropConn(conn Transport) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	c.cmds.cancelAll(ErrConnectionClosed)
}

// receiveLoop runs from connect until the socket closes. Frames carrying
// an id resolve their pending command; the rest are events, dispatched to
// callbacks each on its own goroutine.
func (c *Connection) receiveLoop(conn Transport) {
	for {
		msg := new(protocol.Message)
		if err := conn.Read(msg); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				c.log.WithError(err).Debug("socket closed unexpectedly")
				c.dropConn(conn)
			}
			return
		}

		if msg.ID != 0 {
			c.cmds.resolve(msg.ID, msg)
			continue
		}
		if msg.Method == "" {
			c.log.Debug("ignoring malformed frame: no id and no method")
			continue
		}
		c.dispatchEvent(msg)
	}
}

func (c *Connection) dispatchEvent(msg *protocol.Message) {
	switch msg.Method {
	case protocol.EventPageJavascriptDialogOpening:
		d := new(protocol.JavascriptDialogOpening)
		if err := msg.UnmarshalParams(d); err == nil {
			c.dialogMu.Lock()
			c.dialog = d
			c.dialogMu.Unlock()
		}
	case protocol.EventPageJavascriptDialogClosed:
		c.clearDialog()
	}

	for _, entry := range c.events.drain(msg.Method) {
		go entry.fn(msg)
	}
}

func mustMarshal(v any) []byte {
	if v == nil {
		return nil
	}
	b, err := jsonMarshal(v)
	if err != nil {
		return nil
	}
	return b
}
