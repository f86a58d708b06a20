package pydoll

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yie1d/pydoll-sub004/protocol"
)

var (
	// DefaultReadBufferSize is the default maximum read buffer size.
	DefaultReadBufferSize = 25 * 1024 * 1024

	// DefaultWriteBufferSize is the default maximum write buffer size.
	DefaultWriteBufferSize = 10 * 1024 * 1024
)

// Transport is the common interface to send/receive messages on a CDP
// socket.
type Transport interface {
	Read(*protocol.Message) error
	Write(*protocol.Message) error
	Ping() error
	io.Closer
}

// Conn wraps a gorilla/websocket.Conn connection.
type Conn struct {
	*websocket.Conn

	// buf helps us reuse space when reading from the websocket.
	buf bytes.Buffer

	dbgf func(string, ...any)
}

// DialContext dials the specified websocket URL using gorilla/websocket.
func DialContext(ctx context.Context, urlstr string, opts ...DialOption) (*Conn, error) {
	d := &websocket.Dialer{
		ReadBufferSize:  DefaultReadBufferSize,
		WriteBufferSize: DefaultWriteBufferSize,
	}

	conn, _, err := d.DialContext(ctx, ForceIP(urlstr), nil)
	if err != nil {
		return nil, err
	}

	c := &Conn{
		Conn: conn,
	}
	for _, o := range opts {
		o(c)
	}

	return c, nil
}

func (c *Conn) bufReadAll(r io.Reader) ([]byte, error) {
	c.buf.Reset()
	_, err := c.buf.ReadFrom(r)
	return c.buf.Bytes(), err
}

// Read reads the next message.
func (c *Conn) Read(msg *protocol.Message) error {
	typ, r, err := c.NextReader()
	if err != nil {
		return err
	}
	if typ != websocket.TextMessage {
		return ErrInvalidWebsocketMessage
	}

	// Unmarshal via a bytes.Buffer to reuse space between reads; a CDP
	// screenshot response can be tens of megabytes of base64.
	buf, err := c.bufReadAll(r)
	if err != nil {
		return err
	}
	if c.dbgf != nil {
		c.dbgf("<- %s", buf)
	}

	*msg = protocol.Message{}
	if err := json.Unmarshal(buf, msg); err != nil {
		return err
	}

	// Copy the RawMessage fields so a caller still holding this message
	// never shares memory with the reused read buffer, whatever the
	// decoder does with it.
	msg.Result = append([]byte(nil), msg.Result...)
	msg.Params = append([]byte(nil), msg.Params...)
	return nil
}

// Write writes a message.
func (c *Conn) Write(msg *protocol.Message) error {
	buf, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if c.dbgf != nil {
		c.dbgf("-> %s", buf)
	}
	return c.WriteMessage(websocket.TextMessage, buf)
}

// Ping sends a websocket ping frame to verify liveness.
func (c *Conn) Ping() error {
	return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

// ForceIP forces the host component in urlstr to be an IP address.
//
// Since Chrome 66+, Chrome DevTools Protocol clients connecting to a browser
// must send the "Host:" header as either an IP address, or "localhost".
func ForceIP(urlstr string) string {
	if i := strings.Index(urlstr, "://"); i != -1 {
		scheme := urlstr[:i+3]
		host, port, path := urlstr[len(scheme):], "", ""
		if i := strings.Index(host, "/"); i != -1 {
			host, path = host[:i], host[i:]
		}
		if i := strings.Index(host, ":"); i != -1 {
			host, port = host[:i], host[i:]
		}
		if addr, err := net.ResolveIPAddr("ip", host); err == nil {
			urlstr = scheme + addr.IP.String() + port + path
		}
	}
	return urlstr
}

// DialOption is a dial option.
type DialOption func(*Conn)

// WithDialDebugf is a dial option to set a protocol logger.
func WithDialDebugf(f func(string, ...any)) DialOption {
	return func(c *Conn) {
		c.dbgf = f
	}
}
