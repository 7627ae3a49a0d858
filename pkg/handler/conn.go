package handler

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"cristiangs/gobcast/pkg/log"
)

// DefaultConnName is the display name assigned to a connection at
// construction time.
const DefaultConnName = "Client"

// Conn owns one live stream connection. It runs a single read loop that
// decodes framed payloads and fans them out to message listeners, and a
// single write worker that drains an unbounded outbound queue, preserving
// submission order. Close is idempotent and terminal.
type Conn struct {
	conn   net.Conn
	codec  Codec
	logger *log.Logger

	// onFatal receives unrecoverable failures: decode errors and errors
	// released while closing resources. Defaults to logging.
	onFatal func(c *Conn, err error)

	nameMu sync.Mutex
	name   string

	msgListeners  listenerList[MessageListener]
	discListeners listenerList[DisconnectListener]

	closed  atomic.Bool // monotonic, terminal
	started atomic.Bool // guards the single read loop

	qMu        sync.Mutex
	qCond      *sync.Cond
	queue      []any
	writerOnce sync.Once

	enc Encoder // owned by the write worker, bound lazily
	dec Decoder // owned by the read loop, bound lazily
}

// ConnOption configures a Conn at construction time.
type ConnOption func(*Conn)

// WithCodec sets the wire codec. Defaults to GobCodec.
func WithCodec(codec Codec) ConnOption {
	return func(c *Conn) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithLogger sets the logger used for connection events. Defaults to silent.
func WithLogger(logger *log.Logger) ConnOption {
	return func(c *Conn) {
		c.logger = logger
	}
}

// WithName sets the initial display name.
func WithName(name string) ConnOption {
	return func(c *Conn) {
		c.name = name
	}
}

// WithFatalHandler installs a hook for unrecoverable failures. When unset,
// fatal errors are logged.
func WithFatalHandler(fn func(c *Conn, err error)) ConnOption {
	return func(c *Conn) {
		if fn != nil {
			c.onFatal = fn
		}
	}
}

// NewConn wraps an already-connected stream in a connection handler.
// The handler is passive until StartReceiving is called.
func NewConn(conn net.Conn, opts ...ConnOption) (*Conn, error) {
	if conn == nil {
		return nil, fmt.Errorf("NewConn: conn is nil: %w", ErrInvalidArgument)
	}

	c := &Conn{
		conn:  conn,
		codec: GobCodec{},
		name:  DefaultConnName,
	}
	c.qCond = sync.NewCond(&c.qMu)

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NetConn returns the underlying transport connection.
func (c *Conn) NetConn() net.Conn {
	return c.conn
}

// Name returns the display name.
func (c *Conn) Name() string {
	c.nameMu.Lock()
	defer c.nameMu.Unlock()
	return c.name
}

// SetName sets the display name.
func (c *Conn) SetName(name string) {
	c.nameMu.Lock()
	defer c.nameMu.Unlock()
	c.name = name
}

// Closed reports whether the connection has been closed. Once true it never
// reverts.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// AddMessageListener registers a message listener. Adding nil is a no-op and
// duplicate registrations are invoked once per registration.
func (c *Conn) AddMessageListener(l MessageListener) {
	c.msgListeners.add(l)
}

// RemoveMessageListener removes one registration of l. Removing a listener
// that is not present is a no-op.
func (c *Conn) RemoveMessageListener(l MessageListener) {
	c.msgListeners.remove(l)
}

// AddDisconnectListener registers a disconnect listener.
func (c *Conn) AddDisconnectListener(l DisconnectListener) {
	c.discListeners.add(l)
}

// RemoveDisconnectListener removes one registration of l.
func (c *Conn) RemoveDisconnectListener(l DisconnectListener) {
	c.discListeners.remove(l)
}

// StartReceiving schedules the read loop. It is idempotent: repeated calls,
// and calls after Close, do not spawn additional readers.
func (c *Conn) StartReceiving() {
	if c.closed.Load() {
		return
	}
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.readLoop()
}

// Send enqueues payload for asynchronous delivery and returns immediately.
// Payloads are written in submission order by a single writer. A nil payload
// and sends on a closed connection are no-ops.
func (c *Conn) Send(payload any) {
	if payload == nil || c.closed.Load() {
		return
	}

	c.writerOnce.Do(func() {
		go c.writeLoop()
	})

	c.qMu.Lock()
	c.queue = append(c.queue, payload)
	c.qMu.Unlock()
	c.qCond.Signal()
}

// Close tears the connection down exactly once. Disconnect listeners are
// notified before the transport is released so they may still inspect the
// handler. Subsequent calls are no-ops. A failure while releasing the
// transport is returned and also passed to the fatal hook.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.notifyDisconnect()

	var closeErr error
	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		closeErr = fmt.Errorf("closing transport of %s: %w", c.Name(), err)
		c.fatal(closeErr)
	}

	// wake the write worker so it can observe the closed flag and exit
	c.qMu.Lock()
	c.qCond.Broadcast()
	c.qMu.Unlock()

	return closeErr
}

func (c *Conn) readLoop() {
	c.dec = c.codec.NewDecoder(c.conn)

	for !c.closed.Load() {
		var payload any
		if err := c.dec.Decode(&payload); err != nil {
			if c.closed.Load() || isDisconnect(err) {
				// peer went away or we are shutting down
				c.Close()
				return
			}

			c.fatal(&DecodeError{Err: err})
			c.Close()
			return
		}

		c.notifyMessage(payload)
	}
}

func (c *Conn) writeLoop() {
	for {
		c.qMu.Lock()
		for len(c.queue) == 0 && !c.closed.Load() {
			c.qCond.Wait()
		}
		if len(c.queue) == 0 {
			c.qMu.Unlock()
			return
		}
		payload := c.queue[0]
		c.queue = c.queue[1:]
		c.qMu.Unlock()

		c.writeOne(payload)
	}
}

func (c *Conn) writeOne(payload any) {
	if c.closed.Load() {
		return // transport gone, drop silently
	}

	if c.enc == nil {
		c.enc = c.codec.NewEncoder(c.conn)
	}

	if err := c.enc.Encode(&payload); err != nil {
		// a send failure is indistinguishable from a peer disconnect
		c.logger.VerboseMsg("write to %s failed: %v\n", c.Name(), err)
		c.Close()
	}
}

func (c *Conn) notifyMessage(payload any) {
	if payload == nil {
		return
	}
	for _, l := range c.msgListeners.snapshot() {
		l.OnMessage(c, payload)
	}
}

func (c *Conn) notifyDisconnect() {
	for _, l := range c.discListeners.snapshot() {
		l.OnDisconnected(c)
	}
}

func (c *Conn) fatal(err error) {
	if c.onFatal != nil {
		c.onFatal(c, err)
		return
	}
	if c.logger != nil {
		c.logger.ErrorMsg("connection %s: %s\n", c.Name(), err)
		return
	}
	log.ErrorMsg("connection %s: %s\n", c.Name(), err)
}
