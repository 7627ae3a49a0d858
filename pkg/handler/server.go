package handler

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"cristiangs/gobcast/pkg/log"
)

// AcceptedConnName is the display name assigned to connections admitted by a
// Server's accept loop.
const AcceptedConnName = "Server"

// Server owns a listening transport and the registry of connections its
// accept loop admitted. It registers itself as message and disconnect
// observer on every connection it creates, forming a hub-and-spoke topology:
// inbound events flow up to the server, and the server's message listener
// decides what flows back down. The default listener relays every inbound
// payload to all registered connections.
type Server struct {
	ln     net.Listener
	codec  Codec
	logger *log.Logger

	onFatal func(err error)

	connMu sync.Mutex
	conns  []*Conn

	connListeners listenerList[ConnectionListener]
	discListeners listenerList[DisconnectListener]

	msgMu       sync.Mutex
	msgListener MessageListener

	listening atomic.Bool // true only while the accept loop runs
	closed    atomic.Bool // listening transport closed
	done      atomic.Bool // fully shut down

	errMu     sync.Mutex
	acceptErr error
}

// ServerOption configures a Server at construction time.
type ServerOption func(*Server)

// WithServerCodec sets the codec handed to accepted connections.
func WithServerCodec(codec Codec) ServerOption {
	return func(s *Server) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithServerLogger sets the logger. Defaults to silent.
func WithServerLogger(logger *log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithServerFatalHandler installs a hook for unexpected accept failures.
// When unset, fatal errors are logged.
func WithServerFatalHandler(fn func(err error)) ServerOption {
	return func(s *Server) {
		if fn != nil {
			s.onFatal = fn
		}
	}
}

// NewServer wraps a bound listening transport in a server handler.
// No connections are accepted until StartAccepting is called.
func NewServer(ln net.Listener, opts ...ServerOption) (*Server, error) {
	if ln == nil {
		return nil, fmt.Errorf("NewServer: listener is nil: %w", ErrInvalidArgument)
	}

	s := &Server{
		ln:    ln,
		codec: GobCodec{},
	}
	s.msgListener = &relayListener{s: s}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Listener returns the underlying listening transport.
func (s *Server) Listener() net.Listener {
	return s.ln
}

// Listening reports whether the accept loop is currently running.
func (s *Server) Listening() bool {
	return s.listening.Load()
}

// Closed reports whether the listening transport has been closed.
func (s *Server) Closed() bool {
	return s.closed.Load()
}

// NumConns returns the number of registered connections. Entries are not
// necessarily live: closed connections remain until ClearConnections.
func (s *Server) NumConns() int {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return len(s.conns)
}

// Conns returns a snapshot of the registry in insertion order.
func (s *Server) Conns() []*Conn {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	out := make([]*Conn, len(s.conns))
	copy(out, s.conns)
	return out
}

// AcceptErr returns the unexpected error that terminated the accept loop,
// if any. Errors caused by closing the listening transport are not recorded.
func (s *Server) AcceptErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.acceptErr
}

// StartAccepting spawns one accept loop admitting up to maxClients
// connections, then stops without closing the listening transport. It may be
// called again afterwards for a further batch. While a loop is running, and
// after the server is closed or shut down, the call is a no-op.
func (s *Server) StartAccepting(maxClients int) error {
	if maxClients < 1 {
		return fmt.Errorf("StartAccepting: maxClients must be at least 1, got %d: %w", maxClients, ErrInvalidArgument)
	}
	if s.done.Load() || s.closed.Load() {
		return nil
	}
	if !s.listening.CompareAndSwap(false, true) {
		return nil
	}

	go s.acceptLoop(maxClients)

	return nil
}

func (s *Server) acceptLoop(maxClients int) {
	defer s.listening.Store(false)

	for accepted := 0; accepted < maxClients; accepted++ {
		if s.done.Load() || s.closed.Load() {
			return
		}

		conn, err := s.ln.Accept()
		if err != nil {
			if isDisconnect(err) || s.closed.Load() {
				// the listening transport was closed under us
				return
			}

			s.errMu.Lock()
			s.acceptErr = err
			s.errMu.Unlock()
			s.fatal(fmt.Errorf("accept: %w", err))
			return
		}

		if err := s.admit(conn); err != nil {
			s.logger.ErrorMsg("admitting connection from %s: %s\n", conn.RemoteAddr(), err)
			conn.Close()
			continue
		}
	}
}

// admit wires a freshly accepted transport into the hub.
func (s *Server) admit(conn net.Conn) error {
	c, err := NewConn(conn,
		WithCodec(s.codec),
		WithLogger(s.logger),
		WithName(AcceptedConnName),
	)
	if err != nil {
		return fmt.Errorf("NewConn: %w", err)
	}

	tap := &serverTap{s: s}
	c.AddMessageListener(tap)
	c.AddDisconnectListener(tap)

	c.StartReceiving()

	s.connMu.Lock()
	s.conns = append(s.conns, c)
	s.connMu.Unlock()

	s.logger.InfoMsg("New connection from %s\n", conn.RemoteAddr())
	s.notifyConnection(c)

	return nil
}

// CloseListening closes only the listening transport, stopping future
// accepts. Registered connections keep exchanging messages. Idempotent.
func (s *Server) CloseListening() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("closing listener: %w", err)
	}

	return nil
}

// ClearConnections closes every registered connection and empties the
// registry. The server can still accept new connections afterwards.
func (s *Server) ClearConnections() {
	s.connMu.Lock()
	conns := s.conns
	s.conns = nil
	s.connMu.Unlock()

	for _, c := range conns {
		if c == nil {
			continue
		}
		c.Close()
	}
}

// Shutdown composes CloseListening and ClearConnections and deactivates the
// server entirely: afterwards Broadcast, SendTo and StartAccepting are
// no-ops.
func (s *Server) Shutdown() error {
	if !s.done.CompareAndSwap(false, true) {
		return nil
	}

	err := s.CloseListening()
	s.ClearConnections()

	return err
}

// Broadcast schedules an asynchronous send of payload on every registered,
// non-closed connection. It never blocks. Nil payloads, and calls after
// Shutdown, are no-ops. Fan-out order across connections is not guaranteed,
// but per-connection send order is.
func (s *Server) Broadcast(payload any) {
	if payload == nil || s.done.Load() {
		return
	}

	for _, c := range s.Conns() {
		if c == nil || c.Closed() {
			continue
		}
		c.Send(payload)
	}
}

// SendTo schedules an asynchronous send of payload on a single connection.
// Nil arguments, and calls after Shutdown, are no-ops.
func (s *Server) SendTo(c *Conn, payload any) {
	if c == nil || payload == nil || s.done.Load() {
		return
	}
	c.Send(payload)
}

// SetMessageListener replaces the server's inbound message listener. The
// default relays every inbound payload to all registered connections,
// including the sender. Setting nil is a no-op. The replacement takes effect
// for already-accepted connections as well.
func (s *Server) SetMessageListener(l MessageListener) {
	if l == nil {
		return
	}
	s.msgMu.Lock()
	defer s.msgMu.Unlock()
	s.msgListener = l
}

// MessageListener returns the current inbound message listener.
func (s *Server) MessageListener() MessageListener {
	s.msgMu.Lock()
	defer s.msgMu.Unlock()
	return s.msgListener
}

// AddConnectionListener registers a listener for newly accepted connections.
func (s *Server) AddConnectionListener(l ConnectionListener) {
	s.connListeners.add(l)
}

// RemoveConnectionListener removes one registration of l.
func (s *Server) RemoveConnectionListener(l ConnectionListener) {
	s.connListeners.remove(l)
}

// AddDisconnectListener registers a listener for disconnects of accepted
// connections.
func (s *Server) AddDisconnectListener(l DisconnectListener) {
	s.discListeners.add(l)
}

// RemoveDisconnectListener removes one registration of l.
func (s *Server) RemoveDisconnectListener(l DisconnectListener) {
	s.discListeners.remove(l)
}

func (s *Server) notifyConnection(c *Conn) {
	if c == nil {
		return
	}
	for _, l := range s.connListeners.snapshot() {
		l.OnNewConnection(c)
	}
}

func (s *Server) notifyDisconnect(c *Conn) {
	if c == nil {
		return
	}
	for _, l := range s.discListeners.snapshot() {
		l.OnDisconnected(c)
	}
}

func (s *Server) fatal(err error) {
	if s.onFatal != nil {
		s.onFatal(err)
		return
	}
	if s.logger != nil {
		s.logger.ErrorMsg("server: %s\n", err)
		return
	}
	log.ErrorMsg("server: %s\n", err)
}

// serverTap is the observer the server attaches to every connection it
// admits. Message events are forwarded to the current, swappable message
// listener; disconnects are re-exposed through the server's own listener set.
type serverTap struct {
	s *Server
}

func (t *serverTap) OnMessage(c *Conn, payload any) {
	t.s.MessageListener().OnMessage(c, payload)
}

func (t *serverTap) OnDisconnected(c *Conn) {
	t.s.logger.InfoMsg("Connection from %s lost\n", c.NetConn().RemoteAddr())
	t.s.notifyDisconnect(c)
}

// relayListener is the default inbound message listener: any payload received
// from any connection is rebroadcast to all registered connections, turning
// the server into a relay hub.
type relayListener struct {
	s *Server
}

func (r *relayListener) OnMessage(_ *Conn, payload any) {
	r.s.Broadcast(payload)
}
