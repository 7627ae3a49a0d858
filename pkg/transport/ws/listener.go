package ws

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"cristiangs/gobcast/pkg/semaphore"
)

// backlog is how many upgraded connections may wait for Accept before
// further upgrade requests are rejected with 503.
const backlog = 16

// Listener is a net.Listener whose connections arrive as WebSocket upgrades.
// An internal HTTP server performs the upgrades and queues the adapted
// connections for Accept.
type Listener struct {
	nl  net.Listener
	srv *http.Server
	sem *semaphore.ConnSemaphore

	conns chan net.Conn
	done  chan struct{}
	once  sync.Once
}

var _ net.Listener = (*Listener)(nil)

// NewListener creates a WebSocket listener bound to addr.
func NewListener(addr string) (*Listener, error) {
	nl, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen(tcp, %s): %w", addr, err)
	}

	l := &Listener{
		nl:    nl,
		sem:   semaphore.New(backlog, 10*time.Second),
		conns: make(chan net.Conn),
		done:  make(chan struct{}),
	}

	l.srv = &http.Server{
		Handler: http.HandlerFunc(l.upgrade),

		// Timeouts for long-lived connections
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       0,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	go l.srv.Serve(nl)

	return l, nil
}

// upgrade turns one HTTP request into a queued connection. The handler stays
// alive until the connection is closed, as required by the websocket package.
func (l *Listener) upgrade(w http.ResponseWriter, r *http.Request) {
	if err := l.sem.Acquire(r.Context()); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	defer l.sem.Release()

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{"bin"},
	})
	if err != nil {
		return
	}

	conn := &trackedConn{
		Conn:   websocket.NetConn(context.Background(), c, websocket.MessageBinary),
		closed: make(chan struct{}),
	}

	select {
	case l.conns <- conn:
		<-conn.closed
	case <-l.done:
		conn.Close()
	case <-r.Context().Done():
		conn.Close()
	}
}

// Accept waits for the next upgraded connection.
func (l *Listener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.conns:
		return conn, nil
	case <-l.done:
		return nil, fmt.Errorf("accept ws: %w", net.ErrClosed)
	}
}

// Close shuts the HTTP server and the underlying TCP listener down.
// Connections already accepted are not affected.
func (l *Listener) Close() error {
	var err error
	l.once.Do(func() {
		close(l.done)
		err = l.srv.Close()
	})
	return err
}

// Addr returns the bound address of the underlying TCP listener.
func (l *Listener) Addr() net.Addr {
	return l.nl.Addr()
}

// trackedConn signals the upgrade handler when the connection is closed, so
// the handler can return and release its HTTP resources.
type trackedConn struct {
	net.Conn
	once   sync.Once
	closed chan struct{}
}

func (c *trackedConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(func() { close(c.closed) })
	return err
}
