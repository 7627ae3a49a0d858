// Package tcp provides an in-memory network for testing connection handling
// without real sockets. Listeners and dialers communicate through net.Pipe
// pairs.
package tcp

import (
	"fmt"
	"net"
	"sync"
)

// Network simulates a network namespace: addresses map to listeners, and
// dialing an address hands one pipe end to the matching listener.
type Network struct {
	mu        sync.Mutex
	listeners map[string]*Listener
}

// NewNetwork creates an empty in-memory network.
func NewNetwork() *Network {
	return &Network{
		listeners: make(map[string]*Listener),
	}
}

// Listen binds an in-memory listener to addr.
func (n *Network) Listen(addr string) (*Listener, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.listeners[addr]; exists {
		return nil, fmt.Errorf("address already in use: %s", addr)
	}

	l := &Listener{
		addr:    Addr(addr),
		connCh:  make(chan net.Conn, 16),
		closeCh: make(chan struct{}),
		network: n,
	}
	n.listeners[addr] = l

	return l, nil
}

// Dial connects to the listener bound at addr.
func (n *Network) Dial(addr string) (net.Conn, error) {
	n.mu.Lock()
	l, exists := n.listeners[addr]
	n.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("connection refused: no listener on %s", addr)
	}

	select {
	case <-l.closeCh:
		return nil, fmt.Errorf("connection refused: listener closed")
	default:
	}

	clientConn, serverConn := net.Pipe()

	select {
	case l.connCh <- serverConn:
		return clientConn, nil
	case <-l.closeCh:
		clientConn.Close()
		serverConn.Close()
		return nil, fmt.Errorf("connection refused: listener closed")
	}
}

func (n *Network) remove(addr string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.listeners, addr)
}

// Listener is an in-memory net.Listener.
type Listener struct {
	addr    Addr
	connCh  chan net.Conn
	closeCh chan struct{}
	network *Network
	once    sync.Once
}

var _ net.Listener = (*Listener)(nil)

// Accept waits for the next dialed connection.
func (l *Listener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.connCh:
		return conn, nil
	case <-l.closeCh:
		return nil, fmt.Errorf("accept: %w", net.ErrClosed)
	}
}

// Close unbinds the listener. Accepted connections are not affected.
func (l *Listener) Close() error {
	l.once.Do(func() {
		close(l.closeCh)
		l.network.remove(string(l.addr))
	})
	return nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.addr
}

// Addr is an in-memory network address.
type Addr string

// Network returns the network type of the fake address.
func (a Addr) Network() string { return "mock" }

// String returns the address text.
func (a Addr) String() string { return string(a) }
