package mux

import (
	"fmt"
	"net"
	"sync"

	"github.com/hashicorp/yamux"
)

// Listener is a net.Listener whose accepted connections are yamux streams.
// It serves one physical TCP connection at a time: while that peer's session
// is alive its streams are handed out by Accept, and when the session dies
// the next physical connection is accepted.
type Listener struct {
	nl net.Listener

	mu   sync.Mutex
	sess *yamux.Session
}

var _ net.Listener = (*Listener)(nil)

// NewListener creates a mux listener bound to addr.
func NewListener(addr string) (*Listener, error) {
	nl, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen(tcp, %s): %w", addr, err)
	}

	return &Listener{nl: nl}, nil
}

// Accept waits for the next logical stream, accepting a new physical
// connection first if none is active.
func (l *Listener) Accept() (net.Conn, error) {
	for {
		sess, err := l.session()
		if err != nil {
			return nil, err
		}

		stream, err := sess.Accept()
		if err == nil {
			return stream, nil
		}

		// session is gone, drop it and serve the next physical connection
		l.dropSession(sess)
	}
}

func (l *Listener) session() (*yamux.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sess != nil && !l.sess.IsClosed() {
		return l.sess, nil
	}

	conn, err := l.nl.Accept()
	if err != nil {
		return nil, fmt.Errorf("accept mux: %w", err)
	}

	sess, err := yamux.Server(conn, config())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("yamux.Server(conn): %w", err)
	}
	l.sess = sess

	return sess, nil
}

func (l *Listener) dropSession(sess *yamux.Session) {
	sess.Close()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sess == sess {
		l.sess = nil
	}
}

// Close shuts down the active session and the TCP listener.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sess != nil {
		l.sess.Close()
		l.sess = nil
	}

	return l.nl.Close()
}

// Addr returns the bound address of the underlying TCP listener.
func (l *Listener) Addr() net.Addr {
	return l.nl.Addr()
}
