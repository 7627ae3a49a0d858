package mux

import (
	"fmt"
	"net"
	"sync"

	"github.com/hashicorp/yamux"
)

// Dialer opens logical connections over one shared TCP socket. The physical
// connection and yamux session are established on the first Dial and reused
// until they fail, after which the next Dial reconnects.
type Dialer struct {
	addr string

	mu   sync.Mutex
	sess *yamux.Session
}

// NewDialer creates a mux dialer for the specified address.
func NewDialer(addr string) *Dialer {
	return &Dialer{addr: addr}
}

// Dial opens one logical stream, connecting the underlying session first if
// needed.
func (d *Dialer) Dial() (net.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sess == nil || d.sess.IsClosed() {
		conn, err := net.Dial("tcp", d.addr)
		if err != nil {
			return nil, fmt.Errorf("net.Dial(tcp, %s): %w", d.addr, err)
		}

		sess, err := yamux.Client(conn, config())
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("yamux.Client(conn): %w", err)
		}
		d.sess = sess
	}

	stream, err := d.sess.Open()
	if err != nil {
		d.sess.Close()
		d.sess = nil
		return nil, fmt.Errorf("session.Open(): %w", err)
	}

	return stream, nil
}

// Close tears down the shared session and its physical connection,
// including all streams dialed from it.
func (d *Dialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sess == nil {
		return nil
	}
	err := d.sess.Close()
	d.sess = nil
	return err
}
