package udp

import (
	"fmt"
	"net"
	"strings"

	kcp "github.com/xtaci/kcp-go/v5"
)

// Listener is a net.Listener whose connections are KCP sessions over UDP.
type Listener struct {
	kl *kcp.Listener
}

var _ net.Listener = (*Listener)(nil)

// NewListener creates a UDP/KCP listener bound to addr.
func NewListener(addr string) (*Listener, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen(udp, %s): %w", addr, err)
	}

	// no block cipher, no FEC shards
	kl, err := kcp.ServeConn(nil, 0, 0, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("kcp.ServeConn(): %w", err)
	}

	return &Listener{kl: kl}, nil
}

// Accept waits for the next KCP session.
func (l *Listener) Accept() (net.Conn, error) {
	conn, err := l.kl.AcceptKCP()
	if err != nil {
		if strings.Contains(err.Error(), "use of closed network connection") {
			return nil, fmt.Errorf("accept udp: %w", net.ErrClosed)
		}
		return nil, fmt.Errorf("AcceptKCP(): %w", err)
	}

	tune(conn)

	return conn, nil
}

// Close stops the listener. Accepted sessions are not affected.
func (l *Listener) Close() error {
	return l.kl.Close()
}

// Addr returns the bound UDP address.
func (l *Listener) Addr() net.Addr {
	return l.kl.Addr()
}
