// Package udp provides the UDP transport with KCP reliability: connections
// behave like ordered byte streams while running over UDP datagrams.
package udp

import (
	"fmt"
	"net"

	kcp "github.com/xtaci/kcp-go/v5"
)

// Dialer dials KCP sessions over UDP to a fixed address.
type Dialer struct {
	remoteAddr *net.UDPAddr
}

// NewDialer creates a UDP/KCP dialer for the specified address.
func NewDialer(addr string) (*Dialer, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.ResolveUDPAddr(udp, %s): %w", addr, err)
	}

	return &Dialer{
		remoteAddr: udpAddr,
	}, nil
}

// Dial establishes a KCP session over UDP.
func (d *Dialer) Dial() (net.Conn, error) {
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, fmt.Errorf("net.ListenPacket(udp, :0): %w", err)
	}

	// no block cipher, no FEC shards
	kcpConn, err := kcp.NewConn(d.remoteAddr.String(), nil, 0, 0, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("kcp.NewConn(%s): %w", d.remoteAddr.String(), err)
	}

	tune(kcpConn)

	return kcpConn, nil
}

// tune configures a KCP session for low-latency stream exchange.
func tune(conn *kcp.UDPSession) {
	conn.SetNoDelay(1, 10, 2, 1)
	conn.SetStreamMode(true)
	conn.SetWindowSize(1024, 1024)
}
