// Package tcp provides the TCP transport.
package tcp

import (
	"fmt"
	"net"
)

// Dialer dials TCP connections to a fixed address.
type Dialer struct {
	tcpAddr *net.TCPAddr
}

// NewDialer creates a TCP dialer for the specified address.
func NewDialer(addr string) (*Dialer, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.ResolveTCPAddr(tcp, %s): %w", addr, err)
	}

	return &Dialer{
		tcpAddr: tcpAddr,
	}, nil
}

// Dial establishes a TCP connection with keep-alive enabled.
func (d *Dialer) Dial() (net.Conn, error) {
	conn, err := net.DialTCP("tcp", nil, d.tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("net.DialTCP(tcp, %s): %w", d.tcpAddr.String(), err)
	}

	conn.SetKeepAlive(true)
	return conn, nil
}
