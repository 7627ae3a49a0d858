// Package transport provides the stream transports gobcast endpoints run on.
// Each subpackage exposes a Dialer for the connecting side and a net.Listener
// constructor for the listening side:
//
//   - tcp: plain TCP with keep-alive
//   - ws:  WebSocket (binary messages adapted to net.Conn)
//   - udp: KCP, a reliable stream over UDP
//   - mux: yamux streams multiplexed over one TCP connection
//
// All transports hand out ordinary net.Conn values, so the connection
// handlers above never care which one is in use.
package transport

import "net"

// Dialer establishes an outbound stream connection.
type Dialer interface {
	Dial() (net.Conn, error)
}
