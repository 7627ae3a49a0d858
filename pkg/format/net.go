// Package format provides formatting helpers for network addresses.
package format

import (
	"fmt"
	"net"
	"strconv"
)

// Addr formats a host and port into a dialable address string.
// IPv6 hosts are bracketed.
func Addr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Conn describes a connection endpoint pair for log output.
func Conn(conn net.Conn) string {
	if conn == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s->%s", conn.LocalAddr(), conn.RemoteAddr())
}
