// Package ws provides the WebSocket transport. Accepted and dialed
// connections are adapted to net.Conn carrying binary messages.
package ws

import (
	"context"
	"fmt"
	"net"

	"github.com/coder/websocket"

	"cristiangs/gobcast/pkg/transport"
)

// Dialer dials WebSocket connections to a fixed address.
type Dialer struct {
	ctx context.Context
	url string
}

var _ transport.Dialer = (*Dialer)(nil)

// NewDialer creates a WebSocket dialer for the specified address. ctx bounds
// the handshake and the lifetime of dialed connections.
func NewDialer(ctx context.Context, addr string) *Dialer {
	return &Dialer{
		ctx: ctx,
		url: fmt.Sprintf("ws://%s", addr),
	}
}

// Dial establishes a WebSocket connection and adapts it to net.Conn.
func (d *Dialer) Dial() (net.Conn, error) {
	opts := &websocket.DialOptions{
		Subprotocols: []string{"bin"},
	}

	c, _, err := websocket.Dial(d.ctx, d.url, opts)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial(%s): %w", d.url, err)
	}

	return websocket.NetConn(d.ctx, c, websocket.MessageBinary), nil
}
