// Package client implements the connecting endpoint: it dials a peer over
// the configured transport and wraps the connection in a handler.Conn.
package client

import (
	"context"
	"fmt"
	"io"

	"cristiangs/gobcast/pkg/config"
	"cristiangs/gobcast/pkg/format"
	"cristiangs/gobcast/pkg/handler"
	"cristiangs/gobcast/pkg/transport"
	"cristiangs/gobcast/pkg/transport/mux"
	"cristiangs/gobcast/pkg/transport/tcp"
	"cristiangs/gobcast/pkg/transport/udp"
	"cristiangs/gobcast/pkg/transport/ws"
)

// Client dials a single peer and exposes the resulting connection handler.
type Client struct {
	ctx context.Context
	cfg *config.Shared

	conn   *handler.Conn
	dialer transport.Dialer
}

// New creates a client for the given configuration.
func New(ctx context.Context, cfg *config.Shared) *Client {
	return &Client{
		ctx: ctx,
		cfg: cfg,
	}
}

// Conn returns the connection handler established by Connect.
func (c *Client) Conn() *handler.Conn {
	return c.conn
}

// Connect dials the configured peer and wraps the connection. The handler is
// returned passive; the caller registers listeners and calls StartReceiving.
func (c *Client) Connect() (*handler.Conn, error) {
	addr := format.Addr(c.cfg.Host, c.cfg.Port)

	var d transport.Dialer
	var err error
	switch c.cfg.GetProtocol() {
	case config.ProtoWS:
		d = ws.NewDialer(c.ctx, addr)
	case config.ProtoUDP:
		d, err = udp.NewDialer(addr)
	case config.ProtoMux:
		d = mux.NewDialer(addr)
	default:
		d, err = tcp.NewDialer(addr)
	}
	if err != nil {
		return nil, fmt.Errorf("NewDialer(%s): %w", addr, err)
	}
	c.dialer = d

	conn, err := d.Dial()
	if err != nil {
		return nil, fmt.Errorf("Dial(): %w", err)
	}

	opts := []handler.ConnOption{
		handler.WithLogger(c.cfg.Logger),
	}
	if c.cfg.Name != "" {
		opts = append(opts, handler.WithName(c.cfg.Name))
	}

	h, err := handler.NewConn(conn, opts...)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("handler.NewConn: %w", err)
	}
	c.conn = h

	return h, nil
}

// Close closes the connection handler and, for transports that share a
// physical socket across dials, the dialer as well.
func (c *Client) Close() error {
	var err error
	if c.conn != nil {
		err = c.conn.Close()
	}
	if cl, ok := c.dialer.(io.Closer); ok {
		if cerr := cl.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
