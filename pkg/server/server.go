// Package server implements the listening endpoint: it binds a listener for
// the configured transport and runs a relay hub on top of handler.Server.
package server

import (
	"fmt"
	"net"

	"cristiangs/gobcast/pkg/config"
	"cristiangs/gobcast/pkg/format"
	"cristiangs/gobcast/pkg/handler"
	"cristiangs/gobcast/pkg/transport/mux"
	"cristiangs/gobcast/pkg/transport/tcp"
	"cristiangs/gobcast/pkg/transport/udp"
	"cristiangs/gobcast/pkg/transport/ws"
)

// DefaultMaxClients bounds one accept batch when the configuration does not
// say otherwise.
const DefaultMaxClients = 16

// Server binds the configured transport and relays payloads between all
// connected clients.
type Server struct {
	cfg *config.Shared
	hub *handler.Server
}

// New creates a server for the given configuration.
func New(cfg *config.Shared) *Server {
	return &Server{
		cfg: cfg,
	}
}

// Handler returns the underlying hub. It is nil until Serve has been called.
func (s *Server) Handler() *handler.Server {
	return s.hub
}

// Serve binds the listener and starts accepting one batch of clients. It
// does not block; connection handling runs on the hub's workers.
func (s *Server) Serve() error {
	addr := format.Addr(s.cfg.Host, s.cfg.Port)

	var ln net.Listener
	var err error
	switch s.cfg.GetProtocol() {
	case config.ProtoWS:
		ln, err = ws.NewListener(addr)
	case config.ProtoUDP:
		ln, err = udp.NewListener(addr)
	case config.ProtoMux:
		ln, err = mux.NewListener(addr)
	default:
		ln, err = tcp.NewListener(addr)
	}
	if err != nil {
		return fmt.Errorf("NewListener(%s): %w", addr, err)
	}

	hub, err := handler.NewServer(ln, handler.WithServerLogger(s.cfg.Logger))
	if err != nil {
		ln.Close()
		return fmt.Errorf("handler.NewServer: %w", err)
	}
	s.hub = hub

	max := s.cfg.MaxClients
	if max < 1 {
		max = DefaultMaxClients
	}

	s.cfg.Logger.InfoMsg("Listening on %s (%s), accepting up to %d clients\n", addr, s.cfg.GetProtocol(), max)

	if err := hub.StartAccepting(max); err != nil {
		ln.Close()
		return fmt.Errorf("StartAccepting(%d): %w", max, err)
	}

	return nil
}

// Close tears the hub down entirely.
func (s *Server) Close() error {
	if s.hub == nil {
		return nil
	}
	return s.hub.Shutdown()
}
