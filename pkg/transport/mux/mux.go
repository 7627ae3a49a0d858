// Package mux provides the multiplexed transport: many logical connections
// carried as yamux streams over a single physical TCP connection. One dialed
// socket can host any number of independent handler connections.
package mux

import (
	"io"
	stdlog "log"

	"github.com/hashicorp/yamux"
)

// config returns the yamux configuration shared by both sides.
func config() *yamux.Config {
	cfg := yamux.DefaultConfig()

	cfg.LogOutput = nil
	cfg.Logger = stdlog.New(io.Discard, "", stdlog.LstdFlags) // discard all console logging in yamux

	return cfg
}
