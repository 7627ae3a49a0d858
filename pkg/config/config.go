// Package config holds the shared configuration for gobcast endpoints.
package config

import (
	"fmt"

	"cristiangs/gobcast/pkg/log"
)

// Protocol selects the stream transport used between endpoints.
type Protocol string

// Supported transports.
const (
	ProtoTCP Protocol = "tcp"
	ProtoWS  Protocol = "ws"
	ProtoUDP Protocol = "udp"
	ProtoMux Protocol = "mux"
)

// Shared is the configuration common to the listen and connect modes.
type Shared struct {
	Protocol Protocol
	Host     string
	Port     int

	// Name is the display name announced for the local endpoint.
	Name string

	// MaxClients bounds how many connections one accept batch admits.
	MaxClients int

	Verbose bool

	Logger *log.Logger
}

// Validate checks the configuration and returns all problems found.
func (c *Shared) Validate() []error {
	var errors []error

	switch c.Protocol {
	case ProtoTCP, ProtoWS, ProtoUDP, ProtoMux, "":
	default:
		errors = append(errors, fmt.Errorf("'--proto' must be one of tcp|ws|udp|mux, got %q", c.Protocol))
	}

	if c.Port < 1 || c.Port > 65535 {
		errors = append(errors, fmt.Errorf("'--port' must be in [1, 65535]"))
	}

	if c.MaxClients < 0 {
		errors = append(errors, fmt.Errorf("'--max-clients' must not be negative"))
	}

	return errors
}

// GetProtocol returns the configured protocol, defaulting to TCP.
func (c *Shared) GetProtocol() Protocol {
	if c.Protocol == "" {
		return ProtoTCP
	}
	return c.Protocol
}
