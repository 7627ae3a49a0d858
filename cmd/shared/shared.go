// Package shared provides the CLI flag definitions common to the listen and
// connect commands.
package shared

import (
	"github.com/urfave/cli/v3"

	"cristiangs/gobcast/pkg/config"
	"cristiangs/gobcast/pkg/log"
)

const categoryCommon = "common"

// HostFlag is the name of the flag for the remote or local host.
const HostFlag = "host"

// PortFlag is the name of the flag for the remote or local port.
const PortFlag = "port"

// ProtoFlag is the name of the flag selecting the transport protocol.
const ProtoFlag = "proto"

// NameFlag is the name of the flag for the endpoint display name.
const NameFlag = "name"

// VerboseFlag is the name of the flag to enable verbose error logging.
const VerboseFlag = "verbose"

// GetCommonFlags returns the flags shared by listen and connect.
func GetCommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     HostFlag,
			Aliases:  []string{},
			Usage:    "Host to connect to, or local interface to bind (empty binds all interfaces)",
			Category: categoryCommon,
			Value:    "",
			Required: false,
		},
		&cli.IntFlag{
			Name:     PortFlag,
			Aliases:  []string{"p"},
			Usage:    "Port to connect to or listen on",
			Category: categoryCommon,
			Required: true,
		},
		&cli.StringFlag{
			Name:     ProtoFlag,
			Aliases:  []string{},
			Usage:    "Transport protocol: tcp|ws|udp|mux",
			Category: categoryCommon,
			Value:    "tcp",
			Required: false,
		},
		&cli.StringFlag{
			Name:     NameFlag,
			Aliases:  []string{"n"},
			Usage:    "Display name for the local endpoint",
			Category: categoryCommon,
			Value:    "",
			Required: false,
		},
		&cli.BoolFlag{
			Name:     VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Verbose error logging",
			Category: categoryCommon,
			Value:    false,
			Required: false,
		},
	}
}

// ConfigFromCommand builds the shared configuration from parsed flags.
func ConfigFromCommand(cmd *cli.Command) *config.Shared {
	verbose := cmd.Bool(VerboseFlag)

	return &config.Shared{
		Protocol: config.Protocol(cmd.String(ProtoFlag)),
		Host:     cmd.String(HostFlag),
		Port:     int(cmd.Int(PortFlag)),
		Name:     cmd.String(NameFlag),
		Verbose:  verbose,
		Logger:   log.NewLogger(verbose),
	}
}

// ReportValidationErrors logs each configuration error.
func ReportValidationErrors(errors []error) {
	log.ErrorMsg("Argument validation errors:\n")
	for _, err := range errors {
		log.ErrorMsg(" - %s\n", err)
	}
}
