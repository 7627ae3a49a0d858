// Package listen implements the relay hub command.
package listen

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"cristiangs/gobcast/cmd/shared"
	"cristiangs/gobcast/pkg/handler"
	"cristiangs/gobcast/pkg/log"
	"cristiangs/gobcast/pkg/server"
)

const categoryListen = "listen"

// MaxClientsFlag is the name of the flag bounding one accept batch.
const MaxClientsFlag = "max-clients"

// GetCommand returns the listen command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "listen",
		Usage: "Run a relay hub that rebroadcasts every message to all clients",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := shared.ConfigFromCommand(cmd)
			cfg.MaxClients = int(cmd.Int(MaxClientsFlag))

			if errors := cfg.Validate(); len(errors) > 0 {
				shared.ReportValidationErrors(errors)
				return fmt.Errorf("exiting")
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s := server.New(cfg)
			if err := s.Serve(); err != nil {
				return fmt.Errorf("serving: %w", err)
			}
			defer s.Close()

			hub := s.Handler()
			hub.AddConnectionListener(&joinLogger{logger: cfg.Logger})
			hub.AddDisconnectListener(&leaveLogger{logger: cfg.Logger})

			<-ctx.Done()
			cfg.Logger.InfoMsg("Shutting down\n")

			return nil
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:     MaxClientsFlag,
				Aliases:  []string{"m"},
				Usage:    "Maximum number of clients accepted in this run",
				Category: categoryListen,
				Value:    server.DefaultMaxClients,
				Required: false,
			},
		}, shared.GetCommonFlags()...),
	}
}

type joinLogger struct {
	logger *log.Logger
}

func (l *joinLogger) OnNewConnection(c *handler.Conn) {
	l.logger.InfoMsg("Client %s joined\n", c.NetConn().RemoteAddr())
}

type leaveLogger struct {
	logger *log.Logger
}

func (l *leaveLogger) OnDisconnected(c *handler.Conn) {
	l.logger.InfoMsg("Client %s left\n", c.NetConn().RemoteAddr())
}
