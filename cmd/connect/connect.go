// Package connect implements the interactive client command.
package connect

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"cristiangs/gobcast/cmd/shared"
	"cristiangs/gobcast/pkg/client"
	"cristiangs/gobcast/pkg/handler"
	"cristiangs/gobcast/pkg/stdio"
)

// GetCommand returns the connect command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "connect",
		Usage: "Connect to a hub, send stdin lines and print received messages",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := shared.ConfigFromCommand(cmd)
			if cfg.Host == "" {
				cfg.Host = "127.0.0.1"
			}

			if errors := cfg.Validate(); len(errors) > 0 {
				shared.ReportValidationErrors(errors)
				return fmt.Errorf("exiting")
			}

			cl := client.New(ctx, cfg)
			conn, err := cl.Connect()
			if err != nil {
				return fmt.Errorf("connecting: %w", err)
			}
			defer cl.Close()

			cfg.Logger.InfoMsg("Connected to %s\n", conn.NetConn().RemoteAddr())

			lines, err := stdio.NewLineReader()
			if err != nil {
				return fmt.Errorf("stdio.NewLineReader(): %w", err)
			}
			defer lines.Close()

			interactive := term.IsTerminal(int(os.Stdin.Fd()))

			conn.AddMessageListener(&printer{prompt: interactive})
			conn.AddDisconnectListener(&unblocker{lines: lines})
			conn.StartReceiving()

			if interactive {
				fmt.Print("> ")
			}
			for {
				line, ok := lines.ReadLine()
				if !ok {
					break
				}
				if line != "" {
					conn.Send(line)
				}
				if interactive {
					fmt.Print("> ")
				}
			}

			if conn.Closed() {
				cfg.Logger.InfoMsg("Connection lost\n")
			}

			return conn.Close()
		},
		Flags: shared.GetCommonFlags(),
	}
}

// printer writes received payloads to stdout.
type printer struct {
	prompt bool
}

func (p *printer) OnMessage(_ *handler.Conn, payload any) {
	if p.prompt {
		fmt.Print("\r")
	}
	fmt.Printf("%v\n", payload)
	if p.prompt {
		fmt.Print("> ")
	}
}

// unblocker cancels the stdin reader when the peer disconnects, so the
// interactive loop does not hang on a dead connection.
type unblocker struct {
	lines *stdio.LineReader
}

func (u *unblocker) OnDisconnected(_ *handler.Conn) {
	u.lines.Cancel()
}
