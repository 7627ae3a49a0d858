package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"cristiangs/gobcast/cmd/connect"
	"cristiangs/gobcast/cmd/listen"
	"cristiangs/gobcast/cmd/version"
	"cristiangs/gobcast/pkg/log"
)

func main() {
	app := &cli.Command{
		Name:  "gobcast",
		Usage: "broadcast framed objects between socket endpoints",
		Commands: []*cli.Command{
			listen.GetCommand(),
			connect.GetCommand(),
			version.GetCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.ErrorMsg("%s\n", err)
		os.Exit(1)
	}
}
