// Package main is the envkeys binary: the API server plus the operator commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:     "envkeys",
		Usage:    "Environment credential resolution and key rotation",
		Version:  version,
		Commands: getCommands(version),
	}
}

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
