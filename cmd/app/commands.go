package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envkeys/internal/app"
	"github.com/allisson/envkeys/internal/config"
)

func getCommands(version string) []*cli.Command {
	var all []*cli.Command
	for _, group := range [][]*cli.Command{
		getSystemCommands(version),
		getKeyCommands(),
		getEnvironmentCommands(),
	} {
		all = append(all, group...)
	}
	return all
}

// withContainer gives run a container built from the environment and shuts it
// down when run returns.
func withContainer(run func(ctx context.Context, cmd *cli.Command, c *app.Container) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container := app.NewContainer(config.Load())
		defer func() {
			if err := container.Shutdown(context.WithoutCancel(ctx)); err != nil {
				container.Logger().Warn("container shutdown failed", slog.Any("error", err))
			}
		}()
		return run(ctx, cmd, container)
	}
}

// stdout is where command results go; tests replace the root command's Writer.
func stdout(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: text or json",
	}
}
