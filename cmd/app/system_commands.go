package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envkeys/cmd/app/commands"
	"github.com/allisson/envkeys/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "migrations-dir",
					Value: "migrations",
					Usage: "Directory holding the postgresql and mysql migration folders",
				},
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				db, err := container.DB()
				if err != nil {
					return err
				}

				return commands.RunMigrations(
					container.Logger(),
					db,
					container.Config().DBDriver,
					cmd.String("migrations-dir"),
				)
			}),
		},
	}
}
