package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envkeys/cmd/app/commands"
	"github.com/allisson/envkeys/internal/app"
)

func getEnvironmentCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-account",
			Usage: "Create an account with its default prod and dev environments",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Account name",
				},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAccount(
					ctx,
					accountUseCase,
					container.Logger(),
					stdout(cmd),
					cmd.String("name"),
					cmd.String("format"),
				)
			}),
		},
		{
			Name:  "create-environment",
			Usage: "Add an environment to an account",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:     "account-id",
					Required: true,
					Usage:    "Owning account ID",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Environment name (e.g., staging)",
				},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				environmentUseCase, err := container.EnvironmentUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateEnvironment(
					ctx,
					environmentUseCase,
					container.Logger(),
					stdout(cmd),
					cmd.Int64("account-id"),
					cmd.String("name"),
					cmd.String("format"),
				)
			}),
		},
		{
			Name:  "list-environments",
			Usage: "List the environments of an account",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:     "account-id",
					Required: true,
					Usage:    "Account ID",
				},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				environmentUseCase, err := container.EnvironmentUseCase()
				if err != nil {
					return err
				}

				return commands.RunListEnvironments(
					ctx,
					environmentUseCase,
					stdout(cmd),
					cmd.Int64("account-id"),
					cmd.String("format"),
				)
			}),
		},
	}
}
