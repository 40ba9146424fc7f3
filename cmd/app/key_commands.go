package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/envkeys/cmd/app/commands"
	"github.com/allisson/envkeys/internal/app"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-encryption-key",
			Usage: "Generate the key protecting credentials at rest",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "Wrap the key with this KMS key (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Value:   "aes-gcm",
					Usage:   "Encryption algorithm to use (aes-gcm or chacha20-poly1305)",
				},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				return commands.RunCreateEncryptionKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					stdout(cmd),
					cmd.String("kms-key-uri"),
					cmd.String("algorithm"),
					cmd.String("format"),
				)
			}),
		},
		{
			Name:  "hash-admin-token",
			Usage: "Hash a management API token for ADMIN_TOKEN_HASH (generates one when --token is omitted)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "token",
					Aliases: []string{"t"},
					Usage:   "Token to hash",
				},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				return commands.RunHashAdminToken(
					container.AdminTokenService(),
					container.Logger(),
					stdout(cmd),
					cmd.String("token"),
					cmd.String("format"),
				)
			}),
		},
		{
			Name:  "rotate-key",
			Usage: "Begin, activate or revert the rotation of an environment credential",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:     "environment-id",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Environment ID",
				},
				&cli.StringFlag{
					Name:     "type",
					Required: true,
					Usage:    "Credential type: 'secret' or 'public'",
				},
				&cli.StringFlag{
					Name:     "action",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Rotation step: 'begin', 'activate' or 'revert'",
				},
				formatFlag(),
			},
			Action: withContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				rotationUseCase, err := container.RotationUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateKey(
					ctx,
					rotationUseCase,
					container.Logger(),
					stdout(cmd),
					cmd.Int64("environment-id"),
					cmd.String("type"),
					cmd.String("action"),
					cmd.String("format"),
				)
			}),
		},
	}
}
