package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	"github.com/allisson/envkeys/internal/environment/http/dto"
	envUseCase "github.com/allisson/envkeys/internal/environment/usecase"
)

// RunCreateAccount provisions an account with its default environments and prints
// their credentials. Secret keys are shown only here.
//
// Requirements: Database must be migrated and ENCRYPTION_KEY must be set.
func RunCreateAccount(
	ctx context.Context,
	accountUseCase envUseCase.AccountUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	format string,
) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	logger.Info("creating account", slog.String("name", name))

	account, envs, err := accountUseCase.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	logger.Info("account created successfully",
		slog.Int64("account_id", account.ID),
		slog.Int("environments", len(envs)),
	)

	return writeResult(writer, format, dto.MapCreatedAccountToResponse(account, envs), func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Account ID:   %d\n", account.ID)
		_, _ = fmt.Fprintf(w, "Account UUID: %s\n", account.UUID)
		_, _ = fmt.Fprintf(w, "Name:         %s\n", account.Name)
		for _, env := range envs {
			_, _ = fmt.Fprintln(w)
			writeEnvironmentText(w, env, true)
		}
	})
}

// RunCreateEnvironment adds a named environment to an existing account.
//
// Requirements: Database must be migrated and the account must exist.
func RunCreateEnvironment(
	ctx context.Context,
	environmentUseCase envUseCase.EnvironmentUseCase,
	logger *slog.Logger,
	writer io.Writer,
	accountID int64,
	name string,
	format string,
) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	logger.Info("creating environment", slog.Int64("account_id", accountID), slog.String("name", name))

	env, err := environmentUseCase.Create(ctx, accountID, name)
	if err != nil {
		return fmt.Errorf("failed to create environment: %w", err)
	}

	logger.Info("environment created successfully", slog.Int64("environment_id", env.ID))

	return writeResult(writer, format, dto.MapCreatedEnvironmentToResponse(env), func(w io.Writer) {
		writeEnvironmentText(w, env, true)
	})
}

// RunListEnvironments prints the live environments of an account. Secret keys are omitted.
func RunListEnvironments(
	ctx context.Context,
	environmentUseCase envUseCase.EnvironmentUseCase,
	writer io.Writer,
	accountID int64,
	format string,
) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	envs, err := environmentUseCase.ListByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to list environments: %w", err)
	}

	return writeResult(writer, format, dto.MapEnvironmentsToListResponse(envs), func(w io.Writer) {
		if len(envs) == 0 {
			_, _ = fmt.Fprintln(w, "No environments found")
			return
		}
		for i, env := range envs {
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			writeEnvironmentText(w, env, false)
		}
	})
}

func writeEnvironmentText(w io.Writer, env *envDomain.Environment, withSecret bool) {
	_, _ = fmt.Fprintf(w, "Environment:  %s (id %d)\n", env.Name, env.ID)
	_, _ = fmt.Fprintf(w, "UUID:         %s\n", env.UUID)
	if withSecret {
		_, _ = fmt.Fprintf(w, "Secret key:   %s\n", env.SecretKey)
	}
	_, _ = fmt.Fprintf(w, "Public key:   %s\n", env.PublicKey)
	_, _ = fmt.Fprintf(w, "Rotation:     secret=%s public=%s\n",
		env.RotationState(envDomain.CredentialSecret),
		env.RotationState(envDomain.CredentialPublic),
	)
}
