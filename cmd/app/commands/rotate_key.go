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

// Rotation actions accepted by RunRotateKey.
const (
	RotateActionBegin    = "begin"
	RotateActionActivate = "activate"
	RotateActionRevert   = "revert"
)

// RunRotateKey drives one rotation step for a credential of an environment.
//
//   - begin stores a fresh pending value and prints it; the active value keeps working.
//   - activate promotes the pending value; the old value stops working.
//   - revert discards the pending value and prints the active one.
//
// Requirements: Database must be migrated and ENCRYPTION_KEY must match the one
// the environment was written with.
func RunRotateKey(
	ctx context.Context,
	rotationUseCase envUseCase.RotationUseCase,
	logger *slog.Logger,
	writer io.Writer,
	envID int64,
	credentialType string,
	action string,
	format string,
) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	t, err := envDomain.ParseCredentialType(credentialType)
	if err != nil {
		return fmt.Errorf("invalid type: %s (valid options: secret, public)", credentialType)
	}

	var value string
	switch action {
	case RotateActionBegin:
		value, err = rotationUseCase.BeginRotation(ctx, envID, t)
	case RotateActionActivate:
		err = rotationUseCase.Activate(ctx, envID, t)
	case RotateActionRevert:
		value, err = rotationUseCase.Revert(ctx, envID, t)
	default:
		return fmt.Errorf("invalid action: %s (valid options: begin, activate, revert)", action)
	}
	if err != nil {
		return fmt.Errorf("failed to %s %s key rotation: %w", action, t, err)
	}

	state, err := rotationUseCase.State(ctx, envID, t)
	if err != nil {
		return fmt.Errorf("failed to read rotation state: %w", err)
	}

	logger.Info("key rotation step completed",
		slog.Int64("environment_id", envID),
		slog.String("type", string(t)),
		slog.String("action", action),
		slog.String("state", string(state)),
	)

	output := dto.KeyResponse{Type: string(t), Value: value, State: string(state)}
	return writeResult(writer, format, output, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Type:  %s\n", output.Type)
		_, _ = fmt.Fprintf(w, "State: %s\n", output.State)
		if output.Value != "" {
			_, _ = fmt.Fprintf(w, "Value: %s\n", output.Value)
		}
	})
}
