package commands

import (
	"fmt"
	"io"
	"log/slog"

	envService "github.com/allisson/envkeys/internal/environment/service"
)

type adminTokenOutput struct {
	Token     string `json:"token,omitempty"`
	TokenHash string `json:"token_hash"`
}

// RunHashAdminToken prints the ADMIN_TOKEN_HASH for the management API. An empty
// token generates a random one, which is printed once alongside its hash.
func RunHashAdminToken(
	tokenService envService.AdminTokenService,
	logger *slog.Logger,
	writer io.Writer,
	token string,
	format string,
) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	output := adminTokenOutput{}
	if token == "" {
		plain, hash, err := tokenService.GenerateToken()
		if err != nil {
			return fmt.Errorf("failed to generate admin token: %w", err)
		}
		output.Token = plain
		output.TokenHash = hash
		logger.Info("admin token generated")
	} else {
		hash, err := tokenService.HashToken(token)
		if err != nil {
			return fmt.Errorf("failed to hash admin token: %w", err)
		}
		output.TokenHash = hash
	}

	return writeResult(writer, format, output, func(w io.Writer) {
		if output.Token != "" {
			_, _ = fmt.Fprintf(w, "# Admin token (shown once): %s\n", output.Token)
		}
		_, _ = fmt.Fprintf(w, "ADMIN_TOKEN_HASH='%s'\n", output.TokenHash)
	})
}
