package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
	cryptoService "github.com/allisson/envkeys/internal/crypto/service"
)

type encryptionKeyOutput struct {
	EncryptionKey string `json:"encryption_key"`
	KMSKeyURI     string `json:"kms_key_uri,omitempty"`
	Algorithm     string `json:"encryption_algorithm"`
}

// RunCreateEncryptionKey generates a 32-byte encryption key for credential fields.
// With kmsKeyURI set the key is wrapped by that KMS key and the ciphertext is printed
// instead; the server unwraps it at startup. Key material is zeroed after encoding.
//
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>". Never use
// the base64key provider in production.
func RunCreateEncryptionKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
	algorithm string,
	format string,
) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if alg := cryptoDomain.Algorithm(algorithm); alg != cryptoDomain.AESGCM && alg != cryptoDomain.ChaCha20 {
		return fmt.Errorf("invalid algorithm: %s (valid options: aes-gcm, chacha20-poly1305)", algorithm)
	}

	key := make([]byte, cryptoDomain.KeySize)
	defer cryptoDomain.Wipe(key)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}

	encoded := key
	if kmsKeyURI != "" {
		keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()

		encoded, err = keeper.Encrypt(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to encrypt encryption key with KMS: %w", err)
		}
		logger.Info("encryption key wrapped with KMS")
	}

	output := encryptionKeyOutput{
		EncryptionKey: base64.StdEncoding.EncodeToString(encoded),
		KMSKeyURI:     kmsKeyURI,
		Algorithm:     algorithm,
	}

	return writeResult(writer, format, output, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "# Copy these environment variables to your .env file or secrets manager")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "ENCRYPTION_KEY=\"%s\"\n", output.EncryptionKey)
		_, _ = fmt.Fprintf(w, "ENCRYPTION_ALGORITHM=\"%s\"\n", output.Algorithm)
		if output.KMSKeyURI != "" {
			_, _ = fmt.Fprintf(w, "KMS_KEY_URI=\"%s\"\n", output.KMSKeyURI)
		}
	})
}
