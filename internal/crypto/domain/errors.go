package domain

import (
	"github.com/allisson/envkeys/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so the
// HTTP layer maps them to status codes without knowing about cryptography.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305).
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the encryption key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidEncryptionKey indicates ENCRYPTION_KEY could not be decoded or unwrapped.
	ErrInvalidEncryptionKey = errors.Wrap(errors.ErrInvalidInput, "invalid encryption key")

	// ErrDecryptionFailed indicates a stored field could not be decrypted.
	//
	// This covers a wrong key, tampered ciphertext, a malformed IV or tag and
	// invalid base64. The cause is not disclosed. A field that fails here is
	// never returned as plaintext.
	ErrDecryptionFailed = errors.New("decryption failed")
)
