// Package service provides the cryptographic services protecting credentials at rest:
// AEAD ciphers, per-field envelope encryption, the secret hash derivation and KMS access.
package service

import (
	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext (tag appended) and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext (tag appended) using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// FieldCipher encrypts single credential values into their persisted form.
type FieldCipher interface {
	// Enabled reports whether an encryption key is configured.
	Enabled() bool

	// Encrypt returns the persisted form of plaintext. Every call uses a fresh IV.
	Encrypt(plaintext string) (cryptoDomain.EncryptedField, error)

	// Decrypt reverses Encrypt. It returns ErrDecryptionFailed when the tag does not verify.
	Decrypt(field cryptoDomain.EncryptedField) (string, error)
}

// SecretHasher derives the lookup hash of a secret key.
type SecretHasher interface {
	// Hash is deterministic and deliberately slow.
	Hash(plaintext string) string
}
