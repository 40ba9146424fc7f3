package domain

import (
	"context"
	"encoding/base64"
	"fmt"
)

// KMSKeeper unwraps the encryption key when it is stored as KMS ciphertext.
// *secrets.Keeper from gocloud.dev satisfies it.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Close() error
}

// EncryptionKey is the process-wide key protecting credential fields at rest.
//
// A zero value (no key bytes) means encryption is disabled: fields are stored
// as plaintext and secret hashing degrades to the identity function. That mode
// exists for local development only.
type EncryptionKey struct {
	Key       []byte
	Algorithm Algorithm
}

// Enabled reports whether a key is configured.
func (k *EncryptionKey) Enabled() bool {
	return k != nil && len(k.Key) > 0
}

// Close wipes the key material.
func (k *EncryptionKey) Close() {
	if k == nil {
		return
	}
	Wipe(k.Key)
	k.Key = nil
}

// Wipe overwrites key material in place once it is no longer needed.
func Wipe(b []byte) {
	clear(b)
}

// ParseEncryptionKey decodes a base64 encryption key. When keeper is not nil the
// decoded bytes are KMS ciphertext and are unwrapped first. An empty value yields
// a disabled key.
func ParseEncryptionKey(
	ctx context.Context,
	encoded string,
	alg Algorithm,
	keeper KMSKeeper,
) (*EncryptionKey, error) {
	if alg != AESGCM && alg != ChaCha20 {
		return nil, ErrUnsupportedAlgorithm
	}
	if encoded == "" {
		return &EncryptionKey{Algorithm: alg}, nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncryptionKey, err)
	}

	if keeper != nil {
		wrapped := raw
		raw, err = keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, fmt.Errorf("%w: kms decrypt: %v", ErrInvalidEncryptionKey, err)
		}
	}

	if len(raw) != KeySize {
		Wipe(raw)
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(raw))
	}

	return &EncryptionKey{Key: raw, Algorithm: alg}, nil
}
