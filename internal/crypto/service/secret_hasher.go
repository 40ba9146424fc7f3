package service

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
)

type pbkdf2Hasher struct {
	salt []byte
}

// NewSecretHasher returns the PBKDF2-HMAC-SHA256 hasher salted with the
// encryption key. Without a key configured the hasher returns its input
// unchanged, which is only acceptable outside production.
func NewSecretHasher(key *cryptoDomain.EncryptionKey) SecretHasher {
	if !key.Enabled() {
		return &pbkdf2Hasher{}
	}
	salt := make([]byte, len(key.Key))
	copy(salt, key.Key)
	return &pbkdf2Hasher{salt: salt}
}

func (h *pbkdf2Hasher) Hash(plaintext string) string {
	if len(h.salt) == 0 {
		return plaintext
	}

	derived := pbkdf2.Key(
		[]byte(plaintext),
		h.salt,
		cryptoDomain.HashIterations,
		cryptoDomain.HashKeyLength,
		sha256.New,
	)
	return base64.StdEncoding.EncodeToString(derived)
}
