package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
)

func TestAEADCiphers(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			cipher, err := NewAEADManager().CreateCipher(key, alg)
			require.NoError(t, err)

			t.Run("round trip with AAD", func(t *testing.T) {
				plaintext := []byte("Hello, World!")
				aad := []byte("environment:42")

				ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
				require.NoError(t, err)
				assert.Len(t, nonce, cryptoDomain.NonceSize)
				assert.Len(t, ciphertext, len(plaintext)+cryptoDomain.TagSize)

				decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
				require.NoError(t, err)
				assert.Equal(t, plaintext, decrypted)
			})

			t.Run("unique nonce per encryption", func(t *testing.T) {
				_, nonce1, err := cipher.Encrypt([]byte("same"), nil)
				require.NoError(t, err)
				_, nonce2, err := cipher.Encrypt([]byte("same"), nil)
				require.NoError(t, err)
				assert.NotEqual(t, nonce1, nonce2)
			})

			t.Run("wrong AAD fails", func(t *testing.T) {
				ciphertext, nonce, err := cipher.Encrypt([]byte("data"), []byte("a"))
				require.NoError(t, err)

				_, err = cipher.Decrypt(ciphertext, nonce, []byte("b"))
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("tampered ciphertext fails", func(t *testing.T) {
				ciphertext, nonce, err := cipher.Encrypt([]byte("data"), nil)
				require.NoError(t, err)
				ciphertext[0] ^= 0xff

				_, err = cipher.Decrypt(ciphertext, nonce, nil)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})

			t.Run("short nonce fails", func(t *testing.T) {
				ciphertext, _, err := cipher.Encrypt([]byte("data"), nil)
				require.NoError(t, err)

				_, err = cipher.Decrypt(ciphertext, []byte{1, 2, 3}, nil)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})
		})
	}

	t.Run("invalid key size", func(t *testing.T) {
		_, err := NewAESGCM(make([]byte, 16))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)

		_, err = NewChaCha20Poly1305(make([]byte, 64))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})
}

func TestAEADManager_Rejects(t *testing.T) {
	manager := NewAEADManager()

	_, err := manager.CreateCipher(make([]byte, 16), cryptoDomain.Algorithm("rc4"))
	assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)

	_, err = manager.CreateCipher(make([]byte, 16), cryptoDomain.ChaCha20)
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)

	_, err = manager.CreateCipher(nil, cryptoDomain.AESGCM)
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
}
