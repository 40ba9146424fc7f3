package service

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
)

func newTestFieldCipher(t *testing.T, alg cryptoDomain.Algorithm) FieldCipher {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := NewFieldCipher(&cryptoDomain.EncryptionKey{Key: key, Algorithm: alg}, NewAEADManager())
	require.NoError(t, err)
	return cipher
}

func TestFieldCipher_RoundTrip(t *testing.T) {
	values := []string{
		"",
		"sk_live_3f1c2d",
		"value:with:colons",
		"a|b|c",
		"line1\nline2",
		"base64==padding==",
		"ünïcödé ✓",
	}

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		cipher := newTestFieldCipher(t, alg)
		assert.True(t, cipher.Enabled())

		for _, value := range values {
			field, err := cipher.Encrypt(value)
			require.NoError(t, err)
			assert.NotEmpty(t, field.IV)
			assert.NotEmpty(t, field.Tag)
			if value != "" {
				assert.NotEqual(t, value, field.Ciphertext)
			}

			tag, err := base64.StdEncoding.DecodeString(field.Tag)
			require.NoError(t, err)
			assert.Len(t, tag, cryptoDomain.TagSize)

			decrypted, err := cipher.Decrypt(field)
			require.NoError(t, err)
			assert.Equal(t, value, decrypted, "algorithm %s", alg)
		}
	}
}

func TestFieldCipher_FailsClosed(t *testing.T) {
	cipher := newTestFieldCipher(t, cryptoDomain.AESGCM)
	field, err := cipher.Encrypt("sk_live_secret")
	require.NoError(t, err)

	t.Run("tampered tag", func(t *testing.T) {
		tag, err := base64.StdEncoding.DecodeString(field.Tag)
		require.NoError(t, err)
		tag[0] ^= 0x01
		tampered := field
		tampered.Tag = base64.StdEncoding.EncodeToString(tag)

		plaintext, err := cipher.Decrypt(tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Empty(t, plaintext)
	})

	t.Run("iv swapped from another field", func(t *testing.T) {
		other, err := cipher.Encrypt("sk_live_secret")
		require.NoError(t, err)
		tampered := field
		tampered.IV = other.IV

		_, err = cipher.Decrypt(tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("invalid base64", func(t *testing.T) {
		tampered := field
		tampered.Ciphertext = "%%%"

		_, err := cipher.Decrypt(tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("missing tag", func(t *testing.T) {
		tampered := field
		tampered.Tag = ""

		_, err := cipher.Decrypt(tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("different key", func(t *testing.T) {
		other := newTestFieldCipher(t, cryptoDomain.AESGCM)

		_, err := other.Decrypt(field)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("encrypted field with encryption disabled", func(t *testing.T) {
		disabled, err := NewFieldCipher(&cryptoDomain.EncryptionKey{}, NewAEADManager())
		require.NoError(t, err)

		_, err = disabled.Decrypt(field)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestFieldCipher_Disabled(t *testing.T) {
	cipher, err := NewFieldCipher(&cryptoDomain.EncryptionKey{Algorithm: cryptoDomain.AESGCM}, NewAEADManager())
	require.NoError(t, err)
	assert.False(t, cipher.Enabled())

	field, err := cipher.Encrypt("plain")
	require.NoError(t, err)
	assert.Equal(t, cryptoDomain.EncryptedField{Ciphertext: "plain"}, field)

	value, err := cipher.Decrypt(field)
	require.NoError(t, err)
	assert.Equal(t, "plain", value)
}

func TestFieldCipher_PlaintextRowsReadWhenEnabled(t *testing.T) {
	cipher := newTestFieldCipher(t, cryptoDomain.AESGCM)

	value, err := cipher.Decrypt(cryptoDomain.EncryptedField{Ciphertext: "legacy"})
	require.NoError(t, err)
	assert.Equal(t, "legacy", value)
}

func TestNewFieldCipher_UnsupportedAlgorithm(t *testing.T) {
	key := make([]byte, cryptoDomain.KeySize)
	_, err := NewFieldCipher(&cryptoDomain.EncryptionKey{Key: key, Algorithm: "des"}, NewAEADManager())
	assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
}
