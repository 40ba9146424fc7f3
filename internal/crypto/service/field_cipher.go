package service

import (
	"encoding/base64"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
)

type fieldCipher struct {
	aead AEAD
}

// NewFieldCipher builds the FieldCipher for key. A disabled key produces a
// pass-through cipher that stores values as plaintext without IV or tag.
func NewFieldCipher(key *cryptoDomain.EncryptionKey, manager AEADManager) (FieldCipher, error) {
	if !key.Enabled() {
		return &fieldCipher{}, nil
	}

	aead, err := manager.CreateCipher(key.Key, key.Algorithm)
	if err != nil {
		return nil, err
	}
	return &fieldCipher{aead: aead}, nil
}

func (f *fieldCipher) Enabled() bool {
	return f.aead != nil
}

// Encrypt seals plaintext and splits the trailing tag off the ciphertext so the
// two are persisted separately.
func (f *fieldCipher) Encrypt(plaintext string) (cryptoDomain.EncryptedField, error) {
	if f.aead == nil {
		return cryptoDomain.EncryptedField{Ciphertext: plaintext}, nil
	}

	sealed, nonce, err := f.aead.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return cryptoDomain.EncryptedField{}, err
	}

	split := len(sealed) - cryptoDomain.TagSize
	return cryptoDomain.EncryptedField{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed[:split]),
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Tag:        base64.StdEncoding.EncodeToString(sealed[split:]),
	}, nil
}

// Decrypt returns the plaintext of field. A field without IV and tag was written
// while encryption was disabled and is returned as stored. Anything else that does
// not verify is ErrDecryptionFailed.
func (f *fieldCipher) Decrypt(field cryptoDomain.EncryptedField) (string, error) {
	if field.IV == "" && field.Tag == "" {
		return field.Ciphertext, nil
	}
	if f.aead == nil || field.IV == "" || field.Tag == "" {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	ciphertext, err := base64.StdEncoding.DecodeString(field.Ciphertext)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(field.IV)
	if err != nil || len(nonce) != cryptoDomain.NonceSize {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	tag, err := base64.StdEncoding.DecodeString(field.Tag)
	if err != nil || len(tag) != cryptoDomain.TagSize {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := f.aead.Decrypt(append(ciphertext, tag...), nonce, nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}
