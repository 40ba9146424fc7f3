package service

import (
	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
	cryptoService "github.com/allisson/envkeys/internal/crypto/service"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

// Encryptor converts environments and variables between their in-memory and
// persisted forms. Inputs are never modified; a converted copy is returned.
type Encryptor struct {
	cipher cryptoService.FieldCipher
}

// NewEncryptor creates an Encryptor over cipher.
func NewEncryptor(cipher cryptoService.FieldCipher) *Encryptor {
	return &Encryptor{cipher: cipher}
}

// EncryptEnvironment encrypts the active and pending secret keys.
func (e *Encryptor) EncryptEnvironment(env *envDomain.Environment) (*envDomain.Environment, error) {
	out := *env

	active, err := e.cipher.Encrypt(env.SecretKey)
	if err != nil {
		return nil, err
	}
	out.SecretKey, out.SecretKeyIV, out.SecretKeyTag = unpack(active)

	out.PendingSecretKey, out.PendingSecretKeyIV, out.PendingSecretKeyTag = nil, nil, nil
	if env.PendingSecretKey != nil {
		pending, err := e.cipher.Encrypt(*env.PendingSecretKey)
		if err != nil {
			return nil, err
		}
		ciphertext, iv, tag := unpack(pending)
		out.PendingSecretKey, out.PendingSecretKeyIV, out.PendingSecretKeyTag = &ciphertext, iv, tag
	}

	return &out, nil
}

// DecryptEnvironment decrypts the active and pending secret keys. It fails with
// ErrDecryptionFailed, returning no environment, if either does not verify.
func (e *Encryptor) DecryptEnvironment(env *envDomain.Environment) (*envDomain.Environment, error) {
	out := *env

	active, err := e.cipher.Decrypt(pack(env.SecretKey, env.SecretKeyIV, env.SecretKeyTag))
	if err != nil {
		return nil, err
	}
	out.SecretKey, out.SecretKeyIV, out.SecretKeyTag = active, nil, nil

	if env.PendingSecretKey != nil {
		pending, err := e.cipher.Decrypt(pack(*env.PendingSecretKey, env.PendingSecretKeyIV, env.PendingSecretKeyTag))
		if err != nil {
			return nil, err
		}
		out.PendingSecretKey = &pending
	}
	out.PendingSecretKeyIV, out.PendingSecretKeyTag = nil, nil

	return &out, nil
}

// EncryptVariable encrypts the variable value.
func (e *Encryptor) EncryptVariable(
	variable *envDomain.EnvironmentVariable,
) (*envDomain.EnvironmentVariable, error) {
	out := *variable

	field, err := e.cipher.Encrypt(variable.Value)
	if err != nil {
		return nil, err
	}
	out.Value, out.ValueIV, out.ValueTag = unpack(field)

	return &out, nil
}

// DecryptVariable decrypts the variable value.
func (e *Encryptor) DecryptVariable(
	variable *envDomain.EnvironmentVariable,
) (*envDomain.EnvironmentVariable, error) {
	out := *variable

	value, err := e.cipher.Decrypt(pack(variable.Value, variable.ValueIV, variable.ValueTag))
	if err != nil {
		return nil, err
	}
	out.Value, out.ValueIV, out.ValueTag = value, nil, nil

	return &out, nil
}

// EncryptValue encrypts a lone credential value, as written into a pending slot.
func (e *Encryptor) EncryptValue(plaintext string) (cryptoDomain.EncryptedField, error) {
	return e.cipher.Encrypt(plaintext)
}

func pack(ciphertext string, iv, tag *string) cryptoDomain.EncryptedField {
	field := cryptoDomain.EncryptedField{Ciphertext: ciphertext}
	if iv != nil {
		field.IV = *iv
	}
	if tag != nil {
		field.Tag = *tag
	}
	return field
}

func unpack(field cryptoDomain.EncryptedField) (ciphertext string, iv, tag *string) {
	ciphertext = field.Ciphertext
	if field.IV != "" {
		iv = &field.IV
	}
	if field.Tag != "" {
		tag = &field.Tag
	}
	return ciphertext, iv, tag
}
