package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
	cryptoService "github.com/allisson/envkeys/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// EncryptionKey returns the process-wide encryption key, unwrapped through KMS
// when a key URI is configured.
func (c *Container) EncryptionKey() (*cryptoDomain.EncryptionKey, error) {
	var err error
	c.encryptionKeyInit.Do(func() {
		c.encryptionKey, err = c.initEncryptionKey()
		if err != nil {
			c.initErrors["encryptionKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionKey"]; exists {
		return nil, storedErr
	}
	return c.encryptionKey, nil
}

// FieldCipher returns the cipher for credential fields.
func (c *Container) FieldCipher() (cryptoService.FieldCipher, error) {
	var err error
	c.fieldCipherInit.Do(func() {
		c.fieldCipher, err = c.initFieldCipher()
		if err != nil {
			c.initErrors["fieldCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldCipher"]; exists {
		return nil, storedErr
	}
	return c.fieldCipher, nil
}

// SecretHasher returns the secret key hash derivation.
func (c *Container) SecretHasher() (cryptoService.SecretHasher, error) {
	var err error
	c.secretHasherInit.Do(func() {
		var key *cryptoDomain.EncryptionKey
		key, err = c.EncryptionKey()
		if err != nil {
			err = fmt.Errorf("failed to get encryption key for secret hasher: %w", err)
			c.initErrors["secretHasher"] = err
			return
		}
		c.secretHasher = cryptoService.NewSecretHasher(key)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretHasher"]; exists {
		return nil, storedErr
	}
	return c.secretHasher, nil
}

func (c *Container) initEncryptionKey() (*cryptoDomain.EncryptionKey, error) {
	ctx := context.Background()
	logger := c.Logger()

	var keeper cryptoDomain.KMSKeeper
	if c.config.KMSKeyURI != "" {
		opened, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			return nil, err
		}
		defer func() {
			if closeErr := opened.Close(); closeErr != nil {
				logger.Warn("failed to close kms keeper", "error", closeErr)
			}
		}()
		keeper = opened
	}

	key, err := cryptoDomain.ParseEncryptionKey(
		ctx,
		c.config.EncryptionKey,
		cryptoDomain.Algorithm(c.config.EncryptionAlgorithm),
		keeper,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load encryption key: %w", err)
	}

	if !key.Enabled() {
		logger.Warn("ENCRYPTION_KEY is not set: credentials are stored in plaintext and secret keys are not hashed")
	} else {
		logger.Info("encryption key loaded",
			"algorithm", string(key.Algorithm),
			"kms", c.config.KMSKeyURI != "")
	}

	return key, nil
}

func (c *Container) initFieldCipher() (cryptoService.FieldCipher, error) {
	key, err := c.EncryptionKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption key for field cipher: %w", err)
	}
	return cryptoService.NewFieldCipher(key, c.AEADManager())
}
