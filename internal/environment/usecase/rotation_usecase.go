package usecase

import (
	"context"

	cryptoService "github.com/allisson/envkeys/internal/crypto/service"
	"github.com/allisson/envkeys/internal/database"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

// rotationUseCase implements the RotationUseCase interface.
//
// Every transition runs in its own transaction with the environment row locked.
// BeginRotation and Activate are independent transactions.
type rotationUseCase struct {
	txManager database.TxManager
	envRepo   EnvironmentRepository
	encryptor EnvironmentEncryptor
	hasher    cryptoService.SecretHasher
	generator CredentialGenerator
	cache     HashCache
}

// BeginRotation writes a freshly generated value into the pending slot.
func (r *rotationUseCase) BeginRotation(
	ctx context.Context,
	envID int64,
	t envDomain.CredentialType,
) (string, error) {
	if err := checkCredentialType(t); err != nil {
		return "", err
	}

	var pending string
	err := r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := r.envRepo.GetForUpdate(txCtx, envID); err != nil {
			return err
		}

		if t == envDomain.CredentialPublic {
			pending = r.generator.PublicKey()
			return r.envRepo.SetPendingPublicKey(txCtx, envID, pending)
		}

		pending = r.generator.SecretKey()
		field, err := r.encryptor.EncryptValue(pending)
		if err != nil {
			return err
		}
		return r.envRepo.SetPendingSecretKey(txCtx, envID, field)
	})
	if err != nil {
		return "", err
	}

	return pending, nil
}

// Activate promotes the pending value to active.
func (r *rotationUseCase) Activate(ctx context.Context, envID int64, t envDomain.CredentialType) error {
	if err := checkCredentialType(t); err != nil {
		return err
	}

	if t == envDomain.CredentialPublic {
		return r.txManager.WithTx(ctx, func(txCtx context.Context) error {
			env, err := r.envRepo.GetForUpdate(txCtx, envID)
			if err != nil {
				return err
			}
			if env.PendingPublicKey == nil {
				return envDomain.ErrInvalidRotationState
			}

			promoted, err := r.envRepo.ActivatePublicKey(txCtx, envID)
			if err != nil {
				return err
			}
			if !promoted {
				return envDomain.ErrInvalidRotationState
			}
			return nil
		})
	}

	return r.activateSecretKey(ctx, envID)
}

// activateSecretKey derives the new hash before taking the row lock. The
// promotion is conditional on the pending ciphertext still being the one that
// was hashed, so a concurrent BeginRotation makes it fail instead of storing a
// hash that does not match the promoted key.
func (r *rotationUseCase) activateSecretKey(ctx context.Context, envID int64) error {
	current, err := r.envRepo.Get(ctx, envID)
	if err != nil {
		return err
	}
	if current.PendingSecretKey == nil {
		return envDomain.ErrInvalidRotationState
	}
	pendingCiphertext := *current.PendingSecretKey

	decrypted, err := r.encryptor.DecryptEnvironment(current)
	if err != nil {
		return err
	}
	hash := r.hasher.Hash(*decrypted.PendingSecretKey)

	err = r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		locked, err := r.envRepo.GetForUpdate(txCtx, envID)
		if err != nil {
			return err
		}
		if locked.PendingSecretKey == nil || *locked.PendingSecretKey != pendingCiphertext {
			return envDomain.ErrInvalidRotationState
		}

		promoted, err := r.envRepo.ActivateSecretKey(txCtx, envID, pendingCiphertext, hash)
		if err != nil {
			return err
		}
		if !promoted {
			return envDomain.ErrInvalidRotationState
		}
		return nil
	})
	if err != nil {
		return err
	}

	// The old key no longer matches any row.
	r.cache.Delete(decrypted.SecretKey)

	return nil
}

// Revert discards the pending value and returns the active one. Reverting
// without a pending value is a no-op.
func (r *rotationUseCase) Revert(
	ctx context.Context,
	envID int64,
	t envDomain.CredentialType,
) (string, error) {
	if err := checkCredentialType(t); err != nil {
		return "", err
	}

	var env *envDomain.Environment
	err := r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		locked, err := r.envRepo.GetForUpdate(txCtx, envID)
		if err != nil {
			return err
		}
		env = locked

		if locked.RotationState(t) == envDomain.RotationStable {
			return nil
		}
		if t == envDomain.CredentialPublic {
			return r.envRepo.ClearPendingPublicKey(txCtx, envID)
		}
		return r.envRepo.ClearPendingSecretKey(txCtx, envID)
	})
	if err != nil {
		return "", err
	}

	if t == envDomain.CredentialPublic {
		return env.PublicKey, nil
	}

	decrypted, err := r.encryptor.DecryptEnvironment(env)
	if err != nil {
		return "", err
	}
	return decrypted.SecretKey, nil
}

// State reports whether a rotation of t is in flight.
func (r *rotationUseCase) State(
	ctx context.Context,
	envID int64,
	t envDomain.CredentialType,
) (envDomain.RotationState, error) {
	if err := checkCredentialType(t); err != nil {
		return "", err
	}

	env, err := r.envRepo.Get(ctx, envID)
	if err != nil {
		return "", err
	}
	return env.RotationState(t), nil
}

func checkCredentialType(t envDomain.CredentialType) error {
	if t != envDomain.CredentialSecret && t != envDomain.CredentialPublic {
		return envDomain.ErrInvalidCredentialType
	}
	return nil
}

// NewRotationUseCase creates a new RotationUseCase. cache is the resolver's
// hash cache; entries for superseded secret keys are dropped on activation.
func NewRotationUseCase(
	txManager database.TxManager,
	envRepo EnvironmentRepository,
	encryptor EnvironmentEncryptor,
	hasher cryptoService.SecretHasher,
	generator CredentialGenerator,
	cache HashCache,
) RotationUseCase {
	return &rotationUseCase{
		txManager: txManager,
		envRepo:   envRepo,
		encryptor: encryptor,
		hasher:    hasher,
		generator: generator,
		cache:     cache,
	}
}
