// Package usecase implements the environment store, the credential resolver and the
// key rotation controller. Use cases orchestrate repositories, the field cipher and
// the secret hasher; they are the only layer that sees credential plaintext.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

// AccountRepository defines the interface for Account persistence operations.
type AccountRepository interface {
	// Create inserts the account and sets its ID.
	Create(ctx context.Context, account *envDomain.Account) error
	Get(ctx context.Context, accountID int64) (*envDomain.Account, error)
}

// EnvironmentRepository defines the interface for Environment persistence operations.
// Environments exchanged with it carry encrypted credential fields. Soft-deleted rows
// are invisible to every method.
type EnvironmentRepository interface {
	// Create inserts the environment with a NULL secret_key_hashed and sets its ID.
	Create(ctx context.Context, env *envDomain.Environment) error
	UpdateSecretKeyHash(ctx context.Context, envID int64, hash string) error
	UpdateMetadata(ctx context.Context, env *envDomain.Environment) error
	Delete(ctx context.Context, envID int64) error

	Get(ctx context.Context, envID int64) (*envDomain.Environment, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, envID int64) (*envDomain.Environment, error)
	GetByUUID(ctx context.Context, envUUID uuid.UUID) (*envDomain.Environment, error)
	GetByName(ctx context.Context, accountID int64, name string) (*envDomain.Environment, error)
	GetBySecretKeyHash(ctx context.Context, hash string) (*envDomain.Environment, error)
	GetByPublicKey(ctx context.Context, publicKey string) (*envDomain.Environment, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*envDomain.Environment, error)

	SetPendingSecretKey(ctx context.Context, envID int64, pending cryptoDomain.EncryptedField) error
	SetPendingPublicKey(ctx context.Context, envID int64, pending string) error
	// ActivateSecretKey promotes the pending secret key, provided it still equals
	// pendingCiphertext, and stores hash as its lookup hash. It reports whether a
	// row was promoted.
	ActivateSecretKey(ctx context.Context, envID int64, pendingCiphertext, hash string) (bool, error)
	// ActivatePublicKey promotes the pending public key. It reports whether a row was promoted.
	ActivatePublicKey(ctx context.Context, envID int64) (bool, error)
	ClearPendingSecretKey(ctx context.Context, envID int64) error
	ClearPendingPublicKey(ctx context.Context, envID int64) error
}

// VariableRepository defines the interface for EnvironmentVariable persistence operations.
type VariableRepository interface {
	Create(ctx context.Context, variable *envDomain.EnvironmentVariable) error
	DeleteByEnvironment(ctx context.Context, envID int64) error
	ListByEnvironment(ctx context.Context, envID int64) ([]*envDomain.EnvironmentVariable, error)
}

// HashCache memoizes secret key hashes.
type HashCache interface {
	Get(secretKey string) (string, bool)
	Set(secretKey, hash string)
	Delete(secretKey string)
}

// EnvironmentEncryptor converts environments and variables between their plaintext
// and persisted forms.
type EnvironmentEncryptor interface {
	EncryptEnvironment(env *envDomain.Environment) (*envDomain.Environment, error)
	DecryptEnvironment(env *envDomain.Environment) (*envDomain.Environment, error)
	EncryptVariable(variable *envDomain.EnvironmentVariable) (*envDomain.EnvironmentVariable, error)
	DecryptVariable(variable *envDomain.EnvironmentVariable) (*envDomain.EnvironmentVariable, error)
	EncryptValue(plaintext string) (cryptoDomain.EncryptedField, error)
}

// CredentialGenerator produces fresh credential values.
type CredentialGenerator interface {
	SecretKey() string
	PublicKey() string
}

// OverrideIndex resolves self-hosted credentials configured through the process environment.
type OverrideIndex interface {
	// Lookup returns the environment name configured for value under t.
	Lookup(t envDomain.CredentialType, value string) (string, bool)
}

// AccountUseCase defines the interface for account provisioning.
type AccountUseCase interface {
	// Create inserts the account together with its default environments.
	Create(ctx context.Context, name string) (*envDomain.Account, []*envDomain.Environment, error)
	Get(ctx context.Context, accountID int64) (*envDomain.Account, error)
}

// EnvironmentUseCase is the environment store. Reads return decrypted environments
// and writes encrypt before persisting.
type EnvironmentUseCase interface {
	// Create inserts the environment and then stores its secret key hash. The two
	// writes are sequenced, not atomic: in between, the row exists with a NULL hash
	// and cannot be resolved by secret key.
	Create(ctx context.Context, accountID int64, name string) (*envDomain.Environment, error)
	Get(ctx context.Context, envID int64) (*envDomain.Environment, error)
	GetByUUID(ctx context.Context, envUUID uuid.UUID) (*envDomain.Environment, error)
	GetByName(ctx context.Context, accountID int64, name string) (*envDomain.Environment, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*envDomain.Environment, error)
	UpdateMetadata(
		ctx context.Context,
		envID int64,
		update envDomain.MetadataUpdate,
	) (*envDomain.Environment, error)
	Delete(ctx context.Context, envID int64) error

	GetVariables(ctx context.Context, envID int64) ([]*envDomain.EnvironmentVariable, error)
	// SetVariables replaces every variable of the environment with values.
	SetVariables(
		ctx context.Context,
		envID int64,
		values []envDomain.VariableInput,
	) ([]*envDomain.EnvironmentVariable, error)
}

// ResolverUseCase maps presented credentials to their caller. Every kind of absence,
// including an empty credential, is reported as ErrCallerNotFound.
type ResolverUseCase interface {
	ResolveBySecret(ctx context.Context, secretKey string) (*envDomain.Caller, error)
	ResolveByPublicKey(ctx context.Context, publicKey string) (*envDomain.Caller, error)
}

// RotationUseCase is the key rotation controller.
type RotationUseCase interface {
	// BeginRotation stores a fresh pending value, replacing any previous one, and returns it.
	BeginRotation(ctx context.Context, envID int64, t envDomain.CredentialType) (string, error)
	// Activate promotes the pending value. Without one it fails with ErrInvalidRotationState.
	Activate(ctx context.Context, envID int64, t envDomain.CredentialType) error
	// Revert discards the pending value, if any, and returns the active value.
	Revert(ctx context.Context, envID int64, t envDomain.CredentialType) (string, error)
	State(ctx context.Context, envID int64, t envDomain.CredentialType) (envDomain.RotationState, error)
}
