package usecase

import (
	"context"
	"errors"

	cryptoService "github.com/allisson/envkeys/internal/crypto/service"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	apperrors "github.com/allisson/envkeys/internal/errors"
)

// resolverUseCase implements the ResolverUseCase interface.
type resolverUseCase struct {
	accountRepo         AccountRepository
	envRepo             EnvironmentRepository
	encryptor           EnvironmentEncryptor
	hasher              cryptoService.SecretHasher
	cache               HashCache
	overrides           OverrideIndex
	selfHostedAccountID int64
}

// ResolveBySecret maps a secret key to its caller. Configured overrides are
// consulted first; otherwise the key is hashed, through the cache, and matched
// against secret_key_hashed.
func (r *resolverUseCase) ResolveBySecret(ctx context.Context, secretKey string) (*envDomain.Caller, error) {
	if secretKey == "" {
		return nil, envDomain.ErrCallerNotFound
	}

	if name, ok := r.lookupOverride(envDomain.CredentialSecret, secretKey); ok {
		return r.resolveOverride(ctx, name)
	}

	hash, cached := r.cache.Get(secretKey)
	if !cached {
		hash = r.hasher.Hash(secretKey)
	}

	env, err := r.envRepo.GetBySecretKeyHash(ctx, hash)
	if err != nil {
		return nil, callerNotFound(err)
	}

	caller, err := r.caller(ctx, env)
	if err != nil {
		return nil, err
	}

	// Only fully resolved keys are cached, so rejected keys cannot fill the cache.
	if !cached {
		r.cache.Set(secretKey, hash)
	}

	return caller, nil
}

// ResolveByPublicKey maps a public key to its caller by equality.
func (r *resolverUseCase) ResolveByPublicKey(ctx context.Context, publicKey string) (*envDomain.Caller, error) {
	if publicKey == "" {
		return nil, envDomain.ErrCallerNotFound
	}

	if name, ok := r.lookupOverride(envDomain.CredentialPublic, publicKey); ok {
		return r.resolveOverride(ctx, name)
	}

	env, err := r.envRepo.GetByPublicKey(ctx, publicKey)
	if err != nil {
		return nil, callerNotFound(err)
	}

	return r.caller(ctx, env)
}

func (r *resolverUseCase) lookupOverride(t envDomain.CredentialType, value string) (string, bool) {
	if r.overrides == nil {
		return "", false
	}
	return r.overrides.Lookup(t, value)
}

// resolveOverride never falls back to the hash path: a configured credential
// whose environment is missing does not authenticate.
func (r *resolverUseCase) resolveOverride(ctx context.Context, envName string) (*envDomain.Caller, error) {
	env, err := r.envRepo.GetByName(ctx, r.selfHostedAccountID, envName)
	if err != nil {
		return nil, callerNotFound(err)
	}
	return r.caller(ctx, env)
}

func (r *resolverUseCase) caller(ctx context.Context, env *envDomain.Environment) (*envDomain.Caller, error) {
	decrypted, err := r.encryptor.DecryptEnvironment(env)
	if err != nil {
		return nil, err
	}

	account, err := r.accountRepo.Get(ctx, env.AccountID)
	if err != nil {
		return nil, callerNotFound(err)
	}

	return &envDomain.Caller{Account: account, Environment: decrypted}, nil
}

func callerNotFound(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return envDomain.ErrCallerNotFound
	}
	return err
}

// NewResolverUseCase creates a new ResolverUseCase. overrides is nil when
// running in cloud mode; when set, matching credentials resolve to the
// environment of that name under selfHostedAccountID.
func NewResolverUseCase(
	accountRepo AccountRepository,
	envRepo EnvironmentRepository,
	encryptor EnvironmentEncryptor,
	hasher cryptoService.SecretHasher,
	cache HashCache,
	overrides OverrideIndex,
	selfHostedAccountID int64,
) ResolverUseCase {
	return &resolverUseCase{
		accountRepo:         accountRepo,
		envRepo:             envRepo,
		encryptor:           encryptor,
		hasher:              hasher,
		cache:               cache,
		overrides:           overrides,
		selfHostedAccountID: selfHostedAccountID,
	}
}
