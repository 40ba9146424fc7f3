package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
	cryptoService "github.com/allisson/envkeys/internal/crypto/service"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	envService "github.com/allisson/envkeys/internal/environment/service"
	"github.com/allisson/envkeys/internal/hashcache"
)

// passthroughTxManager runs fn directly; the in-memory store is already serialized.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// countingHasher is a cheap deterministic SecretHasher that counts derivations.
type countingHasher struct {
	calls atomic.Int64
}

func (h *countingHasher) Hash(plaintext string) string {
	h.calls.Add(1)
	return fmt.Sprintf("hash(%s)", plaintext)
}

// sequenceGenerator hands out predictable credentials.
type sequenceGenerator struct {
	n atomic.Int64
}

func (g *sequenceGenerator) SecretKey() string {
	return fmt.Sprintf("sk_%d", g.n.Add(1))
}

func (g *sequenceGenerator) PublicKey() string {
	return fmt.Sprintf("pk_%d", g.n.Add(1))
}

// staticOverrides is an OverrideIndex backed by a map.
type staticOverrides map[envDomain.CredentialType]map[string]string

func (s staticOverrides) Lookup(t envDomain.CredentialType, value string) (string, bool) {
	name, ok := s[t][value]
	return name, ok
}

// memStore is an in-memory AccountRepository, EnvironmentRepository and
// VariableRepository holding rows in their persisted (encrypted) form.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	accounts  map[int64]envDomain.Account
	envs      map[int64]envDomain.Environment
	variables map[int64][]envDomain.EnvironmentVariable
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  map[int64]envDomain.Account{},
		envs:      map[int64]envDomain.Environment{},
		variables: map[int64][]envDomain.EnvironmentVariable{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// row returns a copy of the stored environment, for assertions.
func (s *memStore) row(envID int64) envDomain.Environment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.envs[envID]
}

func (s *memStore) Create(ctx context.Context, account *envDomain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account.ID = s.id()
	s.accounts[account.ID] = *account
	return nil
}

func (s *memStore) Get(ctx context.Context, accountID int64) (*envDomain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, envDomain.ErrAccountNotFound
	}
	return &account, nil
}

// envStore exposes memStore through the EnvironmentRepository method set; the
// account and environment repositories share method names.
type envStore struct{ *memStore }

func (s envStore) Create(ctx context.Context, env *envDomain.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.envs {
		if existing.AccountID == env.AccountID && existing.Name == env.Name && existing.DeletedAt == nil {
			return envDomain.ErrEnvironmentAlreadyExists
		}
	}
	env.ID = s.id()
	stored := *env
	stored.SecretKeyHashed = nil
	s.envs[env.ID] = stored
	return nil
}

func (s envStore) update(envID int64, fn func(env *envDomain.Environment)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	env, ok := s.envs[envID]
	if !ok || env.DeletedAt != nil {
		return envDomain.ErrEnvironmentNotFound
	}
	fn(&env)
	env.UpdatedAt = time.Now().UTC()
	s.envs[envID] = env
	return nil
}

func (s envStore) UpdateSecretKeyHash(ctx context.Context, envID int64, hash string) error {
	return s.update(envID, func(env *envDomain.Environment) { env.SecretKeyHashed = &hash })
}

func (s envStore) UpdateMetadata(ctx context.Context, env *envDomain.Environment) error {
	return s.update(env.ID, func(stored *envDomain.Environment) {
		stored.Name = env.Name
		stored.HMACEnabled = env.HMACEnabled
		stored.HMACKey = env.HMACKey
		stored.WebhookURL = env.WebhookURL
		stored.SecondaryWebhookURL = env.SecondaryWebhookURL
		stored.CallbackURL = env.CallbackURL
		stored.SendAuthWebhook = env.SendAuthWebhook
		stored.AlwaysSendWebhook = env.AlwaysSendWebhook
	})
}

func (s envStore) Delete(ctx context.Context, envID int64) error {
	return s.update(envID, func(env *envDomain.Environment) {
		now := time.Now().UTC()
		env.DeletedAt = &now
	})
}

func (s envStore) find(match func(env envDomain.Environment) bool) (*envDomain.Environment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.envs))
	for id := range s.envs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		env := s.envs[id]
		if env.DeletedAt == nil && match(env) {
			return &env, nil
		}
	}
	return nil, envDomain.ErrEnvironmentNotFound
}

func (s envStore) Get(ctx context.Context, envID int64) (*envDomain.Environment, error) {
	return s.find(func(env envDomain.Environment) bool { return env.ID == envID })
}

func (s envStore) GetForUpdate(ctx context.Context, envID int64) (*envDomain.Environment, error) {
	return s.Get(ctx, envID)
}

func (s envStore) GetByUUID(ctx context.Context, envUUID uuid.UUID) (*envDomain.Environment, error) {
	return s.find(func(env envDomain.Environment) bool { return env.UUID == envUUID })
}

func (s envStore) GetByName(ctx context.Context, accountID int64, name string) (*envDomain.Environment, error) {
	return s.find(func(env envDomain.Environment) bool {
		return env.AccountID == accountID && env.Name == name
	})
}

func (s envStore) GetBySecretKeyHash(ctx context.Context, hash string) (*envDomain.Environment, error) {
	return s.find(func(env envDomain.Environment) bool {
		return env.SecretKeyHashed != nil && *env.SecretKeyHashed == hash
	})
}

func (s envStore) GetByPublicKey(ctx context.Context, publicKey string) (*envDomain.Environment, error) {
	return s.find(func(env envDomain.Environment) bool { return env.PublicKey == publicKey })
}

func (s envStore) ListByAccount(ctx context.Context, accountID int64) ([]*envDomain.Environment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*envDomain.Environment
	for _, env := range s.envs {
		if env.AccountID == accountID && env.DeletedAt == nil {
			env := env
			result = append(result, &env)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s envStore) SetPendingSecretKey(ctx context.Context, envID int64, pending cryptoDomain.EncryptedField) error {
	return s.update(envID, func(env *envDomain.Environment) {
		env.PendingSecretKey = &pending.Ciphertext
		env.PendingSecretKeyIV = &pending.IV
		env.PendingSecretKeyTag = &pending.Tag
	})
}

func (s envStore) SetPendingPublicKey(ctx context.Context, envID int64, pending string) error {
	return s.update(envID, func(env *envDomain.Environment) { env.PendingPublicKey = &pending })
}

func (s envStore) ActivateSecretKey(
	ctx context.Context,
	envID int64,
	pendingCiphertext, hash string,
) (bool, error) {
	promoted := false
	err := s.update(envID, func(env *envDomain.Environment) {
		if env.PendingSecretKey == nil || *env.PendingSecretKey != pendingCiphertext {
			return
		}
		env.SecretKey = *env.PendingSecretKey
		env.SecretKeyIV = env.PendingSecretKeyIV
		env.SecretKeyTag = env.PendingSecretKeyTag
		env.SecretKeyHashed = &hash
		env.PendingSecretKey, env.PendingSecretKeyIV, env.PendingSecretKeyTag = nil, nil, nil
		promoted = true
	})
	return promoted, err
}

func (s envStore) ActivatePublicKey(ctx context.Context, envID int64) (bool, error) {
	promoted := false
	err := s.update(envID, func(env *envDomain.Environment) {
		if env.PendingPublicKey == nil {
			return
		}
		env.PublicKey = *env.PendingPublicKey
		env.PendingPublicKey = nil
		promoted = true
	})
	return promoted, err
}

func (s envStore) ClearPendingSecretKey(ctx context.Context, envID int64) error {
	return s.update(envID, func(env *envDomain.Environment) {
		env.PendingSecretKey, env.PendingSecretKeyIV, env.PendingSecretKeyTag = nil, nil, nil
	})
}

func (s envStore) ClearPendingPublicKey(ctx context.Context, envID int64) error {
	return s.update(envID, func(env *envDomain.Environment) { env.PendingPublicKey = nil })
}

// varStore exposes memStore through the VariableRepository method set.
type varStore struct{ *memStore }

func (s varStore) Create(ctx context.Context, variable *envDomain.EnvironmentVariable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	variable.ID = s.id()
	s.variables[variable.EnvironmentID] = append(s.variables[variable.EnvironmentID], *variable)
	return nil
}

func (s varStore) DeleteByEnvironment(ctx context.Context, envID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.variables, envID)
	return nil
}

func (s varStore) ListByEnvironment(ctx context.Context, envID int64) ([]*envDomain.EnvironmentVariable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*envDomain.EnvironmentVariable, 0, len(s.variables[envID]))
	for _, variable := range s.variables[envID] {
		variable := variable
		result = append(result, &variable)
	}
	return result, nil
}

// fixture wires the use cases over memStore with a real field cipher and hash cache.
type fixture struct {
	store       *memStore
	envRepo     envStore
	hasher      *countingHasher
	cache       *hashcache.Cache
	encryptor   *envService.Encryptor
	environment EnvironmentUseCase
	accounts    AccountUseCase
	rotation    RotationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	cipher, err := cryptoService.NewFieldCipher(
		&cryptoDomain.EncryptionKey{Key: key, Algorithm: cryptoDomain.AESGCM},
		cryptoService.NewAEADManager(),
	)
	require.NoError(t, err)

	cache, err := hashcache.New(100, 0)
	require.NoError(t, err)

	store := newMemStore()
	f := &fixture{
		store:     store,
		envRepo:   envStore{store},
		hasher:    &countingHasher{},
		cache:     cache,
		encryptor: envService.NewEncryptor(cipher),
	}
	generator := &sequenceGenerator{}
	f.environment = NewEnvironmentUseCase(
		passthroughTxManager{}, store, f.envRepo, varStore{store}, f.encryptor, f.hasher, generator,
	)
	f.accounts = NewAccountUseCase(passthroughTxManager{}, store, f.environment)
	f.rotation = NewRotationUseCase(passthroughTxManager{}, f.envRepo, f.encryptor, f.hasher, generator, cache)
	return f
}

// resolver builds a resolver over the fixture's store and cache.
func (f *fixture) resolver(overrides OverrideIndex, selfHostedAccountID int64) ResolverUseCase {
	return NewResolverUseCase(f.store, f.envRepo, f.encryptor, f.hasher, f.cache, overrides, selfHostedAccountID)
}

// seed creates an account with the default environments and returns the account and "prod".
func (f *fixture) seed(t *testing.T) (*envDomain.Account, *envDomain.Environment) {
	t.Helper()
	account, envs, err := f.accounts.Create(context.Background(), "Acme")
	require.NoError(t, err)
	for _, env := range envs {
		if env.Name == "prod" {
			return account, env
		}
	}
	t.Fatal("prod environment not created")
	return nil, nil
}

func strPtr(s string) *string { return &s }

var (
	_ AccountRepository     = (*memStore)(nil)
	_ EnvironmentRepository = envStore{}
	_ VariableRepository    = varStore{}
	_ OverrideIndex         = staticOverrides{}
	_ HashCache             = (*hashcache.Cache)(nil)
)
