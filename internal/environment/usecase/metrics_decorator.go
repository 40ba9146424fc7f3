package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	"github.com/allisson/envkeys/internal/metrics"
)

func recordMetrics(
	ctx context.Context,
	m metrics.BusinessMetrics,
	domain, operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

// accountUseCaseWithMetrics decorates AccountUseCase with metrics instrumentation.
type accountUseCaseWithMetrics struct {
	next    AccountUseCase
	metrics metrics.BusinessMetrics
}

// NewAccountUseCaseWithMetrics wraps an AccountUseCase with metrics recording.
func NewAccountUseCaseWithMetrics(useCase AccountUseCase, m metrics.BusinessMetrics) AccountUseCase {
	return &accountUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *accountUseCaseWithMetrics) Create(
	ctx context.Context,
	name string,
) (*envDomain.Account, []*envDomain.Environment, error) {
	start := time.Now()
	account, envs, err := a.next.Create(ctx, name)
	recordMetrics(ctx, a.metrics, "accounts", "account_create", start, err)
	return account, envs, err
}

func (a *accountUseCaseWithMetrics) Get(ctx context.Context, accountID int64) (*envDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Get(ctx, accountID)
	recordMetrics(ctx, a.metrics, "accounts", "account_get", start, err)
	return account, err
}

// environmentUseCaseWithMetrics decorates EnvironmentUseCase with metrics instrumentation.
type environmentUseCaseWithMetrics struct {
	next    EnvironmentUseCase
	metrics metrics.BusinessMetrics
}

// NewEnvironmentUseCaseWithMetrics wraps an EnvironmentUseCase with metrics recording.
func NewEnvironmentUseCaseWithMetrics(useCase EnvironmentUseCase, m metrics.BusinessMetrics) EnvironmentUseCase {
	return &environmentUseCaseWithMetrics{next: useCase, metrics: m}
}

func (e *environmentUseCaseWithMetrics) Create(
	ctx context.Context,
	accountID int64,
	name string,
) (*envDomain.Environment, error) {
	start := time.Now()
	env, err := e.next.Create(ctx, accountID, name)
	recordMetrics(ctx, e.metrics, "environments", "environment_create", start, err)
	return env, err
}

func (e *environmentUseCaseWithMetrics) Get(ctx context.Context, envID int64) (*envDomain.Environment, error) {
	start := time.Now()
	env, err := e.next.Get(ctx, envID)
	recordMetrics(ctx, e.metrics, "environments", "environment_get", start, err)
	return env, err
}

func (e *environmentUseCaseWithMetrics) GetByUUID(
	ctx context.Context,
	envUUID uuid.UUID,
) (*envDomain.Environment, error) {
	start := time.Now()
	env, err := e.next.GetByUUID(ctx, envUUID)
	recordMetrics(ctx, e.metrics, "environments", "environment_get", start, err)
	return env, err
}

func (e *environmentUseCaseWithMetrics) GetByName(
	ctx context.Context,
	accountID int64,
	name string,
) (*envDomain.Environment, error) {
	start := time.Now()
	env, err := e.next.GetByName(ctx, accountID, name)
	recordMetrics(ctx, e.metrics, "environments", "environment_get", start, err)
	return env, err
}

func (e *environmentUseCaseWithMetrics) ListByAccount(
	ctx context.Context,
	accountID int64,
) ([]*envDomain.Environment, error) {
	start := time.Now()
	envs, err := e.next.ListByAccount(ctx, accountID)
	recordMetrics(ctx, e.metrics, "environments", "environment_list", start, err)
	return envs, err
}

func (e *environmentUseCaseWithMetrics) UpdateMetadata(
	ctx context.Context,
	envID int64,
	update envDomain.MetadataUpdate,
) (*envDomain.Environment, error) {
	start := time.Now()
	env, err := e.next.UpdateMetadata(ctx, envID, update)
	recordMetrics(ctx, e.metrics, "environments", "environment_update", start, err)
	return env, err
}

func (e *environmentUseCaseWithMetrics) Delete(ctx context.Context, envID int64) error {
	start := time.Now()
	err := e.next.Delete(ctx, envID)
	recordMetrics(ctx, e.metrics, "environments", "environment_delete", start, err)
	return err
}

func (e *environmentUseCaseWithMetrics) GetVariables(
	ctx context.Context,
	envID int64,
) ([]*envDomain.EnvironmentVariable, error) {
	start := time.Now()
	variables, err := e.next.GetVariables(ctx, envID)
	recordMetrics(ctx, e.metrics, "environments", "variables_get", start, err)
	return variables, err
}

func (e *environmentUseCaseWithMetrics) SetVariables(
	ctx context.Context,
	envID int64,
	values []envDomain.VariableInput,
) ([]*envDomain.EnvironmentVariable, error) {
	start := time.Now()
	variables, err := e.next.SetVariables(ctx, envID, values)
	recordMetrics(ctx, e.metrics, "environments", "variables_set", start, err)
	return variables, err
}

// resolverUseCaseWithMetrics decorates ResolverUseCase with metrics instrumentation.
// An unknown credential counts as an error.
type resolverUseCaseWithMetrics struct {
	next    ResolverUseCase
	metrics metrics.BusinessMetrics
}

// NewResolverUseCaseWithMetrics wraps a ResolverUseCase with metrics recording.
func NewResolverUseCaseWithMetrics(useCase ResolverUseCase, m metrics.BusinessMetrics) ResolverUseCase {
	return &resolverUseCaseWithMetrics{next: useCase, metrics: m}
}

func (r *resolverUseCaseWithMetrics) ResolveBySecret(
	ctx context.Context,
	secretKey string,
) (*envDomain.Caller, error) {
	start := time.Now()
	caller, err := r.next.ResolveBySecret(ctx, secretKey)
	recordMetrics(ctx, r.metrics, "resolver", "resolve_secret", start, err)
	return caller, err
}

func (r *resolverUseCaseWithMetrics) ResolveByPublicKey(
	ctx context.Context,
	publicKey string,
) (*envDomain.Caller, error) {
	start := time.Now()
	caller, err := r.next.ResolveByPublicKey(ctx, publicKey)
	recordMetrics(ctx, r.metrics, "resolver", "resolve_public", start, err)
	return caller, err
}

// rotationUseCaseWithMetrics decorates RotationUseCase with metrics instrumentation.
type rotationUseCaseWithMetrics struct {
	next    RotationUseCase
	metrics metrics.BusinessMetrics
}

// NewRotationUseCaseWithMetrics wraps a RotationUseCase with metrics recording.
func NewRotationUseCaseWithMetrics(useCase RotationUseCase, m metrics.BusinessMetrics) RotationUseCase {
	return &rotationUseCaseWithMetrics{next: useCase, metrics: m}
}

func (r *rotationUseCaseWithMetrics) BeginRotation(
	ctx context.Context,
	envID int64,
	t envDomain.CredentialType,
) (string, error) {
	start := time.Now()
	value, err := r.next.BeginRotation(ctx, envID, t)
	recordMetrics(ctx, r.metrics, "rotation", "rotation_begin_"+string(t), start, err)
	return value, err
}

func (r *rotationUseCaseWithMetrics) Activate(ctx context.Context, envID int64, t envDomain.CredentialType) error {
	start := time.Now()
	err := r.next.Activate(ctx, envID, t)
	recordMetrics(ctx, r.metrics, "rotation", "rotation_activate_"+string(t), start, err)
	return err
}

func (r *rotationUseCaseWithMetrics) Revert(
	ctx context.Context,
	envID int64,
	t envDomain.CredentialType,
) (string, error) {
	start := time.Now()
	value, err := r.next.Revert(ctx, envID, t)
	recordMetrics(ctx, r.metrics, "rotation", "rotation_revert_"+string(t), start, err)
	return value, err
}

// State is not instrumented; it is a plain read.
func (r *rotationUseCaseWithMetrics) State(
	ctx context.Context,
	envID int64,
	t envDomain.CredentialType,
) (envDomain.RotationState, error) {
	return r.next.State(ctx, envID, t)
}

// hashCacheWithMetrics counts hash cache lookups by outcome.
type hashCacheWithMetrics struct {
	next    HashCache
	metrics metrics.BusinessMetrics
}

// NewHashCacheWithMetrics wraps a HashCache with hit and miss counting.
func NewHashCacheWithMetrics(cache HashCache, m metrics.BusinessMetrics) HashCache {
	return &hashCacheWithMetrics{next: cache, metrics: m}
}

func (h *hashCacheWithMetrics) Get(secretKey string) (string, bool) {
	hash, ok := h.next.Get(secretKey)
	h.metrics.RecordCacheLookup(context.Background(), "hashcache", ok)
	return hash, ok
}

func (h *hashCacheWithMetrics) Set(secretKey, hash string) {
	h.next.Set(secretKey, hash)
}

func (h *hashCacheWithMetrics) Delete(secretKey string) {
	h.next.Delete(secretKey)
}
