package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	"github.com/allisson/envkeys/internal/metrics"
)

var (
	assertError = errors.New("boom")
	mockAnyFunc = mock.AnythingOfType("func(context.Context) error")
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockBusinessMetrics is a mock implementation of metrics.BusinessMetrics
type MockBusinessMetrics struct {
	mock.Mock
}

func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *MockBusinessMetrics) RecordCacheLookup(ctx context.Context, cache string, hit bool) {
	m.Called(ctx, cache, hit)
}

// MockResolverUseCase is a mock implementation of ResolverUseCase
type MockResolverUseCase struct {
	mock.Mock
}

func (m *MockResolverUseCase) ResolveBySecret(ctx context.Context, secretKey string) (*envDomain.Caller, error) {
	args := m.Called(ctx, secretKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envDomain.Caller), args.Error(1)
}

func (m *MockResolverUseCase) ResolveByPublicKey(ctx context.Context, publicKey string) (*envDomain.Caller, error) {
	args := m.Called(ctx, publicKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envDomain.Caller), args.Error(1)
}

// MockRotationUseCase is a mock implementation of RotationUseCase
type MockRotationUseCase struct {
	mock.Mock
}

func (m *MockRotationUseCase) BeginRotation(
	ctx context.Context,
	envID int64,
	t envDomain.CredentialType,
) (string, error) {
	args := m.Called(ctx, envID, t)
	return args.String(0), args.Error(1)
}

func (m *MockRotationUseCase) Activate(ctx context.Context, envID int64, t envDomain.CredentialType) error {
	args := m.Called(ctx, envID, t)
	return args.Error(0)
}

func (m *MockRotationUseCase) Revert(ctx context.Context, envID int64, t envDomain.CredentialType) (string, error) {
	args := m.Called(ctx, envID, t)
	return args.String(0), args.Error(1)
}

func (m *MockRotationUseCase) State(
	ctx context.Context,
	envID int64,
	t envDomain.CredentialType,
) (envDomain.RotationState, error) {
	args := m.Called(ctx, envID, t)
	return args.Get(0).(envDomain.RotationState), args.Error(1)
}

// MockHashCache is a mock implementation of HashCache
type MockHashCache struct {
	mock.Mock
}

func (m *MockHashCache) Get(secretKey string) (string, bool) {
	args := m.Called(secretKey)
	return args.String(0), args.Bool(1)
}

func (m *MockHashCache) Set(secretKey, hash string) {
	m.Called(secretKey, hash)
}

func (m *MockHashCache) Delete(secretKey string) {
	m.Called(secretKey)
}

var (
	_ metrics.BusinessMetrics = (*MockBusinessMetrics)(nil)
	_ ResolverUseCase         = (*MockResolverUseCase)(nil)
	_ RotationUseCase         = (*MockRotationUseCase)(nil)
	_ HashCache               = (*MockHashCache)(nil)
)
