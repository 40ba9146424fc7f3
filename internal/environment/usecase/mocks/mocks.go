// Package mocks provides mock implementations of the environment use cases and
// services for handler and command tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	envService "github.com/allisson/envkeys/internal/environment/service"
	envUseCase "github.com/allisson/envkeys/internal/environment/usecase"
)

// MockResolverUseCase is a mock implementation of usecase.ResolverUseCase
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

// MockAccountUseCase is a mock implementation of usecase.AccountUseCase
type MockAccountUseCase struct {
	mock.Mock
}

func (m *MockAccountUseCase) Create(
	ctx context.Context,
	name string,
) (*envDomain.Account, []*envDomain.Environment, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*envDomain.Account), args.Get(1).([]*envDomain.Environment), args.Error(2)
}

func (m *MockAccountUseCase) Get(ctx context.Context, accountID int64) (*envDomain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envDomain.Account), args.Error(1)
}

// MockEnvironmentUseCase is a mock implementation of usecase.EnvironmentUseCase
type MockEnvironmentUseCase struct {
	mock.Mock
}

func (m *MockEnvironmentUseCase) env(args mock.Arguments) (*envDomain.Environment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envDomain.Environment), args.Error(1)
}

func (m *MockEnvironmentUseCase) Create(
	ctx context.Context,
	accountID int64,
	name string,
) (*envDomain.Environment, error) {
	return m.env(m.Called(ctx, accountID, name))
}

func (m *MockEnvironmentUseCase) Get(ctx context.Context, envID int64) (*envDomain.Environment, error) {
	return m.env(m.Called(ctx, envID))
}

func (m *MockEnvironmentUseCase) GetByUUID(ctx context.Context, envUUID uuid.UUID) (*envDomain.Environment, error) {
	return m.env(m.Called(ctx, envUUID))
}

func (m *MockEnvironmentUseCase) GetByName(
	ctx context.Context,
	accountID int64,
	name string,
) (*envDomain.Environment, error) {
	return m.env(m.Called(ctx, accountID, name))
}

func (m *MockEnvironmentUseCase) ListByAccount(ctx context.Context, accountID int64) ([]*envDomain.Environment, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*envDomain.Environment), args.Error(1)
}

func (m *MockEnvironmentUseCase) UpdateMetadata(
	ctx context.Context,
	envID int64,
	update envDomain.MetadataUpdate,
) (*envDomain.Environment, error) {
	return m.env(m.Called(ctx, envID, update))
}

func (m *MockEnvironmentUseCase) Delete(ctx context.Context, envID int64) error {
	args := m.Called(ctx, envID)
	return args.Error(0)
}

func (m *MockEnvironmentUseCase) GetVariables(
	ctx context.Context,
	envID int64,
) ([]*envDomain.EnvironmentVariable, error) {
	args := m.Called(ctx, envID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*envDomain.EnvironmentVariable), args.Error(1)
}

func (m *MockEnvironmentUseCase) SetVariables(
	ctx context.Context,
	envID int64,
	values []envDomain.VariableInput,
) ([]*envDomain.EnvironmentVariable, error) {
	args := m.Called(ctx, envID, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*envDomain.EnvironmentVariable), args.Error(1)
}

// MockRotationUseCase is a mock implementation of usecase.RotationUseCase
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

// MockAdminTokenService is a mock implementation of service.AdminTokenService
type MockAdminTokenService struct {
	mock.Mock
}

func (m *MockAdminTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAdminTokenService) HashToken(plainToken string) (string, error) {
	args := m.Called(plainToken)
	return args.String(0), args.Error(1)
}

func (m *MockAdminTokenService) VerifyToken(plainToken, tokenHash string) bool {
	args := m.Called(plainToken, tokenHash)
	return args.Bool(0)
}

var (
	_ envUseCase.ResolverUseCase    = (*MockResolverUseCase)(nil)
	_ envUseCase.AccountUseCase     = (*MockAccountUseCase)(nil)
	_ envUseCase.EnvironmentUseCase = (*MockEnvironmentUseCase)(nil)
	_ envUseCase.RotationUseCase    = (*MockRotationUseCase)(nil)
	_ envService.AdminTokenService  = (*MockAdminTokenService)(nil)
)
