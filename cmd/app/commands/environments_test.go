package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	"github.com/allisson/envkeys/internal/environment/http/dto"
	envMocks "github.com/allisson/envkeys/internal/environment/usecase/mocks"
)

func testEnvironment(id int64, name string) *envDomain.Environment {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &envDomain.Environment{
		ID:        id,
		UUID:      uuid.Must(uuid.NewV7()),
		AccountID: 1,
		Name:      name,
		SecretKey: "sk_" + name,
		PublicKey: "pk_" + name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRunCreateAccount(t *testing.T) {
	ctx := context.Background()
	account := &envDomain.Account{ID: 1, UUID: uuid.Must(uuid.NewV7()), Name: "Acme"}
	envs := []*envDomain.Environment{testEnvironment(10, "prod"), testEnvironment(11, "dev")}

	t.Run("text", func(t *testing.T) {
		accountUseCase := &envMocks.MockAccountUseCase{}
		accountUseCase.On("Create", ctx, "Acme").Return(account, envs, nil)

		var out bytes.Buffer
		err := RunCreateAccount(ctx, accountUseCase, testLogger(), &out, "Acme", "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Account ID:   1")
		assert.Contains(t, out.String(), "Secret key:   sk_prod")
		assert.Contains(t, out.String(), "Secret key:   sk_dev")
		accountUseCase.AssertExpectations(t)
	})

	t.Run("json", func(t *testing.T) {
		accountUseCase := &envMocks.MockAccountUseCase{}
		accountUseCase.On("Create", ctx, "Acme").Return(account, envs, nil)

		var out bytes.Buffer
		err := RunCreateAccount(ctx, accountUseCase, testLogger(), &out, "Acme", "json")
		require.NoError(t, err)

		var result dto.CreateAccountResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, "Acme", result.Account.Name)
		require.Len(t, result.Environments, 2)
		assert.Equal(t, "sk_prod", result.Environments[0].SecretKey)
	})

	t.Run("use case error", func(t *testing.T) {
		accountUseCase := &envMocks.MockAccountUseCase{}
		accountUseCase.On("Create", ctx, "").Return(nil, nil, envDomain.ErrInvalidCredentialType)

		var out bytes.Buffer
		err := RunCreateAccount(ctx, accountUseCase, testLogger(), &out, "", "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account")
		assert.Empty(t, out.String())
	})
}

func TestRunCreateEnvironment(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		environmentUseCase := &envMocks.MockEnvironmentUseCase{}
		environmentUseCase.On("Create", ctx, int64(1), "staging").Return(testEnvironment(12, "staging"), nil)

		var out bytes.Buffer
		err := RunCreateEnvironment(ctx, environmentUseCase, testLogger(), &out, 1, "staging", "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Environment:  staging (id 12)")
		assert.Contains(t, out.String(), "Secret key:   sk_staging")
		environmentUseCase.AssertExpectations(t)
	})

	t.Run("unknown account", func(t *testing.T) {
		environmentUseCase := &envMocks.MockEnvironmentUseCase{}
		environmentUseCase.On("Create", ctx, int64(99), "staging").Return(nil, envDomain.ErrAccountNotFound)

		err := RunCreateEnvironment(ctx, environmentUseCase, testLogger(), &bytes.Buffer{}, 99, "staging", "text")

		require.Error(t, err)
		assert.ErrorIs(t, err, envDomain.ErrAccountNotFound)
	})
}

func TestRunListEnvironments(t *testing.T) {
	ctx := context.Background()

	t.Run("secret keys are omitted", func(t *testing.T) {
		environmentUseCase := &envMocks.MockEnvironmentUseCase{}
		prod := testEnvironment(10, "prod")
		pending := "pk_next"
		prod.PendingPublicKey = &pending
		environmentUseCase.On("ListByAccount", ctx, int64(1)).
			Return([]*envDomain.Environment{prod, testEnvironment(11, "dev")}, nil)

		var out bytes.Buffer
		err := RunListEnvironments(ctx, environmentUseCase, &out, 1, "text")

		require.NoError(t, err)
		assert.NotContains(t, out.String(), "sk_prod")
		assert.Contains(t, out.String(), "Rotation:     secret=stable public=rotation_pending")
		assert.Contains(t, out.String(), "Environment:  dev (id 11)")
	})

	t.Run("json", func(t *testing.T) {
		environmentUseCase := &envMocks.MockEnvironmentUseCase{}
		environmentUseCase.On("ListByAccount", ctx, int64(1)).
			Return([]*envDomain.Environment{testEnvironment(10, "prod")}, nil)

		var out bytes.Buffer
		err := RunListEnvironments(ctx, environmentUseCase, &out, 1, "json")
		require.NoError(t, err)

		var result dto.ListEnvironmentsResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Len(t, result.Data, 1)
		assert.Empty(t, result.Data[0].SecretKey)
	})

	t.Run("empty", func(t *testing.T) {
		environmentUseCase := &envMocks.MockEnvironmentUseCase{}
		environmentUseCase.On("ListByAccount", ctx, int64(2)).Return([]*envDomain.Environment{}, nil)

		var out bytes.Buffer
		err := RunListEnvironments(ctx, environmentUseCase, &out, 2, "text")

		require.NoError(t, err)
		assert.Equal(t, "No environments found\n", out.String())
	})
}
