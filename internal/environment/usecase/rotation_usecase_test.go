package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	apperrors "github.com/allisson/envkeys/internal/errors"
)

func TestRotationUseCase_SecretKey(t *testing.T) {
	ctx := context.Background()

	t.Run("BeginThenRevertLeavesActiveUntouched", func(t *testing.T) {
		f := newFixture(t)
		_, prod := f.seed(t)
		original := f.store.row(prod.ID)

		pending, err := f.rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialSecret)
		require.NoError(t, err)
		assert.NotEmpty(t, pending)
		assert.NotEqual(t, prod.SecretKey, pending)

		state, err := f.rotation.State(ctx, prod.ID, envDomain.CredentialSecret)
		require.NoError(t, err)
		assert.Equal(t, envDomain.RotationPending, state)

		row := f.store.row(prod.ID)
		require.NotNil(t, row.PendingSecretKey)
		assert.NotEqual(t, pending, *row.PendingSecretKey)

		active, err := f.rotation.Revert(ctx, prod.ID, envDomain.CredentialSecret)
		require.NoError(t, err)
		assert.Equal(t, prod.SecretKey, active)

		row = f.store.row(prod.ID)
		assert.Equal(t, original.SecretKey, row.SecretKey)
		assert.Equal(t, *original.SecretKeyIV, *row.SecretKeyIV)
		assert.Equal(t, *original.SecretKeyTag, *row.SecretKeyTag)
		assert.Equal(t, *original.SecretKeyHashed, *row.SecretKeyHashed)
		assert.Nil(t, row.PendingSecretKey)
		assert.Nil(t, row.PendingSecretKeyIV)
		assert.Nil(t, row.PendingSecretKeyTag)

		state, err = f.rotation.State(ctx, prod.ID, envDomain.CredentialSecret)
		require.NoError(t, err)
		assert.Equal(t, envDomain.RotationStable, state)
	})

	t.Run("BeginThenActivateSwapsWhichKeyAuthenticates", func(t *testing.T) {
		f := newFixture(t)
		_, prod := f.seed(t)
		resolver := f.resolver(nil, 0)

		_, err := resolver.ResolveBySecret(ctx, prod.SecretKey)
		require.NoError(t, err)
		require.Equal(t, 1, f.cache.Len())

		pending, err := f.rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialSecret)
		require.NoError(t, err)

		// While pending, only the active key authenticates.
		_, err = resolver.ResolveBySecret(ctx, prod.SecretKey)
		require.NoError(t, err)
		_, err = resolver.ResolveBySecret(ctx, pending)
		assert.ErrorIs(t, err, envDomain.ErrCallerNotFound)

		require.NoError(t, f.rotation.Activate(ctx, prod.ID, envDomain.CredentialSecret))

		_, cached := f.cache.Get(prod.SecretKey)
		assert.False(t, cached)

		_, err = resolver.ResolveBySecret(ctx, prod.SecretKey)
		assert.ErrorIs(t, err, envDomain.ErrCallerNotFound)

		caller, err := resolver.ResolveBySecret(ctx, pending)
		require.NoError(t, err)
		assert.Equal(t, prod.ID, caller.Environment.ID)
		assert.Equal(t, pending, caller.Environment.SecretKey)
		assert.Nil(t, caller.Environment.PendingSecretKey)

		row := f.store.row(prod.ID)
		assert.Equal(t, f.hasher.Hash(pending), *row.SecretKeyHashed)
		assert.Nil(t, row.PendingSecretKey)
	})

	t.Run("ActivateWithoutPendingFailsAndLeavesRowUnchanged", func(t *testing.T) {
		f := newFixture(t)
		_, prod := f.seed(t)
		before := f.store.row(prod.ID)

		err := f.rotation.Activate(ctx, prod.ID, envDomain.CredentialSecret)
		assert.ErrorIs(t, err, envDomain.ErrInvalidRotationState)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		assert.Equal(t, before, f.store.row(prod.ID))
	})

	t.Run("BeginTwiceReplacesPending", func(t *testing.T) {
		f := newFixture(t)
		_, prod := f.seed(t)
		resolver := f.resolver(nil, 0)

		first, err := f.rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialSecret)
		require.NoError(t, err)
		second, err := f.rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialSecret)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		require.NoError(t, f.rotation.Activate(ctx, prod.ID, envDomain.CredentialSecret))

		_, err = resolver.ResolveBySecret(ctx, first)
		assert.ErrorIs(t, err, envDomain.ErrCallerNotFound)
		_, err = resolver.ResolveBySecret(ctx, second)
		assert.NoError(t, err)
	})

	t.Run("RevertWithoutPendingIsNoOp", func(t *testing.T) {
		f := newFixture(t)
		_, prod := f.seed(t)
		before := f.store.row(prod.ID)

		active, err := f.rotation.Revert(ctx, prod.ID, envDomain.CredentialSecret)
		require.NoError(t, err)
		assert.Equal(t, prod.SecretKey, active)
		assert.Equal(t, before, f.store.row(prod.ID))
	})
}

// racingEnvStore replaces the pending secret key right after it is first read,
// as a concurrent BeginRotation would.
type racingEnvStore struct {
	envStore
	raced bool
	swap  func()
}

func (r *racingEnvStore) GetForUpdate(ctx context.Context, envID int64) (*envDomain.Environment, error) {
	if !r.raced {
		r.raced = true
		r.swap()
	}
	return r.envStore.GetForUpdate(ctx, envID)
}

func TestRotationUseCase_ActivateRejectsReplacedPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, prod := f.seed(t)

	_, err := f.rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialSecret)
	require.NoError(t, err)

	racing := &racingEnvStore{envStore: f.envRepo}
	racing.swap = func() {
		_, err := f.rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialSecret)
		require.NoError(t, err)
	}
	rotation := NewRotationUseCase(passthroughTxManager{}, racing, f.encryptor, f.hasher, &sequenceGenerator{}, f.cache)

	err = rotation.Activate(ctx, prod.ID, envDomain.CredentialSecret)
	assert.ErrorIs(t, err, envDomain.ErrInvalidRotationState)

	row := f.store.row(prod.ID)
	assert.Equal(t, *prod.SecretKeyHashed, *row.SecretKeyHashed)
	assert.NotNil(t, row.PendingSecretKey)
}

func TestRotationUseCase_PublicKey(t *testing.T) {
	ctx := context.Background()

	t.Run("BeginThenActivate", func(t *testing.T) {
		f := newFixture(t)
		_, prod := f.seed(t)
		resolver := f.resolver(nil, 0)
		hashesBefore := f.hasher.calls.Load()

		pending, err := f.rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialPublic)
		require.NoError(t, err)

		row := f.store.row(prod.ID)
		require.NotNil(t, row.PendingPublicKey)
		assert.Equal(t, pending, *row.PendingPublicKey)

		require.NoError(t, f.rotation.Activate(ctx, prod.ID, envDomain.CredentialPublic))
		assert.Equal(t, hashesBefore, f.hasher.calls.Load())

		_, err = resolver.ResolveByPublicKey(ctx, prod.PublicKey)
		assert.ErrorIs(t, err, envDomain.ErrCallerNotFound)
		caller, err := resolver.ResolveByPublicKey(ctx, pending)
		require.NoError(t, err)
		assert.Equal(t, prod.ID, caller.Environment.ID)

		// The secret key is unaffected.
		_, err = resolver.ResolveBySecret(ctx, prod.SecretKey)
		assert.NoError(t, err)
	})

	t.Run("BeginThenRevert", func(t *testing.T) {
		f := newFixture(t)
		_, prod := f.seed(t)

		_, err := f.rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialPublic)
		require.NoError(t, err)

		active, err := f.rotation.Revert(ctx, prod.ID, envDomain.CredentialPublic)
		require.NoError(t, err)
		assert.Equal(t, prod.PublicKey, active)
		assert.Nil(t, f.store.row(prod.ID).PendingPublicKey)
	})

	t.Run("ActivateWithoutPending", func(t *testing.T) {
		f := newFixture(t)
		_, prod := f.seed(t)

		err := f.rotation.Activate(ctx, prod.ID, envDomain.CredentialPublic)
		assert.ErrorIs(t, err, envDomain.ErrInvalidRotationState)
		assert.Equal(t, prod.PublicKey, f.store.row(prod.ID).PublicKey)
	})
}

func TestRotationUseCase_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, prod := f.seed(t)

	_, err := f.rotation.BeginRotation(ctx, 999, envDomain.CredentialSecret)
	assert.ErrorIs(t, err, envDomain.ErrEnvironmentNotFound)

	err = f.rotation.Activate(ctx, 999, envDomain.CredentialSecret)
	assert.ErrorIs(t, err, envDomain.ErrEnvironmentNotFound)

	_, err = f.rotation.Revert(ctx, 999, envDomain.CredentialPublic)
	assert.ErrorIs(t, err, envDomain.ErrEnvironmentNotFound)

	_, err = f.rotation.State(ctx, 999, envDomain.CredentialPublic)
	assert.ErrorIs(t, err, envDomain.ErrEnvironmentNotFound)

	_, err = f.rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialType("private"))
	assert.ErrorIs(t, err, envDomain.ErrInvalidCredentialType)

	err = f.rotation.Activate(ctx, prod.ID, envDomain.CredentialType(""))
	assert.ErrorIs(t, err, envDomain.ErrInvalidCredentialType)

	t.Run("TransactionFailureLeavesRowUnchanged", func(t *testing.T) {
		before := f.store.row(prod.ID)
		mockTx := &MockTxManager{}
		mockTx.On("WithTx", ctx, mockAnyFunc).Return(assertError).Once()

		rotation := NewRotationUseCase(mockTx, f.envRepo, f.encryptor, f.hasher, &sequenceGenerator{}, f.cache)
		_, err := rotation.BeginRotation(ctx, prod.ID, envDomain.CredentialSecret)

		assert.ErrorIs(t, err, assertError)
		assert.Equal(t, before, f.store.row(prod.ID))
		mockTx.AssertExpectations(t)
	})
}
