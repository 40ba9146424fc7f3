package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoService "github.com/allisson/envkeys/internal/crypto/service"
	"github.com/allisson/envkeys/internal/database"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	apperrors "github.com/allisson/envkeys/internal/errors"
	customValidation "github.com/allisson/envkeys/internal/validation"
)

// environmentUseCase implements the EnvironmentUseCase interface.
type environmentUseCase struct {
	txManager   database.TxManager
	accountRepo AccountRepository
	envRepo     EnvironmentRepository
	varRepo     VariableRepository
	encryptor   EnvironmentEncryptor
	hasher      cryptoService.SecretHasher
	generator   CredentialGenerator
}

// Create provisions an environment with fresh credentials.
func (e *environmentUseCase) Create(
	ctx context.Context,
	accountID int64,
	name string,
) (*envDomain.Environment, error) {
	if err := validateEnvironmentName(name); err != nil {
		return nil, err
	}

	if _, err := e.accountRepo.Get(ctx, accountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	env := &envDomain.Environment{
		UUID:      uuid.Must(uuid.NewV7()),
		AccountID: accountID,
		Name:      name,
		SecretKey: e.generator.SecretKey(),
		PublicKey: e.generator.PublicKey(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	persisted, err := e.encryptor.EncryptEnvironment(env)
	if err != nil {
		return nil, err
	}

	// First write: the row exists but cannot be resolved by secret key yet.
	if err := e.envRepo.Create(ctx, persisted); err != nil {
		return nil, err
	}
	env.ID = persisted.ID

	// Second write: store the lookup hash.
	hash := e.hasher.Hash(env.SecretKey)
	if err := e.envRepo.UpdateSecretKeyHash(ctx, env.ID, hash); err != nil {
		return nil, err
	}
	env.SecretKeyHashed = &hash

	return env, nil
}

// Get retrieves and decrypts an environment by ID.
func (e *environmentUseCase) Get(ctx context.Context, envID int64) (*envDomain.Environment, error) {
	env, err := e.envRepo.Get(ctx, envID)
	if err != nil {
		return nil, err
	}
	return e.encryptor.DecryptEnvironment(env)
}

// GetByUUID retrieves and decrypts an environment by its public UUID.
func (e *environmentUseCase) GetByUUID(ctx context.Context, envUUID uuid.UUID) (*envDomain.Environment, error) {
	env, err := e.envRepo.GetByUUID(ctx, envUUID)
	if err != nil {
		return nil, err
	}
	return e.encryptor.DecryptEnvironment(env)
}

// GetByName retrieves and decrypts an environment by account and name.
func (e *environmentUseCase) GetByName(
	ctx context.Context,
	accountID int64,
	name string,
) (*envDomain.Environment, error) {
	env, err := e.envRepo.GetByName(ctx, accountID, name)
	if err != nil {
		return nil, err
	}
	return e.encryptor.DecryptEnvironment(env)
}

// ListByAccount returns the live environments of an account, oldest first.
func (e *environmentUseCase) ListByAccount(
	ctx context.Context,
	accountID int64,
) ([]*envDomain.Environment, error) {
	envs, err := e.envRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	result := make([]*envDomain.Environment, 0, len(envs))
	for _, env := range envs {
		decrypted, err := e.encryptor.DecryptEnvironment(env)
		if err != nil {
			return nil, err
		}
		result = append(result, decrypted)
	}
	return result, nil
}

// UpdateMetadata applies update to the environment under a row lock.
func (e *environmentUseCase) UpdateMetadata(
	ctx context.Context,
	envID int64,
	update envDomain.MetadataUpdate,
) (*envDomain.Environment, error) {
	if update.Name != nil {
		if err := validateEnvironmentName(*update.Name); err != nil {
			return nil, err
		}
	}

	var updated *envDomain.Environment
	err := e.txManager.WithTx(ctx, func(txCtx context.Context) error {
		env, err := e.envRepo.GetForUpdate(txCtx, envID)
		if err != nil {
			return err
		}

		update.Apply(env)
		env.UpdatedAt = time.Now().UTC()

		if err := e.envRepo.UpdateMetadata(txCtx, env); err != nil {
			return err
		}
		updated = env
		return nil
	})
	if err != nil {
		return nil, err
	}

	return e.encryptor.DecryptEnvironment(updated)
}

// Delete soft-deletes the environment.
func (e *environmentUseCase) Delete(ctx context.Context, envID int64) error {
	return e.envRepo.Delete(ctx, envID)
}

// GetVariables returns the decrypted variables of the environment.
func (e *environmentUseCase) GetVariables(
	ctx context.Context,
	envID int64,
) ([]*envDomain.EnvironmentVariable, error) {
	if _, err := e.envRepo.Get(ctx, envID); err != nil {
		return nil, err
	}

	variables, err := e.varRepo.ListByEnvironment(ctx, envID)
	if err != nil {
		return nil, err
	}

	result := make([]*envDomain.EnvironmentVariable, 0, len(variables))
	for _, variable := range variables {
		decrypted, err := e.encryptor.DecryptVariable(variable)
		if err != nil {
			return nil, err
		}
		result = append(result, decrypted)
	}
	return result, nil
}

// SetVariables deletes every variable of the environment and inserts values in
// a single transaction. An empty values deletes everything and inserts nothing.
func (e *environmentUseCase) SetVariables(
	ctx context.Context,
	envID int64,
	values []envDomain.VariableInput,
) ([]*envDomain.EnvironmentVariable, error) {
	if err := validateVariableInputs(values); err != nil {
		return nil, err
	}

	result := make([]*envDomain.EnvironmentVariable, 0, len(values))
	err := e.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := e.envRepo.GetForUpdate(txCtx, envID); err != nil {
			return err
		}

		if err := e.varRepo.DeleteByEnvironment(txCtx, envID); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, input := range values {
			variable := &envDomain.EnvironmentVariable{
				EnvironmentID: envID,
				Name:          input.Name,
				Value:         input.Value,
				CreatedAt:     now,
			}

			persisted, err := e.encryptor.EncryptVariable(variable)
			if err != nil {
				return err
			}
			if err := e.varRepo.Create(txCtx, persisted); err != nil {
				return err
			}

			variable.ID = persisted.ID
			result = append(result, variable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func validateEnvironmentName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.Length(1, 64),
		customValidation.EnvironmentName,
	)
	return customValidation.WrapValidationError(err)
}

func validateVariableInputs(values []envDomain.VariableInput) error {
	seen := make(map[string]struct{}, len(values))
	for _, input := range values {
		err := validation.Validate(input.Name,
			validation.Required,
			validation.Length(1, 255),
			customValidation.VariableName,
		)
		if err != nil {
			return apperrors.Wrapf(apperrors.ErrInvalidInput, "variable %q: %s", input.Name, err.Error())
		}
		if _, dup := seen[input.Name]; dup {
			return apperrors.Wrapf(apperrors.ErrInvalidInput, "variable %q is set more than once", input.Name)
		}
		seen[input.Name] = struct{}{}
	}
	return nil
}

// NewEnvironmentUseCase creates a new EnvironmentUseCase.
func NewEnvironmentUseCase(
	txManager database.TxManager,
	accountRepo AccountRepository,
	envRepo EnvironmentRepository,
	varRepo VariableRepository,
	encryptor EnvironmentEncryptor,
	hasher cryptoService.SecretHasher,
	generator CredentialGenerator,
) EnvironmentUseCase {
	return &environmentUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		envRepo:     envRepo,
		varRepo:     varRepo,
		encryptor:   encryptor,
		hasher:      hasher,
		generator:   generator,
	}
}
