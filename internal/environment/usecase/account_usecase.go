package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/envkeys/internal/database"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	customValidation "github.com/allisson/envkeys/internal/validation"
)

// accountUseCase implements the AccountUseCase interface.
type accountUseCase struct {
	txManager    database.TxManager
	accountRepo  AccountRepository
	envUseCase   EnvironmentUseCase
	defaultNames []string
}

// Create inserts the account and its default environments in one transaction.
func (a *accountUseCase) Create(
	ctx context.Context,
	name string,
) (*envDomain.Account, []*envDomain.Environment, error) {
	name = strings.TrimSpace(name)
	err := validation.Validate(name,
		validation.Required,
		validation.Length(1, 255),
		customValidation.NotBlank,
	)
	if err != nil {
		return nil, nil, customValidation.WrapValidationError(err)
	}

	account := &envDomain.Account{
		UUID:      uuid.Must(uuid.NewV7()),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	envs := make([]*envDomain.Environment, 0, len(a.defaultNames))

	err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := a.accountRepo.Create(txCtx, account); err != nil {
			return err
		}

		for _, envName := range a.defaultNames {
			env, err := a.envUseCase.Create(txCtx, account.ID, envName)
			if err != nil {
				return err
			}
			envs = append(envs, env)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return account, envs, nil
}

// Get retrieves an account by ID.
func (a *accountUseCase) Get(ctx context.Context, accountID int64) (*envDomain.Account, error) {
	return a.accountRepo.Get(ctx, accountID)
}

// NewAccountUseCase creates a new AccountUseCase. New accounts receive the
// environments named in envDomain.DefaultEnvironmentNames.
func NewAccountUseCase(
	txManager database.TxManager,
	accountRepo AccountRepository,
	envUseCase EnvironmentUseCase,
) AccountUseCase {
	return &accountUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		envUseCase:   envUseCase,
		defaultNames: envDomain.DefaultEnvironmentNames,
	}
}
