package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/allisson/envkeys/internal/database"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	envHTTP "github.com/allisson/envkeys/internal/environment/http"
	envRepository "github.com/allisson/envkeys/internal/environment/repository"
	envService "github.com/allisson/envkeys/internal/environment/service"
	envUseCase "github.com/allisson/envkeys/internal/environment/usecase"
	"github.com/allisson/envkeys/internal/hashcache"
)

// HashCache returns the secret key hash cache shared by the resolver and the
// rotation controller.
func (c *Container) HashCache() (envUseCase.HashCache, error) {
	var err error
	c.hashCacheInit.Do(func() {
		c.hashCache, err = c.initHashCache()
		if err != nil {
			c.initErrors["hashCache"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["hashCache"]; exists {
		return nil, storedErr
	}
	return c.hashCache, nil
}

// OverrideIndex returns the self-hosted credential index. It is nil in cloud mode.
func (c *Container) OverrideIndex() *envService.OverrideIndex {
	c.overrideIndexInit.Do(func() {
		c.overrideIndex = c.initOverrideIndex()
	})
	return c.overrideIndex
}

// Encryptor returns the environment encryptor.
func (c *Container) Encryptor() (*envService.Encryptor, error) {
	var err error
	c.encryptorInit.Do(func() {
		cipher, cipherErr := c.FieldCipher()
		if cipherErr != nil {
			err = fmt.Errorf("failed to get field cipher for encryptor: %w", cipherErr)
			c.initErrors["encryptor"] = err
			return
		}
		c.encryptor = envService.NewEncryptor(cipher)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptor"]; exists {
		return nil, storedErr
	}
	return c.encryptor, nil
}

// CredentialGenerator returns the credential value generator.
func (c *Container) CredentialGenerator() envUseCase.CredentialGenerator {
	c.credentialGeneratorInit.Do(func() {
		c.credentialGenerator = envService.NewCredentialGenerator()
	})
	return c.credentialGenerator
}

// AdminTokenService returns the admin token service.
func (c *Container) AdminTokenService() envService.AdminTokenService {
	c.adminTokenServiceInit.Do(func() {
		c.adminTokenService = envService.NewAdminTokenService()
	})
	return c.adminTokenService
}

// AccountRepository returns the account repository for the configured driver.
func (c *Container) AccountRepository() (envUseCase.AccountRepository, error) {
	var err error
	c.accountRepositoryInit.Do(func() {
		c.accountRepository, err = c.initAccountRepository()
		if err != nil {
			c.initErrors["accountRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountRepository"]; exists {
		return nil, storedErr
	}
	return c.accountRepository, nil
}

// EnvironmentRepository returns the environment repository for the configured driver.
func (c *Container) EnvironmentRepository() (envUseCase.EnvironmentRepository, error) {
	var err error
	c.envRepositoryInit.Do(func() {
		c.envRepository, err = c.initEnvironmentRepository()
		if err != nil {
			c.initErrors["envRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envRepository"]; exists {
		return nil, storedErr
	}
	return c.envRepository, nil
}

// VariableRepository returns the environment variable repository for the configured driver.
func (c *Container) VariableRepository() (envUseCase.VariableRepository, error) {
	var err error
	c.variableRepositoryInit.Do(func() {
		c.variableRepository, err = c.initVariableRepository()
		if err != nil {
			c.initErrors["variableRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["variableRepository"]; exists {
		return nil, storedErr
	}
	return c.variableRepository, nil
}

// AccountUseCase returns the account use case.
func (c *Container) AccountUseCase() (envUseCase.AccountUseCase, error) {
	var err error
	c.accountUseCaseInit.Do(func() {
		c.accountUseCase, err = c.initAccountUseCase()
		if err != nil {
			c.initErrors["accountUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// EnvironmentUseCase returns the environment use case.
func (c *Container) EnvironmentUseCase() (envUseCase.EnvironmentUseCase, error) {
	var err error
	c.environmentUseCaseInit.Do(func() {
		c.environmentUseCase, err = c.initEnvironmentUseCase()
		if err != nil {
			c.initErrors["environmentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["environmentUseCase"]; exists {
		return nil, storedErr
	}
	return c.environmentUseCase, nil
}

// ResolverUseCase returns the credential resolver.
func (c *Container) ResolverUseCase() (envUseCase.ResolverUseCase, error) {
	var err error
	c.resolverUseCaseInit.Do(func() {
		c.resolverUseCase, err = c.initResolverUseCase()
		if err != nil {
			c.initErrors["resolverUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resolverUseCase"]; exists {
		return nil, storedErr
	}
	return c.resolverUseCase, nil
}

// RotationUseCase returns the key rotation controller.
func (c *Container) RotationUseCase() (envUseCase.RotationUseCase, error) {
	var err error
	c.rotationUseCaseInit.Do(func() {
		c.rotationUseCase, err = c.initRotationUseCase()
		if err != nil {
			c.initErrors["rotationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rotationUseCase"]; exists {
		return nil, storedErr
	}
	return c.rotationUseCase, nil
}

// AccountHandler returns the account HTTP handler.
func (c *Container) AccountHandler() (*envHTTP.AccountHandler, error) {
	var err error
	c.accountHandlerInit.Do(func() {
		useCase, useCaseErr := c.AccountUseCase()
		if useCaseErr != nil {
			err = fmt.Errorf("failed to get account use case for account handler: %w", useCaseErr)
			c.initErrors["accountHandler"] = err
			return
		}
		c.accountHandler = envHTTP.NewAccountHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountHandler"]; exists {
		return nil, storedErr
	}
	return c.accountHandler, nil
}

// EnvironmentHandler returns the environment HTTP handler.
func (c *Container) EnvironmentHandler() (*envHTTP.EnvironmentHandler, error) {
	var err error
	c.environmentHandlerInit.Do(func() {
		useCase, useCaseErr := c.EnvironmentUseCase()
		if useCaseErr != nil {
			err = fmt.Errorf("failed to get environment use case for environment handler: %w", useCaseErr)
			c.initErrors["environmentHandler"] = err
			return
		}
		c.environmentHandler = envHTTP.NewEnvironmentHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["environmentHandler"]; exists {
		return nil, storedErr
	}
	return c.environmentHandler, nil
}

// KeyHandler returns the key rotation HTTP handler.
func (c *Container) KeyHandler() (*envHTTP.KeyHandler, error) {
	var err error
	c.keyHandlerInit.Do(func() {
		useCase, useCaseErr := c.RotationUseCase()
		if useCaseErr != nil {
			err = fmt.Errorf("failed to get rotation use case for key handler: %w", useCaseErr)
			c.initErrors["keyHandler"] = err
			return
		}
		c.keyHandler = envHTTP.NewKeyHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyHandler"]; exists {
		return nil, storedErr
	}
	return c.keyHandler, nil
}

// CallerHandler returns the whoami HTTP handler.
func (c *Container) CallerHandler() *envHTTP.CallerHandler {
	c.callerHandlerInit.Do(func() {
		c.callerHandler = envHTTP.NewCallerHandler(c.Logger())
	})
	return c.callerHandler
}

func (c *Container) initHashCache() (envUseCase.HashCache, error) {
	cache, err := hashcache.New(c.config.HashCacheSize, c.config.HashCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create hash cache: %w", err)
	}
	c.rawHashCache = cache

	if !c.config.MetricsEnabled {
		return cache, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for hash cache: %w", err)
	}
	return envUseCase.NewHashCacheWithMetrics(cache, businessMetrics), nil
}

func (c *Container) initOverrideIndex() *envService.OverrideIndex {
	if c.config.CloudMode {
		return nil
	}

	index := envService.NewOverrideIndex(os.Environ(), c.config.SecretKeyEnvPrefix, c.config.PublicKeyEnvPrefix)
	c.Logger().Info("self-hosted credential overrides loaded",
		slog.Int("secret_keys", index.Len(envDomain.CredentialSecret)),
		slog.Int("public_keys", index.Len(envDomain.CredentialPublic)),
		slog.Int64("account_id", c.config.SelfHostedAccountID))

	return index
}

func (c *Container) initAccountRepository() (envUseCase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch {
	case c.config.DBDriver == database.DriverMySQL:
		return envRepository.NewMySQLAccountRepository(db), nil
	case database.IsPostgres(c.config.DBDriver):
		return envRepository.NewPostgreSQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initEnvironmentRepository() (envUseCase.EnvironmentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for environment repository: %w", err)
	}

	switch {
	case c.config.DBDriver == database.DriverMySQL:
		return envRepository.NewMySQLEnvironmentRepository(db), nil
	case database.IsPostgres(c.config.DBDriver):
		return envRepository.NewPostgreSQLEnvironmentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initVariableRepository() (envUseCase.VariableRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for variable repository: %w", err)
	}

	switch {
	case c.config.DBDriver == database.DriverMySQL:
		return envRepository.NewMySQLVariableRepository(db), nil
	case database.IsPostgres(c.config.DBDriver):
		return envRepository.NewPostgreSQLVariableRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initEnvironmentUseCase() (envUseCase.EnvironmentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for environment use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for environment use case: %w", err)
	}

	envRepo, err := c.EnvironmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get environment repository for environment use case: %w", err)
	}

	varRepo, err := c.VariableRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get variable repository for environment use case: %w", err)
	}

	encryptor, err := c.Encryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor for environment use case: %w", err)
	}

	hasher, err := c.SecretHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret hasher for environment use case: %w", err)
	}

	baseUseCase := envUseCase.NewEnvironmentUseCase(
		txManager,
		accountRepo,
		envRepo,
		varRepo,
		encryptor,
		hasher,
		c.CredentialGenerator(),
	)

	return c.withEnvironmentMetrics(baseUseCase)
}

func (c *Container) withEnvironmentMetrics(
	useCase envUseCase.EnvironmentUseCase,
) (envUseCase.EnvironmentUseCase, error) {
	if !c.config.MetricsEnabled {
		return useCase, nil
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for environment use case: %w", err)
	}
	return envUseCase.NewEnvironmentUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initAccountUseCase() (envUseCase.AccountUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for account use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for account use case: %w", err)
	}

	environmentUseCase, err := c.EnvironmentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get environment use case for account use case: %w", err)
	}

	baseUseCase := envUseCase.NewAccountUseCase(txManager, accountRepo, environmentUseCase)

	if !c.config.MetricsEnabled {
		return baseUseCase, nil
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for account use case: %w", err)
	}
	return envUseCase.NewAccountUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

func (c *Container) initResolverUseCase() (envUseCase.ResolverUseCase, error) {
	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for resolver use case: %w", err)
	}

	envRepo, err := c.EnvironmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get environment repository for resolver use case: %w", err)
	}

	encryptor, err := c.Encryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor for resolver use case: %w", err)
	}

	hasher, err := c.SecretHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret hasher for resolver use case: %w", err)
	}

	cache, err := c.HashCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get hash cache for resolver use case: %w", err)
	}

	// A nil *OverrideIndex inside the interface would not compare equal to nil.
	var overrides envUseCase.OverrideIndex
	if index := c.OverrideIndex(); index != nil {
		overrides = index
	}

	baseUseCase := envUseCase.NewResolverUseCase(
		accountRepo,
		envRepo,
		encryptor,
		hasher,
		cache,
		overrides,
		c.config.SelfHostedAccountID,
	)

	if !c.config.MetricsEnabled {
		return baseUseCase, nil
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for resolver use case: %w", err)
	}
	return envUseCase.NewResolverUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}

func (c *Container) initRotationUseCase() (envUseCase.RotationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for rotation use case: %w", err)
	}

	envRepo, err := c.EnvironmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get environment repository for rotation use case: %w", err)
	}

	encryptor, err := c.Encryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor for rotation use case: %w", err)
	}

	hasher, err := c.SecretHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret hasher for rotation use case: %w", err)
	}

	cache, err := c.HashCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get hash cache for rotation use case: %w", err)
	}

	baseUseCase := envUseCase.NewRotationUseCase(
		txManager,
		envRepo,
		encryptor,
		hasher,
		c.CredentialGenerator(),
		cache,
	)

	if !c.config.MetricsEnabled {
		return baseUseCase, nil
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for rotation use case: %w", err)
	}
	return envUseCase.NewRotationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}
