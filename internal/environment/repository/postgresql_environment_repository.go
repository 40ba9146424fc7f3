// Package repository implements persistence for accounts, environments and
// environment variables.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types. Credential fields are
// stored exactly as handed over: encryption happens in the use case layer.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
	"github.com/allisson/envkeys/internal/database"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

const environmentColumns = `id, uuid, account_id, name,
	secret_key, secret_key_iv, secret_key_tag, secret_key_hashed,
	pending_secret_key, pending_secret_key_iv, pending_secret_key_tag,
	public_key, pending_public_key,
	hmac_enabled, hmac_key, webhook_url, secondary_webhook_url, callback_url,
	send_auth_webhook, always_send_webhook,
	created_at, updated_at, deleted_at`

const (
	pgInsertEnvironment = `INSERT INTO environments (uuid, account_id, name,
	secret_key, secret_key_iv, secret_key_tag,
	public_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

	pgUpdateSecretKeyHash = `UPDATE environments SET secret_key_hashed = $1, updated_at = NOW()
WHERE id = $2 AND deleted_at IS NULL`

	pgUpdateEnvironmentMetadata = `UPDATE environments SET name = $1, hmac_enabled = $2, hmac_key = $3,
	webhook_url = $4, secondary_webhook_url = $5, callback_url = $6,
	send_auth_webhook = $7, always_send_webhook = $8, updated_at = $9
WHERE id = $10 AND deleted_at IS NULL`

	pgDeleteEnvironment = `UPDATE environments SET deleted_at = NOW()
WHERE id = $1 AND deleted_at IS NULL`

	pgSelectEnvironmentByID   = `SELECT ` + environmentColumns + ` FROM environments WHERE id = $1 AND deleted_at IS NULL`
	pgSelectEnvironmentLocked = pgSelectEnvironmentByID + ` FOR UPDATE`
	pgSelectEnvironmentByUUID = `SELECT ` + environmentColumns + ` FROM environments WHERE uuid = $1 AND deleted_at IS NULL`
	pgSelectEnvironmentByName = `SELECT ` + environmentColumns +
		` FROM environments WHERE account_id = $1 AND name = $2 AND deleted_at IS NULL`
	pgSelectEnvironmentByHash = `SELECT ` + environmentColumns +
		` FROM environments WHERE secret_key_hashed = $1 AND deleted_at IS NULL LIMIT 1`
	pgSelectEnvironmentByPublicKey = `SELECT ` + environmentColumns +
		` FROM environments WHERE public_key = $1 AND deleted_at IS NULL LIMIT 1`
	pgListEnvironmentsByAccount = `SELECT ` + environmentColumns +
		` FROM environments WHERE account_id = $1 AND deleted_at IS NULL ORDER BY id`

	pgSetPendingSecretKey = `UPDATE environments
SET pending_secret_key = $1, pending_secret_key_iv = $2, pending_secret_key_tag = $3, updated_at = NOW()
WHERE id = $4 AND deleted_at IS NULL`

	pgSetPendingPublicKey = `UPDATE environments SET pending_public_key = $1, updated_at = NOW()
WHERE id = $2 AND deleted_at IS NULL`

	pgActivateSecretKey = `UPDATE environments
SET secret_key = pending_secret_key,
	secret_key_iv = pending_secret_key_iv,
	secret_key_tag = pending_secret_key_tag,
	secret_key_hashed = $1,
	pending_secret_key = NULL,
	pending_secret_key_iv = NULL,
	pending_secret_key_tag = NULL,
	updated_at = NOW()
WHERE id = $2 AND pending_secret_key = $3 AND deleted_at IS NULL`

	pgActivatePublicKey = `UPDATE environments
SET public_key = pending_public_key, pending_public_key = NULL, updated_at = NOW()
WHERE id = $1 AND pending_public_key IS NOT NULL AND deleted_at IS NULL`

	pgClearPendingSecretKey = `UPDATE environments
SET pending_secret_key = NULL, pending_secret_key_iv = NULL, pending_secret_key_tag = NULL, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL`

	pgClearPendingPublicKey = `UPDATE environments SET pending_public_key = NULL, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL`
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// environmentScanTargets returns the Scan destinations matching environmentColumns.
// The uuid destination is passed in so MySQL can scan raw bytes instead.
func environmentScanTargets(env *envDomain.Environment, uuidDest any) []any {
	return []any{
		&env.ID,
		uuidDest,
		&env.AccountID,
		&env.Name,
		&env.SecretKey,
		&env.SecretKeyIV,
		&env.SecretKeyTag,
		&env.SecretKeyHashed,
		&env.PendingSecretKey,
		&env.PendingSecretKeyIV,
		&env.PendingSecretKeyTag,
		&env.PublicKey,
		&env.PendingPublicKey,
		&env.HMACEnabled,
		&env.HMACKey,
		&env.WebhookURL,
		&env.SecondaryWebhookURL,
		&env.CallbackURL,
		&env.SendAuthWebhook,
		&env.AlwaysSendWebhook,
		&env.CreatedAt,
		&env.UpdatedAt,
		&env.DeletedAt,
	}
}

// PostgreSQLEnvironmentRepository implements Environment persistence for PostgreSQL.
type PostgreSQLEnvironmentRepository struct {
	db *sql.DB
}

// NewPostgreSQLEnvironmentRepository creates a new PostgreSQL Environment repository.
func NewPostgreSQLEnvironmentRepository(db *sql.DB) *PostgreSQLEnvironmentRepository {
	return &PostgreSQLEnvironmentRepository{db: db}
}

// Create inserts a new Environment and sets its ID. secret_key_hashed stays NULL
// until UpdateSecretKeyHash runs.
func (p *PostgreSQLEnvironmentRepository) Create(ctx context.Context, env *envDomain.Environment) error {
	querier := database.GetTx(ctx, p.db)

	err := querier.QueryRowContext(
		ctx,
		pgInsertEnvironment,
		env.UUID,
		env.AccountID,
		env.Name,
		env.SecretKey,
		env.SecretKeyIV,
		env.SecretKeyTag,
		env.PublicKey,
		env.CreatedAt,
		env.UpdatedAt,
	).Scan(&env.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return envDomain.ErrEnvironmentAlreadyExists
		}
		return database.WrapError(err, "failed to create environment")
	}
	return nil
}

// UpdateSecretKeyHash stores the lookup hash of the active secret key.
func (p *PostgreSQLEnvironmentRepository) UpdateSecretKeyHash(
	ctx context.Context,
	envID int64,
	hash string,
) error {
	return execExpectingRow(ctx, database.GetTx(ctx, p.db), "failed to update secret key hash",
		pgUpdateSecretKeyHash, hash, envID)
}

// UpdateMetadata writes the non-credential fields of env.
func (p *PostgreSQLEnvironmentRepository) UpdateMetadata(
	ctx context.Context,
	env *envDomain.Environment,
) error {
	err := execExpectingRow(ctx, database.GetTx(ctx, p.db), "failed to update environment",
		pgUpdateEnvironmentMetadata,
		env.Name,
		env.HMACEnabled,
		env.HMACKey,
		env.WebhookURL,
		env.SecondaryWebhookURL,
		env.CallbackURL,
		env.SendAuthWebhook,
		env.AlwaysSendWebhook,
		env.UpdatedAt,
		env.ID,
	)
	if database.IsUniqueViolation(err) {
		return envDomain.ErrEnvironmentAlreadyExists
	}
	return err
}

// Delete soft-deletes the environment.
func (p *PostgreSQLEnvironmentRepository) Delete(ctx context.Context, envID int64) error {
	return execExpectingRow(ctx, database.GetTx(ctx, p.db), "failed to delete environment",
		pgDeleteEnvironment, envID)
}

// Get retrieves an Environment by ID.
func (p *PostgreSQLEnvironmentRepository) Get(ctx context.Context, envID int64) (*envDomain.Environment, error) {
	return p.getOne(ctx, pgSelectEnvironmentByID, envID)
}

// GetForUpdate retrieves an Environment by ID and locks its row.
func (p *PostgreSQLEnvironmentRepository) GetForUpdate(
	ctx context.Context,
	envID int64,
) (*envDomain.Environment, error) {
	return p.getOne(ctx, pgSelectEnvironmentLocked, envID)
}

// GetByUUID retrieves an Environment by UUID.
func (p *PostgreSQLEnvironmentRepository) GetByUUID(
	ctx context.Context,
	envUUID uuid.UUID,
) (*envDomain.Environment, error) {
	return p.getOne(ctx, pgSelectEnvironmentByUUID, envUUID)
}

// GetByName retrieves an Environment by account and name.
func (p *PostgreSQLEnvironmentRepository) GetByName(
	ctx context.Context,
	accountID int64,
	name string,
) (*envDomain.Environment, error) {
	return p.getOne(ctx, pgSelectEnvironmentByName, accountID, name)
}

// GetBySecretKeyHash retrieves the Environment whose active secret key hashes to hash.
func (p *PostgreSQLEnvironmentRepository) GetBySecretKeyHash(
	ctx context.Context,
	hash string,
) (*envDomain.Environment, error) {
	return p.getOne(ctx, pgSelectEnvironmentByHash, hash)
}

// GetByPublicKey retrieves the Environment whose active public key equals publicKey.
func (p *PostgreSQLEnvironmentRepository) GetByPublicKey(
	ctx context.Context,
	publicKey string,
) (*envDomain.Environment, error) {
	return p.getOne(ctx, pgSelectEnvironmentByPublicKey, publicKey)
}

// ListByAccount retrieves the environments of an account ordered by ID. Returns an
// empty slice when the account has none.
func (p *PostgreSQLEnvironmentRepository) ListByAccount(
	ctx context.Context,
	accountID int64,
) ([]*envDomain.Environment, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, pgListEnvironmentsByAccount, accountID)
	if err != nil {
		return nil, database.WrapError(err, "failed to list environments")
	}
	defer func() {
		_ = rows.Close()
	}()

	envs := make([]*envDomain.Environment, 0)
	for rows.Next() {
		var env envDomain.Environment
		if err := rows.Scan(environmentScanTargets(&env, &env.UUID)...); err != nil {
			return nil, database.WrapError(err, "failed to scan environment row")
		}
		envs = append(envs, &env)
	}

	if err := rows.Err(); err != nil {
		return nil, database.WrapError(err, "error iterating environment rows")
	}

	return envs, nil
}

// SetPendingSecretKey stores the encrypted pending secret key, replacing any previous one.
func (p *PostgreSQLEnvironmentRepository) SetPendingSecretKey(
	ctx context.Context,
	envID int64,
	pending cryptoDomain.EncryptedField,
) error {
	return execExpectingRow(ctx, database.GetTx(ctx, p.db), "failed to set pending secret key",
		pgSetPendingSecretKey,
		pending.Ciphertext,
		nullableString(pending.IV),
		nullableString(pending.Tag),
		envID,
	)
}

// SetPendingPublicKey stores the pending public key, replacing any previous one.
func (p *PostgreSQLEnvironmentRepository) SetPendingPublicKey(
	ctx context.Context,
	envID int64,
	pending string,
) error {
	return execExpectingRow(ctx, database.GetTx(ctx, p.db), "failed to set pending public key",
		pgSetPendingPublicKey, pending, envID)
}

// ActivateSecretKey promotes the pending secret key in a single statement.
func (p *PostgreSQLEnvironmentRepository) ActivateSecretKey(
	ctx context.Context,
	envID int64,
	pendingCiphertext, hash string,
) (bool, error) {
	return execAffected(ctx, database.GetTx(ctx, p.db), "failed to activate secret key",
		pgActivateSecretKey, hash, envID, pendingCiphertext)
}

// ActivatePublicKey promotes the pending public key in a single statement.
func (p *PostgreSQLEnvironmentRepository) ActivatePublicKey(ctx context.Context, envID int64) (bool, error) {
	return execAffected(ctx, database.GetTx(ctx, p.db), "failed to activate public key",
		pgActivatePublicKey, envID)
}

// ClearPendingSecretKey discards the pending secret key. Clearing an empty slot is not an error.
func (p *PostgreSQLEnvironmentRepository) ClearPendingSecretKey(ctx context.Context, envID int64) error {
	return exec(ctx, database.GetTx(ctx, p.db), "failed to clear pending secret key",
		pgClearPendingSecretKey, envID)
}

// ClearPendingPublicKey discards the pending public key. Clearing an empty slot is not an error.
func (p *PostgreSQLEnvironmentRepository) ClearPendingPublicKey(ctx context.Context, envID int64) error {
	return exec(ctx, database.GetTx(ctx, p.db), "failed to clear pending public key",
		pgClearPendingPublicKey, envID)
}

func (p *PostgreSQLEnvironmentRepository) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*envDomain.Environment, error) {
	querier := database.GetTx(ctx, p.db)

	var env envDomain.Environment
	err := querier.QueryRowContext(ctx, query, args...).Scan(environmentScanTargets(&env, &env.UUID)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, envDomain.ErrEnvironmentNotFound
		}
		return nil, database.WrapError(err, "failed to get environment")
	}
	return &env, nil
}
