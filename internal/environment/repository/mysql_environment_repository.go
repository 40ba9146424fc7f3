package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
	"github.com/allisson/envkeys/internal/database"
	apperrors "github.com/allisson/envkeys/internal/errors"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

const (
	myInsertEnvironment = `INSERT INTO environments (uuid, account_id, name,
	secret_key, secret_key_iv, secret_key_tag,
	public_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	myUpdateSecretKeyHash = `UPDATE environments SET secret_key_hashed = ?, updated_at = NOW(6)
WHERE id = ? AND deleted_at IS NULL`

	myUpdateEnvironmentMetadata = `UPDATE environments SET name = ?, hmac_enabled = ?, hmac_key = ?,
	webhook_url = ?, secondary_webhook_url = ?, callback_url = ?,
	send_auth_webhook = ?, always_send_webhook = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL`

	myDeleteEnvironment = `UPDATE environments SET deleted_at = NOW(6)
WHERE id = ? AND deleted_at IS NULL`

	mySelectEnvironmentByID   = `SELECT ` + environmentColumns + ` FROM environments WHERE id = ? AND deleted_at IS NULL`
	mySelectEnvironmentLocked = mySelectEnvironmentByID + ` FOR UPDATE`
	mySelectEnvironmentByUUID = `SELECT ` + environmentColumns + ` FROM environments WHERE uuid = ? AND deleted_at IS NULL`
	mySelectEnvironmentByName = `SELECT ` + environmentColumns +
		` FROM environments WHERE account_id = ? AND name = ? AND deleted_at IS NULL`
	mySelectEnvironmentByHash = `SELECT ` + environmentColumns +
		` FROM environments WHERE secret_key_hashed = ? AND deleted_at IS NULL LIMIT 1`
	mySelectEnvironmentByPublicKey = `SELECT ` + environmentColumns +
		` FROM environments WHERE public_key = ? AND deleted_at IS NULL LIMIT 1`
	myListEnvironmentsByAccount = `SELECT ` + environmentColumns +
		` FROM environments WHERE account_id = ? AND deleted_at IS NULL ORDER BY id`

	mySetPendingSecretKey = `UPDATE environments
SET pending_secret_key = ?, pending_secret_key_iv = ?, pending_secret_key_tag = ?, updated_at = NOW(6)
WHERE id = ? AND deleted_at IS NULL`

	mySetPendingPublicKey = `UPDATE environments SET pending_public_key = ?, updated_at = NOW(6)
WHERE id = ? AND deleted_at IS NULL`

	// MySQL evaluates SET assignments left to right, so the active columns are
	// copied before the pending ones are cleared.
	myActivateSecretKey = `UPDATE environments
SET secret_key = pending_secret_key,
	secret_key_iv = pending_secret_key_iv,
	secret_key_tag = pending_secret_key_tag,
	secret_key_hashed = ?,
	pending_secret_key = NULL,
	pending_secret_key_iv = NULL,
	pending_secret_key_tag = NULL,
	updated_at = NOW(6)
WHERE id = ? AND pending_secret_key = ? AND deleted_at IS NULL`

	myActivatePublicKey = `UPDATE environments
SET public_key = pending_public_key, pending_public_key = NULL, updated_at = NOW(6)
WHERE id = ? AND pending_public_key IS NOT NULL AND deleted_at IS NULL`

	myClearPendingSecretKey = `UPDATE environments
SET pending_secret_key = NULL, pending_secret_key_iv = NULL, pending_secret_key_tag = NULL, updated_at = NOW(6)
WHERE id = ? AND deleted_at IS NULL`

	myClearPendingPublicKey = `UPDATE environments SET pending_public_key = NULL, updated_at = NOW(6)
WHERE id = ? AND deleted_at IS NULL`
)

// MySQLEnvironmentRepository implements Environment persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLEnvironmentRepository struct {
	db *sql.DB
}

// NewMySQLEnvironmentRepository creates a new MySQL Environment repository.
func NewMySQLEnvironmentRepository(db *sql.DB) *MySQLEnvironmentRepository {
	return &MySQLEnvironmentRepository{db: db}
}

// Create inserts a new Environment and sets its ID from LAST_INSERT_ID().
func (m *MySQLEnvironmentRepository) Create(ctx context.Context, env *envDomain.Environment) error {
	querier := database.GetTx(ctx, m.db)

	id, err := env.UUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal environment uuid")
	}

	result, err := querier.ExecContext(
		ctx,
		myInsertEnvironment,
		id,
		env.AccountID,
		env.Name,
		env.SecretKey,
		env.SecretKeyIV,
		env.SecretKeyTag,
		env.PublicKey,
		env.CreatedAt,
		env.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return envDomain.ErrEnvironmentAlreadyExists
		}
		return database.WrapError(err, "failed to create environment")
	}

	env.ID, err = result.LastInsertId()
	if err != nil {
		return database.WrapError(err, "failed to read environment id")
	}
	return nil
}

// UpdateSecretKeyHash stores the lookup hash of the active secret key.
func (m *MySQLEnvironmentRepository) UpdateSecretKeyHash(ctx context.Context, envID int64, hash string) error {
	return execExpectingRow(ctx, database.GetTx(ctx, m.db), "failed to update secret key hash",
		myUpdateSecretKeyHash, hash, envID)
}

// UpdateMetadata writes the non-credential fields of env.
func (m *MySQLEnvironmentRepository) UpdateMetadata(ctx context.Context, env *envDomain.Environment) error {
	err := execExpectingRow(ctx, database.GetTx(ctx, m.db), "failed to update environment",
		myUpdateEnvironmentMetadata,
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
func (m *MySQLEnvironmentRepository) Delete(ctx context.Context, envID int64) error {
	return execExpectingRow(ctx, database.GetTx(ctx, m.db), "failed to delete environment",
		myDeleteEnvironment, envID)
}

// Get retrieves an Environment by ID.
func (m *MySQLEnvironmentRepository) Get(ctx context.Context, envID int64) (*envDomain.Environment, error) {
	return m.getOne(ctx, mySelectEnvironmentByID, envID)
}

// GetForUpdate retrieves an Environment by ID and locks its row.
func (m *MySQLEnvironmentRepository) GetForUpdate(ctx context.Context, envID int64) (*envDomain.Environment, error) {
	return m.getOne(ctx, mySelectEnvironmentLocked, envID)
}

// GetByUUID retrieves an Environment by UUID.
func (m *MySQLEnvironmentRepository) GetByUUID(
	ctx context.Context,
	envUUID uuid.UUID,
) (*envDomain.Environment, error) {
	id, err := envUUID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal environment uuid")
	}
	return m.getOne(ctx, mySelectEnvironmentByUUID, id)
}

// GetByName retrieves an Environment by account and name.
func (m *MySQLEnvironmentRepository) GetByName(
	ctx context.Context,
	accountID int64,
	name string,
) (*envDomain.Environment, error) {
	return m.getOne(ctx, mySelectEnvironmentByName, accountID, name)
}

// GetBySecretKeyHash retrieves the Environment whose active secret key hashes to hash.
func (m *MySQLEnvironmentRepository) GetBySecretKeyHash(
	ctx context.Context,
	hash string,
) (*envDomain.Environment, error) {
	return m.getOne(ctx, mySelectEnvironmentByHash, hash)
}

// GetByPublicKey retrieves the Environment whose active public key equals publicKey.
func (m *MySQLEnvironmentRepository) GetByPublicKey(
	ctx context.Context,
	publicKey string,
) (*envDomain.Environment, error) {
	return m.getOne(ctx, mySelectEnvironmentByPublicKey, publicKey)
}

// ListByAccount retrieves the environments of an account ordered by ID. Returns an
// empty slice when the account has none.
func (m *MySQLEnvironmentRepository) ListByAccount(
	ctx context.Context,
	accountID int64,
) ([]*envDomain.Environment, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, myListEnvironmentsByAccount, accountID)
	if err != nil {
		return nil, database.WrapError(err, "failed to list environments")
	}
	defer func() {
		_ = rows.Close()
	}()

	envs := make([]*envDomain.Environment, 0)
	for rows.Next() {
		env, err := scanMySQLEnvironment(rows)
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}

	if err := rows.Err(); err != nil {
		return nil, database.WrapError(err, "error iterating environment rows")
	}

	return envs, nil
}

// SetPendingSecretKey stores the encrypted pending secret key, replacing any previous one.
func (m *MySQLEnvironmentRepository) SetPendingSecretKey(
	ctx context.Context,
	envID int64,
	pending cryptoDomain.EncryptedField,
) error {
	return execExpectingRow(ctx, database.GetTx(ctx, m.db), "failed to set pending secret key",
		mySetPendingSecretKey,
		pending.Ciphertext,
		nullableString(pending.IV),
		nullableString(pending.Tag),
		envID,
	)
}

// SetPendingPublicKey stores the pending public key, replacing any previous one.
func (m *MySQLEnvironmentRepository) SetPendingPublicKey(ctx context.Context, envID int64, pending string) error {
	return execExpectingRow(ctx, database.GetTx(ctx, m.db), "failed to set pending public key",
		mySetPendingPublicKey, pending, envID)
}

// ActivateSecretKey promotes the pending secret key in a single statement.
func (m *MySQLEnvironmentRepository) ActivateSecretKey(
	ctx context.Context,
	envID int64,
	pendingCiphertext, hash string,
) (bool, error) {
	return execAffected(ctx, database.GetTx(ctx, m.db), "failed to activate secret key",
		myActivateSecretKey, hash, envID, pendingCiphertext)
}

// ActivatePublicKey promotes the pending public key in a single statement.
func (m *MySQLEnvironmentRepository) ActivatePublicKey(ctx context.Context, envID int64) (bool, error) {
	return execAffected(ctx, database.GetTx(ctx, m.db), "failed to activate public key",
		myActivatePublicKey, envID)
}

// ClearPendingSecretKey discards the pending secret key. Clearing an empty slot is not an error.
func (m *MySQLEnvironmentRepository) ClearPendingSecretKey(ctx context.Context, envID int64) error {
	return exec(ctx, database.GetTx(ctx, m.db), "failed to clear pending secret key",
		myClearPendingSecretKey, envID)
}

// ClearPendingPublicKey discards the pending public key. Clearing an empty slot is not an error.
func (m *MySQLEnvironmentRepository) ClearPendingPublicKey(ctx context.Context, envID int64) error {
	return exec(ctx, database.GetTx(ctx, m.db), "failed to clear pending public key",
		myClearPendingPublicKey, envID)
}

func (m *MySQLEnvironmentRepository) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*envDomain.Environment, error) {
	querier := database.GetTx(ctx, m.db)

	env, err := scanMySQLEnvironment(querier.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, envDomain.ErrEnvironmentNotFound
		}
		return nil, err
	}
	return env, nil
}

func scanMySQLEnvironment(row rowScanner) (*envDomain.Environment, error) {
	var env envDomain.Environment
	var uuidBytes []byte

	if err := row.Scan(environmentScanTargets(&env, &uuidBytes)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, database.WrapError(err, "failed to scan environment")
	}

	if err := env.UUID.UnmarshalBinary(uuidBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal environment uuid")
	}
	return &env, nil
}
