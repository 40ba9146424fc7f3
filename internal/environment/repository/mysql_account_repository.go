package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/envkeys/internal/database"
	apperrors "github.com/allisson/envkeys/internal/errors"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

const (
	myInsertAccount     = `INSERT INTO accounts (uuid, name, created_at) VALUES (?, ?, ?)`
	mySelectAccountByID = `SELECT id, uuid, name, created_at FROM accounts WHERE id = ?`
)

// MySQLAccountRepository implements Account persistence for MySQL.
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQL Account repository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

// Create inserts a new Account and sets its ID.
func (m *MySQLAccountRepository) Create(ctx context.Context, account *envDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.UUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account uuid")
	}

	result, err := querier.ExecContext(ctx, myInsertAccount, id, account.Name, account.CreatedAt)
	if err != nil {
		return database.WrapError(err, "failed to create account")
	}

	account.ID, err = result.LastInsertId()
	if err != nil {
		return database.WrapError(err, "failed to read account id")
	}
	return nil
}

// Get retrieves an Account by ID.
func (m *MySQLAccountRepository) Get(ctx context.Context, accountID int64) (*envDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	var account envDomain.Account
	var uuidBytes []byte
	err := querier.QueryRowContext(ctx, mySelectAccountByID, accountID).Scan(
		&account.ID,
		&uuidBytes,
		&account.Name,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, envDomain.ErrAccountNotFound
		}
		return nil, database.WrapError(err, "failed to get account")
	}

	if err := account.UUID.UnmarshalBinary(uuidBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account uuid")
	}
	return &account, nil
}
