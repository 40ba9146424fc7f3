package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/envkeys/internal/database"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

const (
	pgInsertAccount     = `INSERT INTO accounts (uuid, name, created_at) VALUES ($1, $2, $3) RETURNING id`
	pgSelectAccountByID = `SELECT id, uuid, name, created_at FROM accounts WHERE id = $1`
)

// PostgreSQLAccountRepository implements Account persistence for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL Account repository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

// Create inserts a new Account and sets its ID.
func (p *PostgreSQLAccountRepository) Create(ctx context.Context, account *envDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	err := querier.QueryRowContext(ctx, pgInsertAccount, account.UUID, account.Name, account.CreatedAt).
		Scan(&account.ID)
	if err != nil {
		return database.WrapError(err, "failed to create account")
	}
	return nil
}

// Get retrieves an Account by ID.
func (p *PostgreSQLAccountRepository) Get(ctx context.Context, accountID int64) (*envDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	var account envDomain.Account
	err := querier.QueryRowContext(ctx, pgSelectAccountByID, accountID).Scan(
		&account.ID,
		&account.UUID,
		&account.Name,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, envDomain.ErrAccountNotFound
		}
		return nil, database.WrapError(err, "failed to get account")
	}
	return &account, nil
}
