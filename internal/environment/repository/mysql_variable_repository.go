package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/envkeys/internal/database"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

const (
	myInsertVariable = `INSERT INTO environment_variables (environment_id, name, value, value_iv, value_tag, created_at)
VALUES (?, ?, ?, ?, ?, ?)`
	myDeleteVariablesByEnvironment = `DELETE FROM environment_variables WHERE environment_id = ?`
	myListVariablesByEnvironment   = `SELECT id, environment_id, name, value, value_iv, value_tag, created_at
FROM environment_variables WHERE environment_id = ? ORDER BY id`
)

// MySQLVariableRepository implements EnvironmentVariable persistence for MySQL.
type MySQLVariableRepository struct {
	db *sql.DB
}

// NewMySQLVariableRepository creates a new MySQL EnvironmentVariable repository.
func NewMySQLVariableRepository(db *sql.DB) *MySQLVariableRepository {
	return &MySQLVariableRepository{db: db}
}

// Create inserts a new EnvironmentVariable and sets its ID.
func (m *MySQLVariableRepository) Create(ctx context.Context, variable *envDomain.EnvironmentVariable) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		myInsertVariable,
		variable.EnvironmentID,
		variable.Name,
		variable.Value,
		variable.ValueIV,
		variable.ValueTag,
		variable.CreatedAt,
	)
	if err != nil {
		return database.WrapError(err, "failed to create environment variable")
	}

	variable.ID, err = result.LastInsertId()
	if err != nil {
		return database.WrapError(err, "failed to read environment variable id")
	}
	return nil
}

// DeleteByEnvironment removes every variable of the environment.
func (m *MySQLVariableRepository) DeleteByEnvironment(ctx context.Context, envID int64) error {
	return exec(ctx, database.GetTx(ctx, m.db), "failed to delete environment variables",
		myDeleteVariablesByEnvironment, envID)
}

// ListByEnvironment retrieves the variables of an environment ordered by ID.
func (m *MySQLVariableRepository) ListByEnvironment(
	ctx context.Context,
	envID int64,
) ([]*envDomain.EnvironmentVariable, error) {
	return listVariables(ctx, database.GetTx(ctx, m.db), myListVariablesByEnvironment, envID)
}
