package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/envkeys/internal/database"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

const (
	pgInsertVariable = `INSERT INTO environment_variables (environment_id, name, value, value_iv, value_tag, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	pgDeleteVariablesByEnvironment = `DELETE FROM environment_variables WHERE environment_id = $1`
	pgListVariablesByEnvironment   = `SELECT id, environment_id, name, value, value_iv, value_tag, created_at
FROM environment_variables WHERE environment_id = $1 ORDER BY id`
)

// PostgreSQLVariableRepository implements EnvironmentVariable persistence for PostgreSQL.
type PostgreSQLVariableRepository struct {
	db *sql.DB
}

// NewPostgreSQLVariableRepository creates a new PostgreSQL EnvironmentVariable repository.
func NewPostgreSQLVariableRepository(db *sql.DB) *PostgreSQLVariableRepository {
	return &PostgreSQLVariableRepository{db: db}
}

// Create inserts a new EnvironmentVariable and sets its ID.
func (p *PostgreSQLVariableRepository) Create(ctx context.Context, variable *envDomain.EnvironmentVariable) error {
	querier := database.GetTx(ctx, p.db)

	err := querier.QueryRowContext(
		ctx,
		pgInsertVariable,
		variable.EnvironmentID,
		variable.Name,
		variable.Value,
		variable.ValueIV,
		variable.ValueTag,
		variable.CreatedAt,
	).Scan(&variable.ID)
	if err != nil {
		return database.WrapError(err, "failed to create environment variable")
	}
	return nil
}

// DeleteByEnvironment removes every variable of the environment.
func (p *PostgreSQLVariableRepository) DeleteByEnvironment(ctx context.Context, envID int64) error {
	return exec(ctx, database.GetTx(ctx, p.db), "failed to delete environment variables",
		pgDeleteVariablesByEnvironment, envID)
}

// ListByEnvironment retrieves the variables of an environment ordered by ID.
func (p *PostgreSQLVariableRepository) ListByEnvironment(
	ctx context.Context,
	envID int64,
) ([]*envDomain.EnvironmentVariable, error) {
	return listVariables(ctx, database.GetTx(ctx, p.db), pgListVariablesByEnvironment, envID)
}

func listVariables(
	ctx context.Context,
	querier database.Querier,
	query string,
	envID int64,
) ([]*envDomain.EnvironmentVariable, error) {
	rows, err := querier.QueryContext(ctx, query, envID)
	if err != nil {
		return nil, database.WrapError(err, "failed to list environment variables")
	}
	defer func() {
		_ = rows.Close()
	}()

	variables := make([]*envDomain.EnvironmentVariable, 0)
	for rows.Next() {
		var variable envDomain.EnvironmentVariable
		err := rows.Scan(
			&variable.ID,
			&variable.EnvironmentID,
			&variable.Name,
			&variable.Value,
			&variable.ValueIV,
			&variable.ValueTag,
			&variable.CreatedAt,
		)
		if err != nil {
			return nil, database.WrapError(err, "failed to scan environment variable row")
		}
		variables = append(variables, &variable)
	}

	if err := rows.Err(); err != nil {
		return nil, database.WrapError(err, "error iterating environment variable rows")
	}

	return variables, nil
}
