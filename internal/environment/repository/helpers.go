package repository

import (
	"context"

	"github.com/allisson/envkeys/internal/database"
	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

// execAffected runs an UPDATE and reports whether it touched a row.
func execAffected(
	ctx context.Context,
	querier database.Querier,
	message, query string,
	args ...any,
) (bool, error) {
	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return false, database.WrapError(err, message)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, database.WrapError(err, message)
	}
	return affected > 0, nil
}

// execExpectingRow runs an UPDATE against one live environment and returns
// ErrEnvironmentNotFound when none matched.
//
// MySQL reports rows changed rather than rows matched, so only statements that
// always change the row (they all set updated_at with microsecond precision) go
// through here.
func execExpectingRow(
	ctx context.Context,
	querier database.Querier,
	message, query string,
	args ...any,
) error {
	ok, err := execAffected(ctx, querier, message, query, args...)
	if err != nil {
		return err
	}
	if !ok {
		return envDomain.ErrEnvironmentNotFound
	}
	return nil
}

// exec runs a statement whose target row the caller has already locked.
func exec(ctx context.Context, querier database.Querier, message, query string, args ...any) error {
	if _, err := querier.ExecContext(ctx, query, args...); err != nil {
		return database.WrapError(err, message)
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
