package database

import (
	"context"
	"database/sql"
	"errors"
)

// Querier is what repositories run statements on: the pool, or the transaction
// carried by the context.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager runs a function inside one transaction.
type TxManager interface {
	// WithTx commits when fn returns nil and rolls back otherwise. Calls nested
	// inside fn join the outer transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ctxTx struct{}

type txManager struct {
	db *sql.DB
}

// NewTxManager returns a TxManager over db.
func NewTxManager(db *sql.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return WrapError(err, "begin transaction")
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// Also runs while a panic in fn unwinds.
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, WrapError(rbErr, "rollback transaction"))
		}
	}()

	if err = fn(context.WithValue(ctx, ctxTx{}, tx)); err != nil {
		return err
	}

	committed = true
	if err = tx.Commit(); err != nil {
		return WrapError(err, "commit transaction")
	}
	return nil
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(ctxTx{}).(*sql.Tx)
	return ok
}

// GetTx returns the transaction carried by ctx, or db when there is none.
func GetTx(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(ctxTx{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
