package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const connKey contextKey = "db_conn"

// Queryable is the subset of pgx operations the repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so a repository transparently joins a
// transaction placed in the context.
type Queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// WithConn returns a context carrying the given connection or transaction.
func WithConn(ctx context.Context, q Queryable) context.Context {
	return context.WithValue(ctx, connKey, q)
}

// ConnFromContext retrieves a request- or transaction-scoped connection from
// the context, or nil when none was set.
func ConnFromContext(ctx context.Context) Queryable {
	q, _ := ctx.Value(connKey).(Queryable)
	return q
}

// WithTx runs fn inside a transaction. The transaction is placed in the
// context handed to fn, so repository calls made through it share the same
// transaction. Commit happens only when fn returns nil.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithConn(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
