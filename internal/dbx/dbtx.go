// Package dbx holds the database/sql glue shared by the local repositories.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what a repository needs to run statements. *sql.DB, *sql.Conn and
// *sql.Tx all satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner starts transactions. *sql.DB and a pinned *sql.Conn satisfy it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx runs fn inside a transaction on b. The transaction commits when fn
// returns nil and rolls back when it returns an error or panics. Panics are
// re-raised after the rollback.
//
// With the sqlite DSN used by gvote (_txlock=immediate) the write lock is
// taken at BEGIN, so a read-modify-write inside fn cannot interleave with
// another writer.
func WithTx(ctx context.Context, b Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := b.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
