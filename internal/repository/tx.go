package repository

import (
	"context"
	"database/sql"
	"strings"
)

// dbtx is the subset of database operations shared by *sql.DB and
// *sql.Tx.  Repository methods run against whichever the context
// carries, so a single method body serves both transactional and
// standalone callers.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txKey struct{}

// WithTx runs fn inside a transaction.  The transaction is carried in
// the derived context so every repository call made from fn joins it.
// A nested call reuses the ambient transaction instead of opening a
// second one.  fn returning an error rolls everything back.
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// conn returns the ambient transaction when one is carried by ctx and
// the plain pool handle otherwise.
func conn(ctx context.Context, db *sql.DB) dbtx {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062).  Used to translate unique-index violations into sentinel
// errors.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
