package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork runs fn inside a single transaction. A run and its item rows
// are written through one UnitOfWork so history never holds half a run.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

type SQLiteUnitOfWork struct {
	db   *sql.DB
	wrap TxWrapper
}

type UnitOfWorkOption func(*SQLiteUnitOfWork)

// WithTxWrapper routes every transaction through w before fn sees it.
func WithTxWrapper(w TxWrapper) UnitOfWorkOption {
	return func(u *SQLiteUnitOfWork) { u.wrap = w }
}

func NewSQLiteUnitOfWork(db *sql.DB, opts ...UnitOfWorkOption) *SQLiteUnitOfWork {
	u := &SQLiteUnitOfWork{db: db}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// DB returns the handle used for reads outside a transaction.
func (u *SQLiteUnitOfWork) DB() *sql.DB { return u.db }

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			err = fmt.Errorf("rolling back: %v (after: %w)", rbErr, err)
		}
	}()

	var handle DBTX = tx
	if u.wrap != nil {
		handle = u.wrap(tx)
	}
	if err := fn(ctx, handle); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		committed = true
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
