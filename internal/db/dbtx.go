package db

import (
	"context"
	"database/sql"
)

// DBTX is the part of *sql.DB and *sql.Tx the run repository uses, so the
// same repo code writes standalone or inside a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// TxWrapper decorates the transaction a unit of work hands to its callback.
// Tests use it to inject write failures.
type TxWrapper func(tx DBTX) DBTX
