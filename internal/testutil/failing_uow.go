package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/cadence/internal/db"
)

// NewFailingUoW returns a unit of work whose Nth write (counted from 1 per
// transaction) fails with err. Reads are never counted, so a test can
// break a run save between the run row and its item rows.
func NewFailingUoW(database *sql.DB, failOn int, err error) *db.SQLiteUnitOfWork {
	return db.NewSQLiteUnitOfWork(database, db.WithTxWrapper(func(tx db.DBTX) db.DBTX {
		return &failingWrites{DBTX: tx, failOn: failOn, err: err}
	}))
}

type failingWrites struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
