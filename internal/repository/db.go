package repository

import (
    "context"
    "database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so insert helpers can run
// standalone or inside the invitation creation transaction.
type DBTX interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
    Scan(dest ...any) error
}

// lastID converts the driver's insert id.
func lastID(res sql.Result) (uint64, error) {
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// expectOne maps a write that touched no row to ErrNotFound.
func expectOne(res sql.Result) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}
