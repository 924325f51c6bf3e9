package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB, *sql.Conn, and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// New returns a Queries bound to dbtx.
func New(dbtx DBTX) *Queries {
	return &Queries{db: dbtx}
}

// Queries holds the parameterized statements run against the database.
type Queries struct {
	db DBTX
}

// WithTx returns a copy of q that runs its statements in tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
