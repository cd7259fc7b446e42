// Package repository provides raw CRUD access to the tracker's tables.
// Repositories operate on the stored representation (see models); all
// unit conversion happens in the deck package.
package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need.
// Constructing a repository over a transaction scopes its operations
// to that transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
