package sql

import (
	"context"
	"database/sql"
)

// dbExecutor is the subset of *sql.DB the product repository runs its statements on.
type dbExecutor interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
}
