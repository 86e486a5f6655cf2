package dialect

import (
	"context"
	"database/sql"
)

// Pool supplies dedicated database connections. Acquire blocks until a
// connection is available; closing the returned connection hands it back to
// the pool. The standard *sql.DB satisfies the contract through [DBPool].
type Pool interface {
	Acquire(ctx context.Context) (*sql.Conn, error)
}

// DBPool adapts a *sql.DB to the Pool interface.
type DBPool struct {
	DB *sql.DB
}

// Acquire returns a dedicated connection from the underlying pool.
func (p DBPool) Acquire(ctx context.Context) (*sql.Conn, error) {
	return p.DB.Conn(ctx)
}

var _ Pool = DBPool{}
