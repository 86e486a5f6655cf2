package relstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Tx is an explicit unit of work. It owns one dedicated connection for its
// whole lifetime, runs with autocommit off at serializable isolation, and
// accumulates the keys of every row it inserted, updated or deleted.
//
// A Tx must be finished with exactly one Commit or Rollback call; there is
// no implicit timeout and no auto-commit. A transaction that is never
// finished leaks its connection; resource cleanup is the caller's
// responsibility once the store hands out an open Tx.
//
// Store operations sharing one Tx share one connection and must be
// serialized by the caller; the store does not lock around statements.
type Tx struct {
	id    uuid.UUID
	store *Store
	conn  *sql.Conn
	tx    *sql.Tx

	mu       sync.Mutex
	done     bool
	inserted []Key
	updated  []Key
	deleted  []Key
}

// Begin opens a transaction on a dedicated pooled connection.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, errors.Join(err, conn.Close())
	}
	t := &Tx{id: uuid.New(), store: s, conn: conn, tx: tx}
	s.logger.Debug("transaction started", slog.String("tx", t.id.String()))
	return t, nil
}

// ID returns the transaction's correlation id.
func (t *Tx) ID() uuid.UUID { return t.id }

// Commit commits the transaction and releases its connection. It returns
// ErrTxDone when the transaction was already finished.
func (t *Tx) Commit() error {
	return t.finish("commit", (*sql.Tx).Commit)
}

// Rollback rolls the transaction back and releases its connection. It
// returns ErrTxDone when the transaction was already finished.
func (t *Tx) Rollback() error {
	return t.finish("rollback", (*sql.Tx).Rollback)
}

// finish runs the closing operation and releases the connection on every
// path, including a failed commit.
func (t *Tx) finish(op string, close func(*sql.Tx) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxDone
	}
	t.done = true
	err := close(t.tx)
	if cerr := t.conn.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	t.store.logger.Debug("transaction finished",
		slog.String("tx", t.id.String()), slog.String("op", op))
	return err
}

// Inserted returns a copy of the keys inserted through this transaction.
func (t *Tx) Inserted() []Key {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Key(nil), t.inserted...)
}

// Updated returns a copy of the keys updated through this transaction.
func (t *Tx) Updated() []Key {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Key(nil), t.updated...)
}

// Deleted returns a copy of the keys deleted through this transaction.
func (t *Tx) Deleted() []Key {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Key(nil), t.deleted...)
}

func (t *Tx) recordInsert(k Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inserted = append(t.inserted, k)
}

func (t *Tx) recordUpdate(k Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updated = append(t.updated, k)
}

func (t *Tx) recordDelete(k Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deleted = append(t.deleted, k)
}

// querier returns the transaction's statement executor, or ErrTxDone when
// the transaction was already finished.
func (t *Tx) querier() (*sql.Tx, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil, ErrTxDone
	}
	return t.tx, nil
}
