package relstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/syssam/relstore/dialect"
	"github.com/syssam/relstore/dialect/sqlschema"
	"github.com/syssam/relstore/schema"
)

// Store is the single entry point for schema management and CRUD. It owns
// the registry of entity-type mappings and the cached dialect, generates all
// SQL through the dialect, and borrows connections from the pool: either
// one scoped connection per autocommit operation, or the single connection
// of an open [Tx].
//
// A Store is safe for concurrent use. Operations sharing one Tx are the
// exception: they share one connection and must be serialized by the caller.
type Store struct {
	driverName string
	pool       dialect.Pool
	logger     *slog.Logger
	db         *sql.DB // set by Open, closed by Close

	mu       sync.RWMutex
	dialect  dialect.Dialect
	registry map[string]*registration
}

// registration pairs a compiled mapping with its lazily-compiled SQL
// fragments, fixed once the dialect is known.
type registration struct {
	mapping *schema.Mapping

	deleteSQL string // DELETE FROM t WHERE id = ?
	setClause string // col = ?, col = ?, …
	selectAll string // SELECT * FROM t WHERE id = <literal appended>
	selectID  string // SELECT id FROM t WHERE id = <literal appended>
	maxIDSQL  string // SELECT MAX(id) FROM t
	nextIDSQL string // sequence fetch, "" when the fallback applies
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPool overrides the connection source. Defaults to the *sql.DB the
// store was built with.
func WithPool(p dialect.Pool) Option {
	return func(s *Store) { s.pool = p }
}

// New builds a Store on an existing *sql.DB. The driver name selects the
// dialect; the corresponding dialect package must be imported.
func New(driverName string, db *sql.DB, opts ...Option) *Store {
	s := &Store{
		driverName: driverName,
		pool:       dialect.DBPool{DB: db},
		logger:     slog.Default(),
		registry:   make(map[string]*registration),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens a database and builds a Store on it. The returned store owns
// the database handle; Close releases it.
func Open(driverName, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("relstore: open %s: %w", driverName, err)
	}
	s := New(driverName, db, opts...)
	s.db = db
	return s, nil
}

// Close releases the database handle when the store was built with Open. A
// store built with New does not own its handle and Close is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Dialect resolves the database dialect, performing one metadata round trip
// over a throwaway connection on first call and caching the result for the
// store's lifetime. Concurrent first callers may detect redundantly but
// converge on one cached dialect. An unrecognized product or unsupported
// version fails with a dialect.UnsupportedError.
func (s *Store) Dialect(ctx context.Context) (dialect.Dialect, error) {
	s.mu.RLock()
	d := s.dialect
	s.mu.RUnlock()
	if d != nil {
		return d, nil
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("relstore: acquire connection: %w", err)
	}
	d, err = dialect.Detect(ctx, conn, s.driverName)
	if cerr := conn.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.dialect == nil {
		s.dialect = d
		s.logger.Debug("dialect detected", slog.String("dialect", d.Name()))
	}
	d = s.dialect
	s.mu.Unlock()
	return d, nil
}

// ResetDialect drops the cached dialect so the next call to Dialect detects
// it again.
func (s *Store) ResetDialect() {
	s.mu.Lock()
	s.dialect = nil
	s.mu.Unlock()
}

// Register compiles the mapping spec for an entity type and lazily creates
// its backing table and, when the mapping declares a sequence and the
// dialect supports sequences, the sequence too. Registration is idempotent
// per type name: a second call returns the existing mapping and performs no
// DDL. An existing table is not reconciled against a changed mapping; schema
// drift goes undetected.
func (s *Store) Register(ctx context.Context, entity string, spec schema.Spec) (*schema.Mapping, error) {
	s.mu.RLock()
	reg, ok := s.registry[entity]
	s.mu.RUnlock()
	if ok {
		return reg.mapping, nil
	}
	m, err := schema.Compile(entity, spec)
	if err != nil {
		return nil, err
	}
	d, err := s.Dialect(ctx)
	if err != nil {
		return nil, err
	}
	// Resolve every property type now so misconfiguration fails at
	// registration, never at execution.
	for _, p := range m.Properties() {
		if _, err := d.ColumnType(p.Type); err != nil {
			return nil, fmt.Errorf("relstore: register %s: property %q: %w", entity, p.Name, err)
		}
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("relstore: acquire connection: %w", err)
	}
	exists, err := sqlschema.TableExists(ctx, conn, d, m.Table())
	if err != nil {
		return nil, err
	}
	if !exists {
		conn, err := s.pool.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("relstore: acquire connection: %w", err)
		}
		if err := sqlschema.CreateTable(ctx, conn, d, m); err != nil {
			return nil, err
		}
		s.logger.Debug("table created", slog.String("entity", entity), slog.String("table", m.Table()))
		if m.IDSequence() != "" && d.SupportsSequences() {
			conn, err := s.pool.Acquire(ctx)
			if err != nil {
				return nil, fmt.Errorf("relstore: acquire connection: %w", err)
			}
			if err := sqlschema.CreateSequence(ctx, conn, d, m.IDSequence()); err != nil {
				return nil, err
			}
			s.logger.Debug("sequence created", slog.String("entity", entity), slog.String("sequence", m.IDSequence()))
		}
	}
	reg = newRegistration(m, d)
	s.mu.Lock()
	if racing, ok := s.registry[entity]; ok {
		reg = racing
	} else {
		s.registry[entity] = reg
	}
	s.mu.Unlock()
	return reg.mapping, nil
}

func newRegistration(m *schema.Mapping, d dialect.Dialect) *registration {
	table, id := d.Quote(m.Table()), d.Quote(m.IDColumn())
	props := m.Properties()
	set := make([]string, len(props))
	for i := range props {
		set[i] = fmt.Sprintf("%s = %s", d.Quote(props[i].Column), d.Placeholder(i+1))
	}
	r := &registration{
		mapping:   m,
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE %s = %s", table, id, d.Placeholder(1)),
		setClause: strings.Join(set, ", "),
		selectAll: fmt.Sprintf("SELECT * FROM %s WHERE %s = ", table, id),
		selectID:  fmt.Sprintf("SELECT %s FROM %s WHERE %s = ", id, table, id),
		maxIDSQL:  fmt.Sprintf("SELECT MAX(%s) FROM %s", id, table),
	}
	if m.IDSequence() != "" && d.SupportsSequences() {
		r.nextIDSQL = d.NextSequenceValueSQL(m.IDSequence())
	}
	return r
}

// Mapping returns the registered mapping for an entity type.
func (s *Store) Mapping(entity string) (*schema.Mapping, error) {
	reg, err := s.registration(entity)
	if err != nil {
		return nil, err
	}
	return reg.mapping, nil
}

func (s *Store) registration(entity string) (*registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registry[entity]
	if !ok {
		return nil, &NotRegisteredError{Entity: entity}
	}
	return reg, nil
}

// execQuerier is the subset of statement operations shared by *sql.Conn and
// *sql.Tx. It is what one unit of work runs against.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// runConn is the single acquire-or-reuse point for every CRUD operation:
// with a Tx it runs fn against the transaction's connection, otherwise it
// acquires one dedicated autocommit connection and releases it on every exit
// path before returning.
func (s *Store) runConn(ctx context.Context, tx *Tx, fn func(q execQuerier) error) error {
	if tx != nil {
		q, err := tx.querier()
		if err != nil {
			return err
		}
		return fn(q)
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("relstore: acquire connection: %w", err)
	}
	err = fn(conn)
	if cerr := conn.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

// GenerateID allocates a fresh identifier for an entity type on a scoped
// connection. With a sequence-backed mapping on a sequence-capable dialect
// this is race-free; otherwise it falls back to MAX(id)+1, which is racy
// under concurrent inserts: two writers can read the same MAX before either
// commits. Correct concurrent operation without sequences requires external
// serialization of inserts per table.
func (s *Store) GenerateID(ctx context.Context, entity string) (int64, error) {
	reg, err := s.registration(entity)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.runConn(ctx, nil, func(q execQuerier) error {
		var err error
		id, err = reg.generateID(ctx, q)
		return err
	})
	return id, err
}

func (r *registration) generateID(ctx context.Context, q execQuerier) (int64, error) {
	if r.nextIDSQL != "" {
		var id int64
		if err := q.QueryRowContext(ctx, r.nextIDSQL).Scan(&id); err != nil {
			return 0, fmt.Errorf("relstore: next sequence value for %s: %w", r.mapping.Entity(), err)
		}
		return id, nil
	}
	var max sql.NullInt64
	if err := q.QueryRowContext(ctx, r.maxIDSQL).Scan(&max); err != nil {
		return 0, fmt.Errorf("relstore: max id for %s: %w", r.mapping.Entity(), err)
	}
	if !max.Valid {
		return 1, nil
	}
	return max.Int64 + 1, nil
}

// Insert allocates a fresh id, writes one row and finalizes the entity's key
// exactly once on success. Properties carrying no value whose mapping
// declares a default are omitted from the column list so the database
// applies the default instead of NULL. It returns the number of affected
// rows.
//
// With tx the statement runs on the transaction's connection; otherwise on a
// scoped autocommit connection.
func (s *Store) Insert(ctx context.Context, p Persistable, tx *Tx) (int64, error) {
	key := p.Key()
	reg, err := s.registration(key.Entity())
	if err != nil {
		return 0, err
	}
	if key.IsPersistent() {
		return 0, &ContractError{Op: "insert", Entity: key.Entity(), Reason: "key is already persistent"}
	}
	d, err := s.Dialect(ctx)
	if err != nil {
		return 0, err
	}
	m := reg.mapping
	props := p.Properties()
	var (
		affected int64
		newKey   Key
	)
	err = s.runConn(ctx, tx, func(q execQuerier) error {
		id, err := reg.generateID(ctx, q)
		if err != nil {
			return err
		}
		cols := []string{d.Quote(m.IDColumn())}
		args := []any{id}
		for _, prop := range m.Properties() {
			v, present := props[prop.Name]
			if (!present || v == nil) && prop.HasDefault {
				// Let the database apply its declared default.
				continue
			}
			bound, err := bindValue(d, prop, v)
			if err != nil {
				return err
			}
			cols = append(cols, d.Quote(prop.Column))
			args = append(args, bound)
		}
		ph := make([]string, len(args))
		for i := range args {
			ph[i] = d.Placeholder(i + 1)
		}
		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			d.Quote(m.Table()), strings.Join(cols, ", "), strings.Join(ph, ", "))
		res, err := q.ExecContext(ctx, stmt, args...)
		if err != nil {
			return fmt.Errorf("relstore: insert %s: %w", key.Entity(), err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("relstore: insert %s: rows affected: %w", key.Entity(), err)
		}
		newKey = key.WithID(id)
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.SetKey(newKey)
	if tx != nil {
		tx.recordInsert(newKey)
	}
	s.logger.Debug("inserted", slog.String("key", newKey.String()))
	return affected, nil
}

// Update rewrites every mapped property of one row. The entity's key must be
// persistent; updating a transient entity is a caller contract violation. It
// returns the number of affected rows.
func (s *Store) Update(ctx context.Context, p Persistable, tx *Tx) (int64, error) {
	key := p.Key()
	reg, err := s.registration(key.Entity())
	if err != nil {
		return 0, err
	}
	id, ok := key.ID()
	if !ok {
		return 0, &ContractError{Op: "update", Entity: key.Entity(), Reason: "key is transient; insert the entity first"}
	}
	d, err := s.Dialect(ctx)
	if err != nil {
		return 0, err
	}
	m := reg.mapping
	props := p.Properties()
	args := make([]any, 0, len(m.Properties()))
	for _, prop := range m.Properties() {
		bound, err := bindValue(d, prop, props[prop.Name])
		if err != nil {
			return 0, err
		}
		args = append(args, bound)
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		d.Quote(m.Table()), reg.setClause, d.Quote(m.IDColumn()), strconv.FormatInt(id, 10))
	var affected int64
	err = s.runConn(ctx, tx, func(q execQuerier) error {
		res, err := q.ExecContext(ctx, stmt, args...)
		if err != nil {
			return fmt.Errorf("relstore: update %s: %w", key, err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("relstore: update %s: rows affected: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if tx != nil {
		tx.recordUpdate(key)
	}
	s.logger.Debug("updated", slog.String("key", key.String()))
	return affected, nil
}

// Remove deletes the row identified by key. The key must be persistent. It
// returns the number of affected rows.
func (s *Store) Remove(ctx context.Context, key Key, tx *Tx) (int64, error) {
	reg, err := s.registration(key.Entity())
	if err != nil {
		return 0, err
	}
	id, ok := key.ID()
	if !ok {
		return 0, &ContractError{Op: "remove", Entity: key.Entity(), Reason: "key is transient"}
	}
	var affected int64
	err = s.runConn(ctx, tx, func(q execQuerier) error {
		res, err := q.ExecContext(ctx, reg.deleteSQL, id)
		if err != nil {
			return fmt.Errorf("relstore: remove %s: %w", key, err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("relstore: remove %s: rows affected: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if tx != nil {
		tx.recordDelete(key)
	}
	s.logger.Debug("removed", slog.String("key", key.String()))
	return affected, nil
}

// Save is the public upsert entry point. Property values that are themselves
// persistable are saved first (recursively) and substituted by their keys;
// then the entity dispatches to Update when its key is persistent and to
// Insert otherwise.
func (s *Store) Save(ctx context.Context, p Persistable, tx *Tx) error {
	if _, err := s.registration(p.Key().Entity()); err != nil {
		return err
	}
	props := p.Properties()
	for name, v := range props {
		nested, ok := v.(Persistable)
		if !ok {
			continue
		}
		if !nested.Key().IsPersistent() {
			if err := s.Save(ctx, nested, tx); err != nil {
				return err
			}
		}
		props[name] = nested.Key()
	}
	if p.Key().IsPersistent() {
		_, err := s.Update(ctx, p, tx)
		return err
	}
	_, err := s.Insert(ctx, p, tx)
	return err
}

// Load materializes the entity with the given id. It returns (nil, nil)
// when no row matches (absence is not an error) and an IntegrityError
// when more than one row matches, since identifier uniqueness is assumed,
// not merely hoped.
func (s *Store) Load(ctx context.Context, entity string, id int64) (*Entity, error) {
	reg, err := s.registration(entity)
	if err != nil {
		return nil, err
	}
	d, err := s.Dialect(ctx)
	if err != nil {
		return nil, err
	}
	var result *Entity
	err = s.runConn(ctx, nil, func(q execQuerier) (rerr error) {
		rows, err := q.QueryContext(ctx, reg.selectAll+strconv.FormatInt(id, 10))
		if err != nil {
			return fmt.Errorf("relstore: load %s(%d): %w", entity, id, err)
		}
		defer func() {
			if err := rows.Close(); err != nil {
				rerr = errors.Join(rerr, err)
			}
		}()
		cols, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("relstore: load %s(%d): %w", entity, id, err)
		}
		dests, byCol, err := scanPlan(d, reg.mapping, cols)
		if err != nil {
			return err
		}
		var (
			count int
			props map[string]any
		)
		for rows.Next() {
			count++
			if count > 1 {
				continue // keep counting for the integrity error
			}
			if err := rows.Scan(dests...); err != nil {
				return fmt.Errorf("relstore: load %s(%d): %w", entity, id, err)
			}
			props = make(map[string]any, len(byCol))
			for i, prop := range byCol {
				if prop == nil {
					continue // id column; the key carries it
				}
				h, err := d.ColumnType(prop.Type)
				if err != nil {
					return err
				}
				v, err := h.Value(dests[i])
				if err != nil {
					return fmt.Errorf("relstore: load %s(%d): column %s: %w", entity, id, prop.Column, err)
				}
				props[prop.Name] = v
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("relstore: load %s(%d): %w", entity, id, err)
		}
		switch {
		case count == 0:
			result = nil
		case count > 1:
			return &IntegrityError{Entity: entity, ID: id, Count: count}
		default:
			result = newLoadedEntity(PersistentKey(entity, id), props)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// scanPlan builds scan destinations for the given result columns. Every
// column must be the id column or a mapped property column; anything else is
// schema drift and fails fast. The second return value carries the property
// per destination, nil for the id column.
func scanPlan(d dialect.Dialect, m *schema.Mapping, cols []string) ([]any, []*schema.Property, error) {
	dests := make([]any, len(cols))
	props := make([]*schema.Property, len(cols))
	for i, col := range cols {
		if col == m.IDColumn() {
			dests[i] = new(sql.NullInt64)
			continue
		}
		prop, ok := m.PropertyByColumn(col)
		if !ok {
			return nil, nil, fmt.Errorf("relstore: %s: result column %q is not mapped", m.Entity(), col)
		}
		h, err := d.ColumnType(prop.Type)
		if err != nil {
			return nil, nil, err
		}
		dests[i] = h.ScanDest()
		p := prop
		props[i] = &p
	}
	return dests, props, nil
}

// Exists reports whether a row with the given id exists, probing only the
// id column so no full row is materialized.
func (s *Store) Exists(ctx context.Context, entity string, id int64) (bool, error) {
	reg, err := s.registration(entity)
	if err != nil {
		return false, err
	}
	var exists bool
	err = s.runConn(ctx, nil, func(q execQuerier) (rerr error) {
		rows, err := q.QueryContext(ctx, reg.selectID+strconv.FormatInt(id, 10))
		if err != nil {
			return fmt.Errorf("relstore: exists %s(%d): %w", entity, id, err)
		}
		defer func() {
			if err := rows.Close(); err != nil {
				rerr = errors.Join(rerr, err)
			}
		}()
		exists = rows.Next()
		return rows.Err()
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Ref returns a lazy placeholder for an existing row without loading its
// properties: existence is confirmed with an id-only probe, and the full
// load is deferred until a property is first accessed. A missing row yields
// a *NotFoundError.
func (s *Store) Ref(ctx context.Context, entity string, id int64) (*Entity, error) {
	exists, err := s.Exists(ctx, entity, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{entity: entity, id: id}
	}
	return s.lazyRef(entity, id), nil
}

// lazyRef builds the deferred-materialization placeholder shared by Ref and
// PropertiesOf.
func (s *Store) lazyRef(entity string, id int64) *Entity {
	return newLazyEntity(PersistentKey(entity, id), func(ctx context.Context) (map[string]any, error) {
		e, err := s.Load(ctx, entity, id)
		if err != nil {
			return nil, err
		}
		if e == nil {
			// The row vanished after the placeholder was created.
			return nil, &NotFoundError{entity: entity, id: id}
		}
		return e.Properties(), nil
	})
}

// PropertiesOf returns the entity's mapped properties with raw Key values
// resolved into lazy entity references, which is how foreign-key columns
// surface as object-like references.
func (s *Store) PropertiesOf(p Persistable) (map[string]any, error) {
	reg, err := s.registration(p.Key().Entity())
	if err != nil {
		return nil, err
	}
	props := p.Properties()
	out := make(map[string]any, len(reg.mapping.Properties()))
	for _, prop := range reg.mapping.Properties() {
		v := props[prop.Name]
		if k, ok := v.(Key); ok {
			if id, persistent := k.ID(); persistent {
				v = s.lazyRef(k.Entity(), id)
			}
		}
		out[prop.Name] = v
	}
	return out, nil
}

// Query is the read-only escape hatch: it executes arbitrary SQL inside a
// read-only transaction on a scoped connection and converts every result
// column through the dialect's native type lookup, failing fast on an
// unrecognized column type.
func (s *Store) Query(ctx context.Context, query string) ([]map[string]any, error) {
	d, err := s.Dialect(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("relstore: acquire connection: %w", err)
	}
	out, err := queryReadOnly(ctx, conn, d, query)
	if cerr := conn.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return out, err
}

func queryReadOnly(ctx context.Context, conn *sql.Conn, d dialect.Dialect, query string) (_ []map[string]any, rerr error) {
	tx, err := conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("relstore: query: begin read-only: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			rerr = errors.Join(rerr, err)
		}
	}()
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("relstore: query: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			rerr = errors.Join(rerr, err)
		}
	}()
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("relstore: query: %w", err)
	}
	handlers := make([]dialect.TypeHandler, len(types))
	for i, ct := range types {
		h, err := d.ColumnTypeByNative(ct.DatabaseTypeName())
		if err != nil {
			return nil, fmt.Errorf("relstore: query: column %q: %w", ct.Name(), err)
		}
		handlers[i] = h
	}
	var out []map[string]any
	for rows.Next() {
		dests := make([]any, len(handlers))
		for i, h := range handlers {
			dests[i] = h.ScanDest()
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("relstore: query: %w", err)
		}
		row := make(map[string]any, len(handlers))
		for i, h := range handlers {
			v, err := h.Value(dests[i])
			if err != nil {
				return nil, fmt.Errorf("relstore: query: column %q: %w", types[i].Name(), err)
			}
			row[types[i].Name()] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("relstore: query: %w", err)
	}
	return out, nil
}

// bindValue coerces one property value into a driver argument. Key values
// bind as their numeric id; a transient reference key means the referenced
// entity was never saved, which is a contract violation.
func bindValue(d dialect.Dialect, prop schema.Property, v any) (any, error) {
	if k, ok := v.(Key); ok {
		id, persistent := k.ID()
		if !persistent {
			return nil, &ContractError{
				Op:     "bind",
				Entity: k.Entity(),
				Reason: fmt.Sprintf("property %q references a transient key; save the referenced entity first", prop.Name),
			}
		}
		v = id
	}
	h, err := d.ColumnType(prop.Type)
	if err != nil {
		return nil, err
	}
	bound, err := h.Bind(v)
	if err != nil {
		return nil, fmt.Errorf("relstore: property %q: %w", prop.Name, err)
	}
	return bound, nil
}
