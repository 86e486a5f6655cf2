// Package sqlschema provides stateless, dialect-driven DDL and introspection
// utilities: table and sequence creation, existence checks, column and
// primary key listing, and drops.
//
// Every function takes ownership of the connection it is handed and closes
// it on every exit path: success, early return or error. Callers acquire a
// fresh connection per call.
package sqlschema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/relstore/dialect"
	"github.com/syssam/relstore/schema"
)

// CreateTable creates the backing table of a mapping with a single CREATE
// TABLE statement: one clause per column (name, type, optional DEFAULT,
// optional NOT NULL), a PRIMARY KEY clause listing the identifier column
// plus every unique column, and the dialect's storage-engine suffix when it
// has one.
func CreateTable(ctx context.Context, conn *sql.Conn, d dialect.Dialect, m *schema.Mapping) (rerr error) {
	defer closeConn(conn, &rerr)
	stmt, err := createTableSQL(d, m)
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlschema: create table %s: %w", m.Table(), err)
	}
	return nil
}

// createTableSQL renders the CREATE TABLE statement for a mapping.
func createTableSQL(d dialect.Dialect, m *schema.Mapping) (string, error) {
	idType, err := d.ColumnType(schema.TypeBigint)
	if err != nil {
		return "", fmt.Errorf("sqlschema: table %s: id column: %w", m.Table(), err)
	}
	clauses := make([]string, 0, len(m.Properties())+2)
	clauses = append(clauses, fmt.Sprintf("%s %s NOT NULL", d.Quote(m.IDColumn()), idType.Native()))
	for _, p := range m.Properties() {
		h, err := d.ColumnType(p.Type)
		if err != nil {
			return "", fmt.Errorf("sqlschema: table %s: column %s: %w", m.Table(), p.Column, err)
		}
		var b strings.Builder
		b.WriteString(d.Quote(p.Column))
		b.WriteByte(' ')
		b.WriteString(h.DDL(p))
		if p.HasDefault {
			b.WriteString(" DEFAULT ")
			b.WriteString(h.Literal(p.Default))
		}
		if !p.Nullable {
			b.WriteString(" NOT NULL")
		}
		clauses = append(clauses, b.String())
	}
	pk := make([]string, 0, 1)
	for _, col := range m.PrimaryKey() {
		pk = append(pk, d.Quote(col))
	}
	clauses = append(clauses, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", d.Quote(m.Table()), strings.Join(clauses, ", "))
	if suffix := d.EngineSuffix(); suffix != "" {
		stmt += " " + suffix
	}
	return stmt, nil
}

// CreateSequence creates a sequence starting at 1 with increment 1.
func CreateSequence(ctx context.Context, conn *sql.Conn, d dialect.Dialect, name string) (rerr error) {
	defer closeConn(conn, &rerr)
	stmt := fmt.Sprintf("CREATE SEQUENCE %s START WITH 1 INCREMENT BY 1", d.Quote(name))
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlschema: create sequence %s: %w", name, err)
	}
	return nil
}

// TableExists reports whether a table with the given name exists.
func TableExists(ctx context.Context, conn *sql.Conn, d dialect.Dialect, table string) (exists bool, rerr error) {
	defer closeConn(conn, &rerr)
	query, args := d.TableExistsSQL(table)
	names, err := scanStrings(ctx, conn, query, args)
	if err != nil {
		return false, fmt.Errorf("sqlschema: table exists %s: %w", table, err)
	}
	return len(names) > 0, nil
}

// Tables returns the names of all tables visible to the connection.
func Tables(ctx context.Context, conn *sql.Conn, d dialect.Dialect) (tables []string, rerr error) {
	defer closeConn(conn, &rerr)
	query, args := d.TablesSQL()
	names, err := scanStrings(ctx, conn, query, args)
	if err != nil {
		return nil, fmt.Errorf("sqlschema: list tables: %w", err)
	}
	return names, nil
}

// Columns returns the column names of a table in ordinal order.
func Columns(ctx context.Context, conn *sql.Conn, d dialect.Dialect, table string) (cols []string, rerr error) {
	defer closeConn(conn, &rerr)
	query, args := d.ColumnsSQL(table)
	names, err := scanStrings(ctx, conn, query, args)
	if err != nil {
		return nil, fmt.Errorf("sqlschema: list columns of %s: %w", table, err)
	}
	return names, nil
}

// PrimaryKeys returns the primary key column names of a table.
func PrimaryKeys(ctx context.Context, conn *sql.Conn, d dialect.Dialect, table string) (cols []string, rerr error) {
	defer closeConn(conn, &rerr)
	query, args := d.PrimaryKeysSQL(table)
	names, err := scanStrings(ctx, conn, query, args)
	if err != nil {
		return nil, fmt.Errorf("sqlschema: list primary keys of %s: %w", table, err)
	}
	return names, nil
}

// DropTable drops a table.
func DropTable(ctx context.Context, conn *sql.Conn, d dialect.Dialect, table string) (rerr error) {
	defer closeConn(conn, &rerr)
	if _, err := conn.ExecContext(ctx, "DROP TABLE "+d.Quote(table)); err != nil {
		return fmt.Errorf("sqlschema: drop table %s: %w", table, err)
	}
	return nil
}

// DropSequence drops a sequence.
func DropSequence(ctx context.Context, conn *sql.Conn, d dialect.Dialect, name string) (rerr error) {
	defer closeConn(conn, &rerr)
	if _, err := conn.ExecContext(ctx, "DROP SEQUENCE "+d.Quote(name)); err != nil {
		return fmt.Errorf("sqlschema: drop sequence %s: %w", name, err)
	}
	return nil
}

// closeConn folds the connection close error into the function result. Used
// as a deferred call so the connection is released on every exit path.
func closeConn(conn *sql.Conn, rerr *error) {
	if err := conn.Close(); err != nil {
		*rerr = errors.Join(*rerr, err)
	}
}

// scanStrings runs a query whose result is a single string column and
// returns the values. The rows cursor is closed before returning.
func scanStrings(ctx context.Context, conn *sql.Conn, query string, args []any) (_ []string, rerr error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			rerr = errors.Join(rerr, err)
		}
	}()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
