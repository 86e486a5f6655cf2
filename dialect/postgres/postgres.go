// Package postgres implements the PostgreSQL dialect. Importing it registers
// the dialect under the driver name "postgres" and pulls in lib/pq.
//
// PostgreSQL is the only supported product with native sequences, so
// sequence-backed identifier generation is race-free here.
package postgres

import (
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/syssam/relstore/dialect"
	"github.com/syssam/relstore/schema"
)

func init() {
	dialect.Register("postgres", dialect.Postgres, "SHOW server_version", New)
}

// Dialect is the PostgreSQL implementation of dialect.Dialect.
type Dialect struct {
	types *dialect.TypeTable
}

// New returns the dialect for the reported server version. Versions before
// 9.5 are unsupported.
func New(version string) (dialect.Dialect, error) {
	major, minor := dialect.ParseVersion(version)
	if major < 9 || (major == 9 && minor < 5) {
		return nil, &dialect.UnsupportedError{
			Driver:  "postgres",
			Product: dialect.Postgres,
			Version: version,
			Reason:  "PostgreSQL 9.5 or newer required",
		}
	}
	return &Dialect{types: types}, nil
}

var types = dialect.NewTypeTable(dialect.Postgres, map[schema.Type]dialect.TypeHandler{
	schema.TypeBool:    dialect.BoolHandler("BOOLEAN"),
	schema.TypeInt:     dialect.IntHandler("INTEGER"),
	schema.TypeBigint:  dialect.IntHandler("BIGINT"),
	schema.TypeFloat:   dialect.FloatHandler("DOUBLE PRECISION"),
	schema.TypeDecimal: dialect.DecimalHandler("NUMERIC"),
	schema.TypeString:  dialect.StringHandler("VARCHAR", 255),
	schema.TypeText:    dialect.TextHandler("TEXT"),
	schema.TypeBytes:   dialect.BytesHandler("BYTEA"),
	schema.TypeTime:    dialect.TimeHandler("TIMESTAMPTZ"),
	schema.TypeUUID:    dialect.UUIDHandler("UUID"),
}).
	// lib/pq reports internal type names.
	WithNative("BOOL", schema.TypeBool).
	WithNative("INT2", schema.TypeInt).
	WithNative("INT4", schema.TypeInt).
	WithNative("INT8", schema.TypeBigint).
	WithNative("FLOAT4", schema.TypeFloat).
	WithNative("FLOAT8", schema.TypeFloat).
	WithNative("DECIMAL", schema.TypeDecimal).
	WithNative("TIMESTAMP", schema.TypeTime)

// Name implements dialect.Dialect.
func (*Dialect) Name() string { return dialect.Postgres }

// Quote escapes an identifier with double quotes.
func (*Dialect) Quote(ident string) string { return `"` + ident + `"` }

// Placeholder implements dialect.Dialect. PostgreSQL uses numbered
// placeholders: $1, $2, …
func (*Dialect) Placeholder(i int) string { return "$" + fmt.Sprint(i) }

// ColumnType implements dialect.Dialect.
func (d *Dialect) ColumnType(t schema.Type) (dialect.TypeHandler, error) {
	return d.types.ColumnType(t)
}

// ColumnTypeByNative implements dialect.Dialect.
func (d *Dialect) ColumnTypeByNative(native string) (dialect.TypeHandler, error) {
	return d.types.ColumnTypeByNative(native)
}

// SupportsSequences implements dialect.Dialect.
func (*Dialect) SupportsSequences() bool { return true }

// NextSequenceValueSQL implements dialect.Dialect.
func (d *Dialect) NextSequenceValueSQL(name string) string {
	return fmt.Sprintf("SELECT nextval('%s')", strings.ReplaceAll(name, "'", "''"))
}

// EngineSuffix implements dialect.Dialect.
func (*Dialect) EngineSuffix() string { return "" }

// TableExistsSQL implements dialect.Dialect.
func (*Dialect) TableExistsSQL(table string) (string, []any) {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1", []any{table}
}

// TablesSQL implements dialect.Dialect.
func (*Dialect) TablesSQL() (string, []any) {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() ORDER BY table_name", nil
}

// ColumnsSQL implements dialect.Dialect.
func (*Dialect) ColumnsSQL(table string) (string, []any) {
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position", []any{table}
}

// PrimaryKeysSQL implements dialect.Dialect.
func (*Dialect) PrimaryKeysSQL(table string) (string, []any) {
	return `SELECT kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = current_schema() AND tc.table_name = $1
ORDER BY kcu.ordinal_position`, []any{table}
}

var _ dialect.Dialect = (*Dialect)(nil)
