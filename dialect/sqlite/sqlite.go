// Package sqlite implements the SQLite dialect, the reference dialect of
// relstore. Importing it registers the dialect under the driver name
// "sqlite" and pulls in the pure-Go modernc.org/sqlite driver.
//
// SQLite has no native sequences, so identifier generation always uses the
// MAX(id)+1 fallback on this dialect.
package sqlite

import (
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/syssam/relstore/dialect"
	"github.com/syssam/relstore/schema"
)

func init() {
	dialect.Register("sqlite", dialect.SQLite, "SELECT sqlite_version()", New)
}

// Dialect is the SQLite implementation of dialect.Dialect.
type Dialect struct {
	types *dialect.TypeTable
}

// New returns the dialect for the reported SQLite version. Versions before
// 3.0 are unsupported.
func New(version string) (dialect.Dialect, error) {
	if major, _ := dialect.ParseVersion(version); major < 3 {
		return nil, &dialect.UnsupportedError{
			Driver:  "sqlite",
			Product: dialect.SQLite,
			Version: version,
			Reason:  "3.0 or newer required",
		}
	}
	return &Dialect{types: types}, nil
}

var types = dialect.NewTypeTable(dialect.SQLite, map[schema.Type]dialect.TypeHandler{
	schema.TypeBool:    dialect.BoolHandler("BOOLEAN"),
	schema.TypeInt:     dialect.IntHandler("INTEGER"),
	schema.TypeBigint:  dialect.IntHandler("BIGINT"),
	schema.TypeFloat:   dialect.FloatHandler("REAL"),
	schema.TypeDecimal: dialect.DecimalHandler("DECIMAL"),
	schema.TypeString:  dialect.StringHandler("VARCHAR", 255),
	schema.TypeText:    dialect.TextHandler("TEXT"),
	schema.TypeBytes:   dialect.BytesHandler("BLOB"),
	schema.TypeTime:    dialect.TextTimeHandler("DATETIME"),
	schema.TypeUUID:    dialect.UUIDHandler("UUID"),
})

// Name implements dialect.Dialect.
func (*Dialect) Name() string { return dialect.SQLite }

// Quote escapes an identifier with double quotes.
func (*Dialect) Quote(ident string) string { return `"` + ident + `"` }

// Placeholder implements dialect.Dialect. SQLite uses positional "?".
func (*Dialect) Placeholder(int) string { return "?" }

// ColumnType implements dialect.Dialect.
func (d *Dialect) ColumnType(t schema.Type) (dialect.TypeHandler, error) {
	return d.types.ColumnType(t)
}

// ColumnTypeByNative implements dialect.Dialect.
func (d *Dialect) ColumnTypeByNative(native string) (dialect.TypeHandler, error) {
	return d.types.ColumnTypeByNative(native)
}

// SupportsSequences implements dialect.Dialect. SQLite has none.
func (*Dialect) SupportsSequences() bool { return false }

// NextSequenceValueSQL implements dialect.Dialect. Never called for SQLite;
// kept to satisfy the interface.
func (*Dialect) NextSequenceValueSQL(name string) string {
	return fmt.Sprintf("-- sqlite has no sequences: %s", name)
}

// EngineSuffix implements dialect.Dialect.
func (*Dialect) EngineSuffix() string { return "" }

// TableExistsSQL implements dialect.Dialect.
func (*Dialect) TableExistsSQL(table string) (string, []any) {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", []any{table}
}

// TablesSQL implements dialect.Dialect.
func (*Dialect) TablesSQL() (string, []any) {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name", nil
}

// ColumnsSQL implements dialect.Dialect.
func (*Dialect) ColumnsSQL(table string) (string, []any) {
	return "SELECT name FROM pragma_table_info(?) ORDER BY cid", []any{table}
}

// PrimaryKeysSQL implements dialect.Dialect.
func (*Dialect) PrimaryKeysSQL(table string) (string, []any) {
	return "SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk", []any{table}
}

var _ dialect.Dialect = (*Dialect)(nil)
