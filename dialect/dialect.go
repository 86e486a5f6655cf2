package dialect

import (
	"errors"
	"fmt"

	"github.com/syssam/relstore/schema"
)

// Dialect names for all supported database products.
const (
	SQLite   = "sqlite"
	MySQL    = "mysql"
	Postgres = "postgres"
)

// Dialect abstracts the SQL surface of one database product. Implementations
// are stateless and safe for concurrent use.
type Dialect interface {
	// Name returns the dialect name, one of the package constants.
	Name() string

	// Quote escapes an identifier (table, column or sequence name).
	Quote(ident string) string

	// Placeholder returns the bind-parameter placeholder for the 1-based
	// position i ("?" for SQLite and MySQL, "$1", "$2", … for Postgres).
	Placeholder(i int) string

	// ColumnType returns the handler translating the logical type into this
	// product's native type system. Unmapped types are an error, surfaced at
	// registration or SQL-generation time.
	ColumnType(t schema.Type) (TypeHandler, error)

	// ColumnTypeByNative returns the handler for a native type name as
	// reported by the driver (sql.ColumnType.DatabaseTypeName). Used to
	// route raw query results back through the type table.
	ColumnTypeByNative(native string) (TypeHandler, error)

	// SupportsSequences reports whether the product has native sequences.
	// Without them, identifier generation falls back to MAX(id)+1.
	SupportsSequences() bool

	// NextSequenceValueSQL returns the statement fetching the next value of
	// the named sequence. Only meaningful when SupportsSequences is true.
	NextSequenceValueSQL(name string) string

	// EngineSuffix returns the storage-engine clause appended to CREATE
	// TABLE, or "" for products that need none.
	EngineSuffix() string

	// TableExistsSQL returns a query yielding one row per existing table
	// with the given name.
	TableExistsSQL(table string) (string, []any)

	// TablesSQL returns a query yielding all table names, one per row.
	TablesSQL() (string, []any)

	// ColumnsSQL returns a query yielding the column names of a table in
	// ordinal order, one per row.
	ColumnsSQL(table string) (string, []any)

	// PrimaryKeysSQL returns a query yielding the primary key column names
	// of a table, one per row.
	PrimaryKeysSQL(table string) (string, []any)
}

// TypeHandler translates one logical column type across the SQL boundary in
// both directions.
type TypeHandler interface {
	// Native returns the native type name the driver reports for columns of
	// this type.
	Native() string

	// DDL renders the type clause of a column definition, parameterized by
	// the property's size, precision and scale.
	DDL(p schema.Property) string

	// Literal renders a default value as a SQL literal, quoting it when the
	// type requires quoting.
	Literal(v any) string

	// Bind coerces a property value into a driver-friendly argument for a
	// parameterized statement. nil passes through as SQL NULL.
	Bind(v any) (any, error)

	// ScanDest returns a fresh scan destination for reading one column.
	ScanDest() any

	// Value extracts the Go value from a destination produced by ScanDest.
	// A NULL column yields nil.
	Value(dest any) (any, error)
}

// UnsupportedError reports an unrecognized database product or an
// unsupported version of a recognized one.
type UnsupportedError struct {
	Driver  string // driver name handed to Detect
	Product string // product name, "" when the driver itself is unknown
	Version string // reported version, "" when the driver itself is unknown
	Reason  string
}

// Error returns the error string.
func (e *UnsupportedError) Error() string {
	if e.Product == "" {
		return fmt.Sprintf("dialect: unsupported database driver %q", e.Driver)
	}
	return fmt.Sprintf("dialect: unsupported database %s %s: %s", e.Product, e.Version, e.Reason)
}

// IsUnsupported reports whether err is an UnsupportedError.
func IsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedError
	return errors.As(err, &e)
}
