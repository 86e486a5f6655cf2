// Package mysql implements the MySQL dialect. Importing it registers the
// dialect under the driver name "mysql" and pulls in go-sql-driver/mysql.
//
// The DSN must carry parseTime=true so DATETIME columns scan as time.Time.
// MySQL has no native sequences; identifier generation always uses the
// MAX(id)+1 fallback on this dialect.
package mysql

import (
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/syssam/relstore/dialect"
	"github.com/syssam/relstore/schema"
)

func init() {
	dialect.Register("mysql", dialect.MySQL, "SELECT VERSION()", New)
}

// Dialect is the MySQL implementation of dialect.Dialect.
type Dialect struct {
	types *dialect.TypeTable
}

// New returns the dialect for the reported server version. MySQL before 5.7
// and MariaDB before 10.2 are unsupported.
func New(version string) (dialect.Dialect, error) {
	major, minor := dialect.ParseVersion(version)
	unsupported := func(reason string) error {
		return &dialect.UnsupportedError{
			Driver:  "mysql",
			Product: dialect.MySQL,
			Version: version,
			Reason:  reason,
		}
	}
	if strings.Contains(version, "MariaDB") {
		if major < 10 || (major == 10 && minor < 2) {
			return nil, unsupported("MariaDB 10.2 or newer required")
		}
	} else if major < 5 || (major == 5 && minor < 7) {
		return nil, unsupported("MySQL 5.7 or newer required")
	}
	return &Dialect{types: types}, nil
}

// UUIDs occupy a fixed-width CHAR(36) column.
var uuidHandler = func() dialect.Handler {
	h := dialect.UUIDHandler("CHAR")
	h.Render = func(schema.Property) string { return "CHAR(36)" }
	return h
}()

// Booleans follow the TINYINT(1) convention.
var boolHandler = func() dialect.Handler {
	h := dialect.BoolHandler("TINYINT")
	h.Render = func(schema.Property) string { return "TINYINT(1)" }
	return h
}()

var types = dialect.NewTypeTable(dialect.MySQL, map[schema.Type]dialect.TypeHandler{
	schema.TypeBool:    boolHandler,
	schema.TypeInt:     dialect.IntHandler("INT"),
	schema.TypeBigint:  dialect.IntHandler("BIGINT"),
	schema.TypeFloat:   dialect.FloatHandler("DOUBLE"),
	schema.TypeDecimal: dialect.DecimalHandler("DECIMAL"),
	schema.TypeString:  dialect.StringHandler("VARCHAR", 255),
	schema.TypeText:    dialect.TextHandler("TEXT"),
	schema.TypeBytes:   dialect.BytesHandler("BLOB"),
	schema.TypeTime:    dialect.TimeHandler("DATETIME"),
	schema.TypeUUID:    uuidHandler,
}).
	WithNative("MEDIUMINT", schema.TypeInt).
	WithNative("SMALLINT", schema.TypeInt).
	WithNative("FLOAT", schema.TypeFloat).
	WithNative("TIMESTAMP", schema.TypeTime).
	WithNative("MEDIUMTEXT", schema.TypeText).
	WithNative("LONGTEXT", schema.TypeText).
	WithNative("MEDIUMBLOB", schema.TypeBytes).
	WithNative("LONGBLOB", schema.TypeBytes)

// Name implements dialect.Dialect.
func (*Dialect) Name() string { return dialect.MySQL }

// Quote escapes an identifier with backticks.
func (*Dialect) Quote(ident string) string { return "`" + ident + "`" }

// Placeholder implements dialect.Dialect. MySQL uses positional "?".
func (*Dialect) Placeholder(int) string { return "?" }

// ColumnType implements dialect.Dialect.
func (d *Dialect) ColumnType(t schema.Type) (dialect.TypeHandler, error) {
	return d.types.ColumnType(t)
}

// ColumnTypeByNative implements dialect.Dialect.
func (d *Dialect) ColumnTypeByNative(native string) (dialect.TypeHandler, error) {
	return d.types.ColumnTypeByNative(native)
}

// SupportsSequences implements dialect.Dialect. MySQL has none.
func (*Dialect) SupportsSequences() bool { return false }

// NextSequenceValueSQL implements dialect.Dialect. Never called for MySQL;
// kept to satisfy the interface.
func (*Dialect) NextSequenceValueSQL(name string) string {
	return "-- mysql has no sequences: " + name
}

// EngineSuffix implements dialect.Dialect.
func (*Dialect) EngineSuffix() string { return "ENGINE=InnoDB" }

// TableExistsSQL implements dialect.Dialect.
func (*Dialect) TableExistsSQL(table string) (string, []any) {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", []any{table}
}

// TablesSQL implements dialect.Dialect.
func (*Dialect) TablesSQL() (string, []any) {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name", nil
}

// ColumnsSQL implements dialect.Dialect.
func (*Dialect) ColumnsSQL(table string) (string, []any) {
	return "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position", []any{table}
}

// PrimaryKeysSQL implements dialect.Dialect.
func (*Dialect) PrimaryKeysSQL(table string) (string, []any) {
	return "SELECT column_name FROM information_schema.key_column_usage WHERE table_schema = DATABASE() AND table_name = ? AND constraint_name = 'PRIMARY' ORDER BY ordinal_position", []any{table}
}

var _ dialect.Dialect = (*Dialect)(nil)
