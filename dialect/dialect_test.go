package dialect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relstore/dialect"
	_ "github.com/syssam/relstore/dialect/sqlite"
	"github.com/syssam/relstore/schema"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in    string
		major int
		minor int
	}{
		{"3.45.1", 3, 45},
		{"8.4.3", 8, 4},
		{"16.2 (Debian 16.2-1.pgdg120+2)", 16, 2},
		{"10.11.6-MariaDB-1", 10, 11},
		{"9", 9, 0},
		{"", 0, 0},
		{"garbage", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor := dialect.ParseVersion(tt.in)
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.minor, minor)
		})
	}
}

func TestDetect(t *testing.T) {
	ctx := context.Background()

	t.Run("unregistered_driver", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		_, err = dialect.Detect(ctx, conn, "oracle")
		require.Error(t, err)
		assert.True(t, dialect.IsUnsupported(err))
		assert.Contains(t, err.Error(), `unsupported database driver "oracle"`)
	})

	t.Run("resolves_registered_dialect", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SELECT sqlite_version()").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("3.45.1"))
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		d, err := dialect.Detect(ctx, conn, "sqlite")
		require.NoError(t, err)
		assert.Equal(t, dialect.SQLite, d.Name())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unsupported_version", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SELECT sqlite_version()").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("2.8.17"))
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		_, err = dialect.Detect(ctx, conn, "sqlite")
		require.Error(t, err)
		assert.True(t, dialect.IsUnsupported(err))
	})

	t.Run("version_query_failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery("SELECT sqlite_version()").
			WillReturnError(errors.New("connection reset"))
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		_, err = dialect.Detect(ctx, conn, "sqlite")
		require.Error(t, err)
		assert.False(t, dialect.IsUnsupported(err))
	})
}

func TestTypeTable(t *testing.T) {
	table := dialect.NewTypeTable("testdialect", map[schema.Type]dialect.TypeHandler{
		schema.TypeInt:    dialect.IntHandler("INTEGER"),
		schema.TypeString: dialect.StringHandler("VARCHAR", 255),
		schema.TypeText:   dialect.TextHandler("TEXT"),
	}).WithNative("CLOB", schema.TypeText)

	t.Run("by_logical", func(t *testing.T) {
		h, err := table.ColumnType(schema.TypeInt)
		require.NoError(t, err)
		assert.Equal(t, "INTEGER", h.Native())
	})

	t.Run("unmapped_logical", func(t *testing.T) {
		_, err := table.ColumnType(schema.TypeUUID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unmapped logical type")
	})

	t.Run("by_native_ignores_size_suffix", func(t *testing.T) {
		h, err := table.ColumnTypeByNative("varchar(100)")
		require.NoError(t, err)
		assert.Equal(t, "VARCHAR", h.Native())
	})

	t.Run("alias", func(t *testing.T) {
		h, err := table.ColumnTypeByNative("CLOB")
		require.NoError(t, err)
		assert.Equal(t, "TEXT", h.Native())
	})

	t.Run("unrecognized_native", func(t *testing.T) {
		_, err := table.ColumnTypeByNative("GEOMETRY")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized native column type")
	})
}
