package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relstore/dialect"
	"github.com/syssam/relstore/dialect/sqlite"
	"github.com/syssam/relstore/schema"
)

func TestNew(t *testing.T) {
	t.Run("accepts_modern_version", func(t *testing.T) {
		d, err := sqlite.New("3.45.1")
		require.NoError(t, err)
		assert.Equal(t, dialect.SQLite, d.Name())
	})

	t.Run("rejects_sqlite2", func(t *testing.T) {
		_, err := sqlite.New("2.8.17")
		require.Error(t, err)
		assert.True(t, dialect.IsUnsupported(err))
	})
}

func TestDialect(t *testing.T) {
	d, err := sqlite.New("3.45.1")
	require.NoError(t, err)

	t.Run("quote", func(t *testing.T) {
		assert.Equal(t, `"person"`, d.Quote("person"))
	})

	t.Run("placeholder_is_positional", func(t *testing.T) {
		assert.Equal(t, "?", d.Placeholder(1))
		assert.Equal(t, "?", d.Placeholder(9))
	})

	t.Run("no_sequences", func(t *testing.T) {
		assert.False(t, d.SupportsSequences())
	})

	t.Run("no_engine_suffix", func(t *testing.T) {
		assert.Empty(t, d.EngineSuffix())
	})

	t.Run("type_table", func(t *testing.T) {
		h, err := d.ColumnType(schema.TypeString)
		require.NoError(t, err)
		assert.Equal(t, "VARCHAR(255)", h.DDL(schema.Property{}))

		h, err = d.ColumnTypeByNative("INTEGER")
		require.NoError(t, err)
		assert.Equal(t, "INTEGER", h.Native())
	})

	t.Run("introspection_targets_sqlite_master", func(t *testing.T) {
		query, args := d.TableExistsSQL("person")
		assert.Contains(t, query, "sqlite_master")
		assert.Equal(t, []any{"person"}, args)

		query, args = d.PrimaryKeysSQL("person")
		assert.Contains(t, query, "pragma_table_info")
		assert.Equal(t, []any{"person"}, args)
	})
}
