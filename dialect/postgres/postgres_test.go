package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relstore/dialect"
	"github.com/syssam/relstore/dialect/postgres"
	"github.com/syssam/relstore/schema"
)

func TestNew(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"16.2 (Debian 16.2-1.pgdg120+2)", true},
		{"9.5.25", true},
		{"9.4.26", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			d, err := postgres.New(tt.version)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, dialect.Postgres, d.Name())
			} else {
				require.Error(t, err)
				assert.True(t, dialect.IsUnsupported(err))
			}
		})
	}
}

func TestDialect(t *testing.T) {
	d, err := postgres.New("16.2")
	require.NoError(t, err)

	t.Run("numbered_placeholders", func(t *testing.T) {
		assert.Equal(t, "$1", d.Placeholder(1))
		assert.Equal(t, "$12", d.Placeholder(12))
	})

	t.Run("native_sequences", func(t *testing.T) {
		assert.True(t, d.SupportsSequences())
		assert.Equal(t, "SELECT nextval('person_seq')", d.NextSequenceValueSQL("person_seq"))
	})

	t.Run("type_table_knows_pq_names", func(t *testing.T) {
		h, err := d.ColumnTypeByNative("INT8")
		require.NoError(t, err)
		assert.Equal(t, "BIGINT", h.Native())

		h, err = d.ColumnTypeByNative("FLOAT8")
		require.NoError(t, err)
		assert.Equal(t, "DOUBLE PRECISION", h.Native())
	})

	t.Run("no_engine_suffix", func(t *testing.T) {
		assert.Empty(t, d.EngineSuffix())
	})

	t.Run("decimal_ddl_carries_precision", func(t *testing.T) {
		h, err := d.ColumnType(schema.TypeDecimal)
		require.NoError(t, err)
		assert.Equal(t, "NUMERIC(12,2)", h.DDL(schema.Property{Precision: 12, Scale: 2}))
	})

	t.Run("primary_keys_join_constraints", func(t *testing.T) {
		query, args := d.PrimaryKeysSQL("person")
		assert.Contains(t, query, "table_constraints")
		assert.Contains(t, query, "PRIMARY KEY")
		assert.Equal(t, []any{"person"}, args)
	})
}
