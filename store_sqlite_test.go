package relstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/relstore"
	"github.com/syssam/relstore/dialect"
	_ "github.com/syssam/relstore/dialect/sqlite"
	"github.com/syssam/relstore/schema"
)

// newSQLiteStore opens a store over a throwaway on-disk SQLite database. A
// file, not :memory:, so every pooled connection sees the same database.
func newSQLiteStore(t *testing.T) *relstore.Store {
	t.Helper()
	s, err := relstore.Open("sqlite", filepath.Join(t.TempDir(), "relstore_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func registerPerson(t *testing.T, s *relstore.Store) {
	t.Helper()
	_, err := s.Register(context.Background(), "Person", schema.Spec{
		Properties: []schema.PropertySpec{
			{Name: "name", Type: "string"},
			{Name: "age", Type: "integer", Nullable: true},
			{Name: "spouse", Type: "bigint", Nullable: true},
		},
	})
	require.NoError(t, err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	registerPerson(t, s)

	ann := relstore.NewEntity("Person").Set("name", "Ann")
	require.NoError(t, s.Save(ctx, ann, nil))

	id, ok := ann.Key().ID()
	require.True(t, ok)
	assert.Equal(t, int64(1), id, "first row of an empty table gets id 1")

	t.Run("load", func(t *testing.T) {
		got, err := s.Load(ctx, "Person", id)
		require.NoError(t, err)
		require.NotNil(t, got)
		props := got.Properties()
		assert.Equal(t, "Ann", props["name"])
		assert.Nil(t, props["age"], "unset nullable property loads as nil")
		assert.Equal(t, relstore.PersistentKey("Person", id), got.Key())
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := s.Exists(ctx, "Person", id)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.Exists(ctx, "Person", 99)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("absent_load_is_not_an_error", func(t *testing.T) {
		got, err := s.Load(ctx, "Person", 99)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("generate_id_continues_after_max", func(t *testing.T) {
		next, err := s.GenerateID(ctx, "Person")
		require.NoError(t, err)
		assert.Equal(t, id+1, next)
	})

	t.Run("save_dispatches_to_update", func(t *testing.T) {
		ann.Set("age", 30)
		require.NoError(t, s.Save(ctx, ann, nil))

		got, err := s.Load(ctx, "Person", id)
		require.NoError(t, err)
		assert.Equal(t, int64(30), got.Properties()["age"])
	})

	t.Run("remove", func(t *testing.T) {
		affected, err := s.Remove(ctx, ann.Key(), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		exists, err := s.Exists(ctx, "Person", id)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestSQLiteRegisterIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	registerPerson(t, s)

	// Re-registering the same type must not attempt DDL against the
	// existing table, and the store keeps serving the first mapping.
	m1, err := s.Mapping("Person")
	require.NoError(t, err)
	registerPerson(t, s)
	m2, err := s.Mapping("Person")
	require.NoError(t, err)
	assert.Same(t, m1, m2)

	e := relstore.NewEntity("Person").Set("name", "Ann")
	require.NoError(t, s.Save(ctx, e, nil))
}

func TestSQLiteNestedSave(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	registerPerson(t, s)

	wife := relstore.NewEntity("Person").Set("name", "Ann")
	husband := relstore.NewEntity("Person").Set("name", "Bob").Set("spouse", wife)
	require.NoError(t, s.Save(ctx, husband, nil))

	// The referenced entity is saved first and replaced by its key.
	require.True(t, wife.Key().IsPersistent())
	wifeID, _ := wife.Key().ID()
	assert.Equal(t, wife.Key(), husband.Properties()["spouse"])

	husbandID, _ := husband.Key().ID()
	got, err := s.Load(ctx, "Person", husbandID)
	require.NoError(t, err)
	assert.Equal(t, wifeID, got.Properties()["spouse"], "the foreign key column carries the referenced id")

	t.Run("properties_of_resolves_references", func(t *testing.T) {
		props, err := s.PropertiesOf(husband)
		require.NoError(t, err)
		ref, ok := props["spouse"].(*relstore.Entity)
		require.True(t, ok, "key values surface as lazy references")
		assert.False(t, ref.Loaded())

		name, err := ref.Property(ctx, "name")
		require.NoError(t, err)
		assert.Equal(t, "Ann", name)
	})
}

func TestSQLiteRef(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	registerPerson(t, s)

	ann := relstore.NewEntity("Person").Set("name", "Ann").Set("age", 30)
	require.NoError(t, s.Save(ctx, ann, nil))
	id, _ := ann.Key().ID()

	t.Run("defers_the_row_fetch", func(t *testing.T) {
		ref, err := s.Ref(ctx, "Person", id)
		require.NoError(t, err)
		assert.False(t, ref.Loaded())

		name, err := ref.Property(ctx, "name")
		require.NoError(t, err)
		assert.Equal(t, "Ann", name)
		assert.True(t, ref.Loaded())
	})

	t.Run("missing_row", func(t *testing.T) {
		_, err := s.Ref(ctx, "Person", 99)
		require.Error(t, err)
		assert.True(t, relstore.IsNotFound(err))
		assert.ErrorIs(t, err, relstore.ErrNotFound)
	})
}

func TestSQLiteTransaction(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	registerPerson(t, s)

	t.Run("effects_visible_only_after_commit", func(t *testing.T) {
		tx, err := s.Begin(ctx)
		require.NoError(t, err)
		ann := relstore.NewEntity("Person").Set("name", "Ann")
		require.NoError(t, s.Save(ctx, ann, tx))
		id, _ := ann.Key().ID()

		got, err := s.Load(ctx, "Person", id)
		require.NoError(t, err)
		assert.Nil(t, got, "uncommitted rows are invisible to other connections")

		require.NoError(t, tx.Commit())
		got, err = s.Load(ctx, "Person", id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Ann", got.Properties()["name"])
	})

	t.Run("rollback_discards_effects", func(t *testing.T) {
		tx, err := s.Begin(ctx)
		require.NoError(t, err)
		bea := relstore.NewEntity("Person").Set("name", "Bea")
		require.NoError(t, s.Save(ctx, bea, tx))
		id, _ := bea.Key().ID()
		require.NoError(t, tx.Rollback())

		exists, err := s.Exists(ctx, "Person", id)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("accumulates_touched_keys", func(t *testing.T) {
		tx, err := s.Begin(ctx)
		require.NoError(t, err)

		cay := relstore.NewEntity("Person").Set("name", "Cay")
		require.NoError(t, s.Save(ctx, cay, tx))
		cay.Set("age", 41)
		require.NoError(t, s.Save(ctx, cay, tx))
		_, err = s.Remove(ctx, cay.Key(), tx)
		require.NoError(t, err)

		assert.Equal(t, []relstore.Key{cay.Key()}, tx.Inserted())
		assert.Equal(t, []relstore.Key{cay.Key()}, tx.Updated())
		assert.Equal(t, []relstore.Key{cay.Key()}, tx.Deleted())
		require.NoError(t, tx.Commit())
	})
}

func TestSQLiteValueRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	_, err := s.Register(ctx, "Event", schema.Spec{
		Properties: []schema.PropertySpec{
			{Name: "at", Type: "time"},
			{Name: "payload", Type: "bytes", Nullable: true},
			{Name: "active", Type: "bool"},
			{Name: "token", Type: "uuid"},
		},
	})
	require.NoError(t, err)

	at := time.Date(2026, 8, 26, 9, 30, 0, 123456000, time.UTC)
	token := uuid.New()
	e := relstore.NewEntity("Event").
		Set("at", at).
		Set("payload", []byte{0x1, 0x2}).
		Set("active", true).
		Set("token", token)
	require.NoError(t, s.Save(ctx, e, nil))

	id, _ := e.Key().ID()
	got, err := s.Load(ctx, "Event", id)
	require.NoError(t, err)
	props := got.Properties()

	gotAt, ok := props["at"].(time.Time)
	require.True(t, ok)
	assert.True(t, gotAt.Equal(at))
	assert.Equal(t, []byte{0x1, 0x2}, props["payload"])
	assert.Equal(t, true, props["active"])
	assert.Equal(t, token, props["token"])
}

func TestSQLiteDialectConvergence(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	// Concurrent first callers may each run a detection round trip but must
	// converge on a single cached dialect.
	dialects := make([]dialect.Dialect, 8)
	var g errgroup.Group
	for i := range dialects {
		g.Go(func() error {
			d, err := s.Dialect(ctx)
			dialects[i] = d
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, d := range dialects {
		assert.Same(t, dialects[0], d)
	}
}
