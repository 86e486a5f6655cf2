// Package relstore is an object-relational persistence engine: it maps typed
// entities onto rows of a relational table, generating dialect-correct SQL
// for schema creation, inserts, updates, deletes and point lookups.
//
// # Quick Start
//
// Open a store, register an entity type and save a row:
//
//	import (
//	    "github.com/syssam/relstore"
//	    "github.com/syssam/relstore/schema"
//	    _ "github.com/syssam/relstore/dialect/sqlite"
//	)
//
//	store, err := relstore.Open("sqlite", "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	_, err = store.Register(ctx, "Person", schema.Spec{
//	    Table: "person",
//	    ID:    schema.IDSpec{Column: "id"},
//	    Properties: []schema.PropertySpec{
//	        {Name: "name", Type: "string"},
//	        {Name: "age", Type: "integer", Nullable: true},
//	    },
//	})
//
//	ann := relstore.NewEntity("Person").Set("name", "Ann")
//	if err := store.Save(ctx, ann, nil); err != nil {
//	    log.Fatal(err)
//	}
//	loaded, err := store.Load(ctx, "Person", 1)
//
// Registration lazily creates the backing table (and sequence, when the
// mapping declares one and the dialect supports sequences) and is idempotent
// per type name.
//
// # Transactions
//
// Mutations group into an explicit unit of work that owns one pooled
// connection until the caller commits or rolls back:
//
//	tx, err := store.Begin(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.Save(ctx, ann, tx); err != nil {
//	    tx.Rollback()
//	    log.Fatal(err)
//	}
//	if err := tx.Commit(); err != nil {
//	    log.Fatal(err)
//	}
//
// There is no implicit commit and no timeout: a transaction that is never
// finished holds its connection until the process exits. The accumulated
// Inserted/Updated/Deleted keys record what it touched.
//
// # Identifier generation
//
// A mapping may declare a sequence. On dialects with native sequences the
// engine fetches the next sequence value; everywhere else it computes
// MAX(id)+1, which is racy under concurrent inserts. See [Store.GenerateID].
package relstore
