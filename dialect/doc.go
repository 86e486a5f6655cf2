// Package dialect provides the database dialect abstraction for relstore.
//
// The store never emits product-specific SQL itself: identifier quoting,
// placeholder syntax, the logical-to-native type table, sequence support and
// schema introspection queries all go through the [Dialect] interface. One
// implementation exists per supported database product:
//
//   - dialect/sqlite: SQLite (reference implementation, modernc.org/sqlite)
//   - dialect/mysql: MySQL (go-sql-driver/mysql)
//   - dialect/postgres: PostgreSQL (lib/pq)
//
// # Detection
//
// Importing a concrete dialect package registers it, mirroring the
// database/sql driver convention:
//
//	import (
//	    "github.com/syssam/relstore/dialect"
//	    _ "github.com/syssam/relstore/dialect/sqlite"
//	)
//
//	d, err := dialect.Detect(ctx, conn, "sqlite")
//
// Detect runs the product's version query over the given connection and asks
// the registered factory for a Dialect. An unknown driver name or an
// unsupported product version yields an [UnsupportedError]; the engine never
// attempts best-effort SQL against an unrecognized database.
//
// # Type handlers
//
// A [TypeHandler] carries a logical column type across the SQL boundary in
// both directions: it renders the DDL type clause, quotes default literals,
// coerces property values into driver arguments, and builds scan
// destinations for reading values back.
package dialect
