// Package db defines the relational backend the sqKV command layer is built on.
// It provides a small SQLDB interface that hides the concrete SQL engine behind
// parameterised execute and query primitives.
//
// The package focuses on:
//   - A unified interface for statement execution on a fixed two-table schema
//   - Standardized persistence operations (Save, Load)
//   - Metadata reporting about the backing file
//
// Key Components:
//
//   - SQLDB Interface: The core interface that all backends must satisfy.
//     Writes go through Exec, which reports the number of affected rows.
//     Reads go through QueryValue, QueryInt and QueryColumn, which all
//     return plain byte slices so that the command layer never handles
//     driver specific row types.
//
//   - Schema: Two tables, TableString (key TEXT UNIQUE, val BLOB) and
//     TableSets (key TEXT, val BLOB). A set exists implicitly as long as it has
//     at least one member row. The sets table has no uniqueness constraint,
//     membership uniqueness is enforced by the statements the command layer issues.
//
//   - Options: The path of the backing file and the durability mode. By default
//     synchronous writes and the on-disk journal are disabled for throughput.
//     Setting Durable requests full fsync and a rollback journal.
//
//   - Database Information: The DatabaseInfo structure reports the engine,
//     path, durability mode, row counts and file size.
//
// Note on Atomicity:
//   - Every call on the interface is a single statement. Commands that need several
//     statements (e.g. GETSET, RENAME, SUNIONSTORE) are not wrapped in a transaction,
//     so a crash between two statements can leave a partially applied command.
//   - Load is the exception: it replaces both tables in one transaction.
//
// Related Packages:
//
// The engines/sqlite package (github.com/ValentinKolb/sqKV/lib/db/engines/sqlite) provides
// the SQLite implementation of the interface using the pure Go modernc.org/sqlite driver
// and a lock-free prepared statement cache.
//
// The util package (github.com/ValentinKolb/sqKV/lib/db/util) provides helpers for
// interpreting stored values: bit strings, population counts, integer coercion and
// range normalisation.
package db
