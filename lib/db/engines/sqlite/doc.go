// Package sqlite implements the db.SQLDB interface on top of an embedded SQLite
// database, using the pure Go modernc.org/sqlite driver through database/sql.
//
// The package focuses on:
//   - Connect-or-create semantics for a single backing file (or ":memory:")
//   - Durability modes selected through DSN pragmas
//   - A prepared statement cache keyed by query text
//   - A compact, compressed and checksummed dump format for Save and Load
//
// Key Components:
//
//   - sqliteImpl: The database structure implementing db.SQLDB. It owns the
//     database/sql pool, which is limited to a single connection. SQLite
//     serialises writers anyway and a single connection keeps in-memory
//     databases alive for the lifetime of the handle.
//
//   - Statement Cache: Every query string passed to Exec, QueryValue, QueryInt or
//     QueryColumn is prepared once and kept in an xsync.MapOf. If two callers
//     prepare the same query concurrently, LoadOrStore keeps the first statement
//     and the second one is closed again. All statements are closed on Close.
//
//   - Durability: By default the DSN sets synchronous=OFF and journal_mode=MEMORY,
//     trading crash durability for write latency. With db.Options.Durable the
//     database uses synchronous=FULL and journal_mode=DELETE. busy_timeout is
//     always set to 5 seconds.
//
//   - Dump Format: Save writes the magic "SQKVDUMP", a version byte and a zstd
//     stream of length-prefixed records (table tag, key, value). The stream is
//     terminated by an end tag and an xxh3 checksum over all record bytes.
//     Load verifies the complete dump before it replaces the contents of both
//     tables in a single transaction.
//
// Metrics:
//
//	Every statement execution is recorded in the sqkv_statement_duration_seconds
//	histogram of the VictoriaMetrics default set.
//
// Usage Example:
//
//	database, err := sqlite.NewSQLiteDB(&db.Options{Path: "/tmp/sqkv.db"})
//	if err != nil {
//		return err
//	}
//	defer database.Close()
//
//	affected, err := database.Exec(`INSERT OR REPLACE INTO string (key, val) VALUES (?, ?)`, "foo", []byte("bar"))
//	value, found, err := database.QueryValue(`SELECT val FROM string WHERE key = ?`, "foo")
package sqlite
