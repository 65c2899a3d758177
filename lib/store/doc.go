// Package store provides the command-level interface of sqKV: a subset of the Redis
// command set (strings, sets, bit operations, key enumeration) on top of a db.SQLDB.
//
// The package focuses on:
//   - A unified interface (IStore) with one method per supported command
//   - Pluggable database backends through the DBFactory pattern
//   - Typed errors that separate invalid input from backend failures
//
// Key Components:
//
//   - IStore Interface: The core abstraction. Keys are strings, values and set members
//     are arbitrary byte strings. Absent keys are not errors: commands report absence
//     with a boolean (Get, SetNX, RandomKey, ...) or a neutral value (StrLen = 0,
//     SMembers = empty, BitCount = 0). Strings and sets share one key namespace.
//
//   - Error System: Every failure is a *Error carrying a RetCode. RetCInvalidOperation
//     marks bad input (negative offsets, invalid patterns, overflowing counters),
//     RetCInternalError wraps backend failures and RetCUnsupportedOperation is returned
//     by the command dispatcher for unknown commands. Error implements Unwrap so
//     errors.Is(err, db.ErrClosed) identifies commands issued after Close.
//
//   - Config: Path and durability of the backing database file. DefaultPath resolves
//     to ~/.sqkv.db.
//
//   - DBFactory: A function type that abstracts the creation of the underlying
//     db.SQLDB instance.
//
// Implementations:
//
//	- SQL Store (sqlstore): Translates each command into statements on the two-table
//	  SQLite schema. Available in the "github.com/ValentinKolb/sqKV/lib/store/sqlstore"
//	  package.
//
// Related packages:
//   - "github.com/ValentinKolb/sqKV/lib/store/command": name based dispatch used by the CLI
//   - "github.com/ValentinKolb/sqKV/lib/store/testing": conformance tests for IStore
package store
