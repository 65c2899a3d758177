package db

import (
	"errors"
	"io"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplSQLite Implementation = "sqlite"
)

// Table names of the storage schema.
// Strings live in TableString (one row per key), set members in TableSets (one row per member).
const (
	TableString = "string"
	TableSets   = "sets"
)

// ErrClosed is returned by every operation on a database that has already been closed.
var ErrClosed = errors.New("database is closed")

// Options configures how a database is opened.
type Options struct {
	// Path is the location of the backing file. ":memory:" opens a private in-memory database.
	Path string
	// Durable enables full fsync and a rollback journal. The default trades crash
	// durability for write latency.
	Durable bool
}

type DatabaseInfo struct {
	SizeBytes     int64          `json:"size_bytes"`
	DbType        Implementation `json:"db_type"`
	Path          string         `json:"path"`
	Durable       bool           `json:"durable"`
	StringEntries int64          `json:"string_entries"`
	SetEntries    int64          `json:"set_entries"`
	CachedStmts   int            `json:"cached_statements"`
	Metadata      interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// SQLDB defines the interface of the relational backend the command layer is built on.
// It exposes parameterised statement execution and row fetching on a fixed two-table
// schema (see TableString and TableSets) which the implementation creates on open.
// Implementations are expected to cache prepared statements by their query text.
type SQLDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Exec executes a write statement and returns the number of affected rows.
	Exec(query string, args ...any) (rowsAffected int64, err error)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// QueryValue returns the first column of the first row of the result.
	// The boolean return value indicates whether a row was found at all.
	// A found value is never nil, even if the stored value is empty.
	QueryValue(query string, args ...any) (value []byte, found bool, err error)

	// QueryInt returns the first column of the first row as an integer (e.g. for COUNT queries).
	// Zero is returned if the query yields no rows.
	QueryInt(query string, args ...any) (n int64, err error)

	// QueryColumn returns the first column of every row of the result.
	QueryColumn(query string, args ...any) (values [][]byte, err error)

	// --------------------------------------------------------------------------
	// Persistence Operations
	// --------------------------------------------------------------------------

	// Save writes a dump of both tables to the provided io.Writer.
	Save(w io.Writer) (err error)

	// Load replaces the contents of both tables with a dump read from the io.Reader.
	Load(r io.Reader) (err error)

	// --------------------------------------------------------------------------
	// Lifecycle and Metadata
	// --------------------------------------------------------------------------

	// GetInfo returns information about the database.
	GetInfo() (info DatabaseInfo, err error)

	// IsOpen reports whether the database handle is still usable.
	IsOpen() (ok bool)

	// Close closes all cached statements and the database handle.
	// Closing an already closed database is a no-op.
	Close() (err error)
}
