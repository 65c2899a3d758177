package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"github.com/ValentinKolb/sqKV/lib/db"
	"github.com/ValentinKolb/sqKV/lib/db/util"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

var Logger = logger.GetLogger("db")

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	driverName        = "sqlite"
	busyTimeoutMillis = 5000
	MemoryPath        = ":memory:"
)

// schema is executed once per open. The statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS string (id INTEGER PRIMARY KEY, key TEXT UNIQUE, val BLOB)`,
	`CREATE TABLE IF NOT EXISTS sets (id INTEGER PRIMARY KEY, key TEXT, val BLOB)`,
	`CREATE INDEX IF NOT EXISTS sets_key ON sets (key)`,
}

var statementDuration = metrics.GetOrCreateHistogram(`sqkv_statement_duration_seconds`)

// --------------------------------------------------------------------------
// Core SQLite database structure
// --------------------------------------------------------------------------

// sqliteImpl implements db.SQLDB on top of database/sql and the pure Go modernc driver
type sqliteImpl struct {
	conn   *sql.DB
	opts   db.Options
	stmts  *xsync.MapOf[string, *sql.Stmt] // prepared statements by query text
	closed atomic.Bool
}

// DefaultOptions returns options for a private in-memory database without durability
func DefaultOptions() *db.Options {
	return &db.Options{
		Path:    MemoryPath,
		Durable: false,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewSQLiteDB opens (or creates) the database file described by opts and makes sure
// the schema exists. A nil opts opens an in-memory database.
func NewSQLiteDB(opts *db.Options) (db.SQLDB, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("sqlite: empty database path")
	}

	conn, err := sql.Open(driverName, buildDSN(*opts))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", opts.Path, err)
	}

	// SQLite serialises writers anyway. A single connection also keeps ":memory:"
	// databases alive for the lifetime of the handle.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("sqlite: create schema: %w", err)
		}
	}

	Logger.Infof("opened database %s (durable=%t)", opts.Path, opts.Durable)

	return &sqliteImpl{
		conn:  conn,
		opts:  *opts,
		stmts: xsync.NewMapOf[string, *sql.Stmt](),
	}, nil
}

// buildDSN encodes the pragmas for the requested durability mode into the DSN,
// so they are applied to every connection the pool opens.
func buildDSN(opts db.Options) string {
	synchronous, journalMode := "OFF", "MEMORY"
	if opts.Durable {
		synchronous, journalMode = "FULL", "DELETE"
	}
	return fmt.Sprintf(
		"%s?_pragma=busy_timeout(%d)&_pragma=synchronous=%s&_pragma=journal_mode=%s",
		opts.Path, busyTimeoutMillis, synchronous, journalMode,
	)
}

// stmt returns the cached prepared statement for query, preparing it on first use.
func (s *sqliteImpl) stmt(query string) (*sql.Stmt, error) {
	if !s.IsOpen() {
		return nil, db.ErrClosed
	}
	if st, ok := s.stmts.Load(query); ok {
		return st, nil
	}

	st, err := s.conn.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: prepare %q: %w", query, err)
	}
	Logger.Debugf("prepared statement %q", query)

	// someone else prepared the same query in the meantime
	if actual, loaded := s.stmts.LoadOrStore(query, st); loaded {
		_ = st.Close()
		return actual, nil
	}
	return st, nil
}

func observe(start time.Time) {
	statementDuration.UpdateDuration(start)
}

// --------------------------------------------------------------------------
// SQLDB Interface Implementation - Statements
// --------------------------------------------------------------------------

func (s *sqliteImpl) Exec(query string, args ...any) (int64, error) {
	st, err := s.stmt(query)
	if err != nil {
		return 0, err
	}
	defer observe(time.Now())

	res, err := st.Exec(args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: exec: %w", err)
	}
	return res.RowsAffected()
}

func (s *sqliteImpl) QueryValue(query string, args ...any) ([]byte, bool, error) {
	st, err := s.stmt(query)
	if err != nil {
		return nil, false, err
	}
	defer observe(time.Now())

	var value []byte
	err = st.QueryRow(args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("sqlite: query: %w", err)
	}

	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

func (s *sqliteImpl) QueryInt(query string, args ...any) (int64, error) {
	st, err := s.stmt(query)
	if err != nil {
		return 0, err
	}
	defer observe(time.Now())

	var n sql.NullInt64
	err = st.QueryRow(args...).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("sqlite: query: %w", err)
	}
	return n.Int64, nil
}

func (s *sqliteImpl) QueryColumn(query string, args ...any) ([][]byte, error) {
	st, err := s.stmt(query)
	if err != nil {
		return nil, err
	}
	defer observe(time.Now())

	rows, err := st.Query(args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	values := make([][]byte, 0)
	for rows.Next() {
		var value []byte
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		if value == nil {
			value = []byte{}
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

// --------------------------------------------------------------------------
// SQLDB Interface Implementation - Lifecycle and Metadata
// --------------------------------------------------------------------------

// GetInfo returns row counts and the size of the database as reported by SQLite
func (s *sqliteImpl) GetInfo() (db.DatabaseInfo, error) {
	stringEntries, err := s.QueryInt(`SELECT COUNT(*) FROM string`)
	if err != nil {
		return db.DatabaseInfo{}, err
	}
	setEntries, err := s.QueryInt(`SELECT COUNT(*) FROM sets`)
	if err != nil {
		return db.DatabaseInfo{}, err
	}
	pageCount, err := s.QueryInt(`PRAGMA page_count`)
	if err != nil {
		return db.DatabaseInfo{}, err
	}
	pageSize, err := s.QueryInt(`PRAGMA page_size`)
	if err != nil {
		return db.DatabaseInfo{}, err
	}
	journalMode, _, err := s.QueryValue(`PRAGMA journal_mode`)
	if err != nil {
		return db.DatabaseInfo{}, err
	}
	synchronous, err := s.QueryInt(`PRAGMA synchronous`)
	if err != nil {
		return db.DatabaseInfo{}, err
	}
	stringSizes, err := s.valueSizes(`SELECT length(val) FROM string`)
	if err != nil {
		return db.DatabaseInfo{}, err
	}
	memberSizes, err := s.valueSizes(`SELECT length(val) FROM sets`)
	if err != nil {
		return db.DatabaseInfo{}, err
	}

	meta := &struct {
		JournalMode string         `json:"journal_mode"`
		Synchronous int64          `json:"synchronous"`
		PageCount   int64          `json:"page_count"`
		PageSize    int64          `json:"page_size"`
		StringSizes util.SizeStats `json:"string_value_sizes"`
		MemberSizes util.SizeStats `json:"set_member_sizes"`
	}{
		JournalMode: string(journalMode),
		Synchronous: synchronous,
		PageCount:   pageCount,
		PageSize:    pageSize,
		StringSizes: stringSizes,
		MemberSizes: memberSizes,
	}

	return db.DatabaseInfo{
		SizeBytes:     pageCount * pageSize,
		DbType:        db.ImplSQLite,
		Path:          s.opts.Path,
		Durable:       s.opts.Durable,
		StringEntries: stringEntries,
		SetEntries:    setEntries,
		CachedStmts:   s.stmts.Size(),
		Metadata:      meta,
	}, nil
}

// valueSizes runs a query returning one length per row and summarises the lengths
func (s *sqliteImpl) valueSizes(query string) (util.SizeStats, error) {
	st, err := s.stmt(query)
	if err != nil {
		return util.SizeStats{}, err
	}
	defer observe(time.Now())

	rows, err := st.Query()
	if err != nil {
		return util.SizeStats{}, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	histogram := util.NewSizeHistogram()
	for rows.Next() {
		var size sql.NullInt64
		if err := rows.Scan(&size); err != nil {
			return util.SizeStats{}, fmt.Errorf("sqlite: scan: %w", err)
		}
		histogram.Add(size.Int64)
	}
	if err := rows.Err(); err != nil {
		return util.SizeStats{}, fmt.Errorf("sqlite: query: %w", err)
	}
	return histogram.Stats(), nil
}

func (s *sqliteImpl) IsOpen() bool {
	return !s.closed.Load()
}

// Close releases all prepared statements and the connection pool
func (s *sqliteImpl) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.stmts.Range(func(query string, st *sql.Stmt) bool {
		if err := st.Close(); err != nil {
			Logger.Warningf("failed to close statement %q: %v", query, err)
		}
		return true
	})
	s.stmts.Clear()

	Logger.Infof("closed database %s", s.opts.Path)
	return s.conn.Close()
}
