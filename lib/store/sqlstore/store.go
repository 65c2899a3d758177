package sqlstore

import (
	"encoding/json"
	"github.com/ValentinKolb/sqKV/lib/db"
	"github.com/ValentinKolb/sqKV/lib/db/engines/sqlite"
	"github.com/ValentinKolb/sqKV/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"io"
)

var Logger = logger.GetLogger("store")

// --------------------------------------------------------------------------
// Statements
// --------------------------------------------------------------------------

// Statements with a fixed text. They are prepared once by the database and reused.
const (
	qGetString   = `SELECT val FROM string WHERE key = ?`
	qSetString   = `INSERT OR REPLACE INTO string (key, val) VALUES (?, ?)`
	qDelString   = `DELETE FROM string WHERE key = ?`
	qHasString   = `SELECT EXISTS (SELECT 1 FROM string WHERE key = ?)`
	qExists      = `SELECT EXISTS (SELECT 1 FROM string WHERE key = ?1) OR EXISTS (SELECT 1 FROM sets WHERE key = ?1)`
	qSAdd        = `INSERT INTO sets (key, val) SELECT ?1, ?2 WHERE NOT EXISTS (SELECT 1 FROM sets WHERE key = ?1 AND val = ?2)`
	qSRem        = `DELETE FROM sets WHERE key = ? AND val = ?`
	qSMembers    = `SELECT val FROM sets WHERE key = ?`
	qSIsMember   = `SELECT EXISTS (SELECT 1 FROM sets WHERE key = ? AND val = ?)`
	qSCard       = `SELECT COUNT(*) FROM sets WHERE key = ?`
	qSRandMember = `SELECT val FROM sets WHERE key = ? ORDER BY RANDOM() LIMIT 1`
	qSMove       = `UPDATE sets SET key = ? WHERE key = ? AND val = ?`
	qDelSet      = `DELETE FROM sets WHERE key = ?`
	qRenameSet   = `UPDATE sets SET key = ? WHERE key = ?`
	qKeys        = `SELECT key FROM string UNION SELECT key FROM sets`
	qRandomKey   = `SELECT key FROM (SELECT key FROM string UNION SELECT key FROM sets) ORDER BY RANDOM() LIMIT 1`
	qDBSize      = `SELECT COUNT(*) FROM (SELECT key FROM string UNION SELECT key FROM sets)`
	qFlushString = `DELETE FROM string`
	qFlushSets   = `DELETE FROM sets`
	qSUnion      = `SELECT DISTINCT val FROM sets WHERE key IN (SELECT value FROM json_each(?))`
	qSInter      = `SELECT val FROM sets WHERE key IN (SELECT value FROM json_each(?)) GROUP BY val HAVING COUNT(DISTINCT key) = ?`
)

// --------------------------------------------------------------------------
// Store
// --------------------------------------------------------------------------

type storeImpl struct {
	db db.SQLDB
}

// NewSQLStore creates a new store on top of the database created by factory.
func NewSQLStore(factory store.DBFactory) (store.IStore, error) {
	database, err := factory()
	if err != nil {
		return nil, store.WrapError(store.RetCInternalError, "failed to open database", err)
	}
	return &storeImpl{db: database}, nil
}

// Open creates a new store backed by the SQLite database described by conf.
// An empty path falls back to store.DefaultPath().
func Open(conf store.Config) (store.IStore, error) {
	if conf.Path == "" {
		conf.Path = store.DefaultPath()
	}
	return NewSQLStore(func() (db.SQLDB, error) {
		return sqlite.NewSQLiteDB(&db.Options{
			Path:    conf.Path,
			Durable: conf.Durable,
		})
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// internalError wraps a database failure. It returns an untyped nil for a nil err.
func internalError(op string, err error) error {
	if err == nil {
		return nil
	}
	return store.WrapError(store.RetCInternalError, op+" failed", err)
}

func invalidOperation(msg string) error {
	return store.NewError(store.RetCInvalidOperation, msg)
}

// keyList removes duplicate keys and encodes the rest as a JSON array, which the
// multi-key statements expand with json_each. The statement text therefore does not
// depend on the number of keys.
func keyList(keys []string) (list string, distinct int, err error) {
	unique := uniqueKeys(keys)
	encoded, err := json.Marshal(unique)
	if err != nil {
		return "", 0, err
	}
	return string(encoded), len(unique), nil
}

// uniqueKeys removes duplicate keys and keeps the order of first occurrence
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	return unique
}

// normalizeMember maps a nil member to the empty member. A nil []byte would be bound as
// NULL, which never compares equal to a stored member.
func normalizeMember(m []byte) []byte {
	if m == nil {
		return []byte{}
	}
	return m
}

// --------------------------------------------------------------------------
// Connection and Persistence (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Ping() bool {
	return s.db.IsOpen()
}

func (s *storeImpl) Echo(value []byte) []byte {
	return value
}

func (s *storeImpl) Save(w io.Writer) error {
	return internalError("save", s.db.Save(w))
}

func (s *storeImpl) Load(r io.Reader) error {
	return internalError("load", s.db.Load(r))
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	info, err := s.db.GetInfo()
	return info, internalError("info", err)
}

func (s *storeImpl) Close() error {
	return internalError("close", s.db.Close())
}
