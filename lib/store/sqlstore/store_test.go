package sqlstore

import (
	"errors"
	"github.com/ValentinKolb/sqKV/lib/db"
	"github.com/ValentinKolb/sqKV/lib/db/engines/sqlite"
	"github.com/ValentinKolb/sqKV/lib/store"
	"path/filepath"
	"testing"
)

func TestKeyList(t *testing.T) {
	list, distinct, err := keyList([]string{"a", "b\"c", "a"})
	if err != nil {
		t.Fatalf("keyList failed: %v", err)
	}
	if list != `["a","b\"c"]` || distinct != 2 {
		t.Errorf("Unexpected key list %s (distinct=%d)", list, distinct)
	}
}

func TestNormalizeMember(t *testing.T) {
	if m := normalizeMember(nil); m == nil || len(m) != 0 {
		t.Errorf("Expected empty non-nil member, got %v", m)
	}
	if m := normalizeMember([]byte("x")); string(m) != "x" {
		t.Errorf("Expected member to be unchanged, got %q", m)
	}
}

func TestUniqueKeys(t *testing.T) {
	args := uniqueKeys([]string{"a", "b", "a", "c", "b"})
	if len(args) != 3 {
		t.Fatalf("Expected 3 unique keys, got %v", args)
	}
	for i, expected := range []string{"a", "b", "c"} {
		if args[i] != expected {
			t.Errorf("Expected %s at position %d, got %v", expected, i, args[i])
		}
	}
}

func TestInternalErrorNil(t *testing.T) {
	if err := internalError("op", nil); err != nil {
		t.Errorf("Expected untyped nil, got %v", err)
	}
}

func TestNewSQLStoreFactoryError(t *testing.T) {
	cause := errors.New("boom")
	_, err := NewSQLStore(func() (db.SQLDB, error) {
		return nil, cause
	})

	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.RetCInternalError {
		t.Fatalf("Expected internal error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected error to wrap the factory error")
	}
}

func TestInMemoryStore(t *testing.T) {
	s, err := NewSQLStore(func() (db.SQLDB, error) {
		return sqlite.NewSQLiteDB(sqlite.DefaultOptions())
	})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := s.Get("k")
	if err != nil || !ok || string(value) != "v" {
		t.Errorf("Expected v, got %q (ok=%t, err=%v)", value, ok, err)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := Open(store.Config{Path: path, Durable: true})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := s.Set("persisted", []byte("yes")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := s.SAdd("members", []byte("m")); err != nil {
		t.Fatalf("SAdd failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = Open(store.Config{Path: path})
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer s.Close()

	value, ok, err := s.Get("persisted")
	if err != nil || !ok || string(value) != "yes" {
		t.Errorf("Expected persisted value, got %q (ok=%t, err=%v)", value, ok, err)
	}
	member, err := s.SIsMember("members", []byte("m"))
	if err != nil || !member {
		t.Errorf("Expected persisted set member (err=%v)", err)
	}
}

func TestGetDBInfo(t *testing.T) {
	s := newTestStore(t, false)
	defer s.Close()

	s.Set("a", []byte("1"))
	s.SAdd("s", []byte("x"))
	s.SAdd("s", []byte("y"))

	info, err := s.GetDBInfo()
	if err != nil {
		t.Fatalf("GetDBInfo failed: %v", err)
	}
	if info.DbType != db.ImplSQLite {
		t.Errorf("Expected db type %s, got %s", db.ImplSQLite, info.DbType)
	}
	if info.StringEntries != 1 || info.SetEntries != 2 {
		t.Errorf("Unexpected entry counts %d/%d", info.StringEntries, info.SetEntries)
	}
}

func TestMultiKeyStatementsAreShared(t *testing.T) {
	s := newTestStore(t, false)
	defer s.Close()

	keys := []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7"}
	for _, key := range keys {
		s.SAdd(key, []byte("shared"))
	}

	// warm up both statements
	s.SUnion(keys[:1]...)
	s.SInter(keys[:1]...)
	before, err := s.GetDBInfo()
	if err != nil {
		t.Fatalf("GetDBInfo failed: %v", err)
	}

	for n := 1; n <= len(keys); n++ {
		union, err := s.SUnion(keys[:n]...)
		if err != nil || len(union) != 1 {
			t.Fatalf("SUnion of %d keys: got %q (err=%v)", n, union, err)
		}
		inter, err := s.SInter(keys[:n]...)
		if err != nil || len(inter) != 1 {
			t.Fatalf("SInter of %d keys: got %q (err=%v)", n, inter, err)
		}
	}

	after, err := s.GetDBInfo()
	if err != nil {
		t.Fatalf("GetDBInfo failed: %v", err)
	}
	if after.CachedStmts != before.CachedStmts {
		t.Errorf("Statement cache grew with the number of keys: %d -> %d", before.CachedStmts, after.CachedStmts)
	}
}

func TestClosedStore(t *testing.T) {
	s := newTestStore(t, false)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	checks := map[string]error{}
	_, checks["incr"] = s.Incr("k")
	_, checks["keys"] = s.Keys("")
	_, checks["sinter"] = s.SInter("a", "b")
	_, checks["bitcount"] = s.BitCount("k")
	_, checks["dbsize"] = s.DBSize()
	checks["flushdb"] = s.FlushDB()
	_, checks["info"] = s.GetDBInfo()

	for op, err := range checks {
		if !errors.Is(err, db.ErrClosed) {
			t.Errorf("%s: expected ErrClosed, got %v", op, err)
		}
	}
}
