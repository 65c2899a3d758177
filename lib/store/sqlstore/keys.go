package sqlstore

import (
	"fmt"
	"github.com/ValentinKolb/sqKV/lib/store"
	"regexp"
)

// --------------------------------------------------------------------------
// Key Commands (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Exists(key string) (bool, error) {
	n, err := s.db.QueryInt(qExists, key)
	if err != nil {
		return false, internalError("exists", err)
	}
	return n != 0, nil
}

func (s *storeImpl) Type(key string) (store.KeyType, error) {
	isString, err := s.db.QueryInt(qHasString, key)
	if err != nil {
		return store.KeyTypeNone, internalError("type", err)
	}
	if isString != 0 {
		return store.KeyTypeString, nil
	}

	members, err := s.SCard(key)
	if err != nil {
		return store.KeyTypeNone, err
	}
	if members > 0 {
		return store.KeyTypeSet, nil
	}
	return store.KeyTypeNone, nil
}

func (s *storeImpl) Del(key string) (bool, error) {
	strings, err := s.db.Exec(qDelString, key)
	if err != nil {
		return false, internalError("del", err)
	}
	members, err := s.db.Exec(qDelSet, key)
	if err != nil {
		return false, internalError("del", err)
	}
	return strings+members > 0, nil
}

func (s *storeImpl) Rename(key, newKey string) error {
	if key == newKey {
		return nil
	}

	value, ok, err := s.Get(key)
	if err != nil {
		return err
	}
	if _, err := s.Del(newKey); err != nil {
		return err
	}
	if ok {
		if err := s.Set(newKey, value); err != nil {
			return err
		}
	}
	if _, err := s.db.Exec(qRenameSet, newKey, key); err != nil {
		return internalError("rename", err)
	}
	_, err = s.db.Exec(qDelString, key)
	return internalError("rename", err)
}

func (s *storeImpl) RenameNX(key, newKey string) (bool, error) {
	exists, err := s.Exists(newKey)
	if err != nil || exists {
		return false, err
	}
	if err := s.Rename(key, newKey); err != nil {
		return false, err
	}
	return true, nil
}

func (s *storeImpl) Keys(pattern string) ([]string, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		if re, err = regexp.Compile(pattern); err != nil {
			return nil, invalidOperation(fmt.Sprintf("invalid pattern %q: %v", pattern, err))
		}
	}

	names, err := s.db.QueryColumn(qKeys)
	if err != nil {
		return nil, internalError("keys", err)
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		if re == nil || re.Match(name) {
			keys = append(keys, string(name))
		}
	}
	return keys, nil
}

func (s *storeImpl) RandomKey() (string, bool, error) {
	key, ok, err := s.db.QueryValue(qRandomKey)
	if err != nil {
		return "", false, internalError("randomkey", err)
	}
	return string(key), ok, nil
}

func (s *storeImpl) DBSize() (int64, error) {
	n, err := s.db.QueryInt(qDBSize)
	return n, internalError("dbsize", err)
}

func (s *storeImpl) FlushDB() error {
	if _, err := s.db.Exec(qFlushString); err != nil {
		return internalError("flushdb", err)
	}
	_, err := s.db.Exec(qFlushSets)
	return internalError("flushdb", err)
}
