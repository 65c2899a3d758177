package sqlstore

import (
	"github.com/ValentinKolb/sqKV/lib/db/util"
	"github.com/ValentinKolb/sqKV/lib/store"
	"math"
)

// maxValueSize limits offsets of SETRANGE and SETBIT (512 MB like Redis)
const maxValueSize = 512 * 1024 * 1024

// --------------------------------------------------------------------------
// String Commands (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) ([]byte, bool, error) {
	value, ok, err := s.db.QueryValue(qGetString, key)
	if err != nil {
		return nil, false, internalError("get", err)
	}
	return value, ok, nil
}

func (s *storeImpl) Set(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.Exec(qSetString, key, value)
	return internalError("set", err)
}

func (s *storeImpl) SetNX(key string, value []byte) (bool, error) {
	exists, err := s.Exists(key)
	if err != nil || exists {
		return false, err
	}
	if err := s.Set(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (s *storeImpl) GetSet(key string, value []byte) ([]byte, bool, error) {
	previous, ok, err := s.Get(key)
	if err != nil {
		return nil, false, err
	}
	if err := s.Set(key, value); err != nil {
		return nil, false, err
	}
	return previous, ok, nil
}

func (s *storeImpl) Append(key string, data []byte) (int64, error) {
	value, _, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	value = append(value, data...)
	if err := s.Set(key, value); err != nil {
		return 0, err
	}
	return int64(len(value)), nil
}

func (s *storeImpl) StrLen(key string) (int64, error) {
	value, _, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	return int64(len(value)), nil
}

func (s *storeImpl) GetRange(key string, start, end int64) ([]byte, error) {
	value, _, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	from, to, ok := util.NormalizeRange(int64(len(value)), start, end)
	if !ok {
		return []byte{}, nil
	}
	return value[from : to+1], nil
}

func (s *storeImpl) SetRange(key string, offset int64, data []byte) (int64, error) {
	if offset < 0 {
		return 0, invalidOperation("offset is out of range")
	}
	if offset+int64(len(data)) > maxValueSize {
		return 0, invalidOperation("string exceeds maximum allowed size")
	}

	value, ok, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	// an empty write to a missing key does not create it
	if !ok && len(data) == 0 {
		return 0, nil
	}

	value = util.OverwriteAt(value, offset, data)
	if err := s.Set(key, value); err != nil {
		return 0, err
	}
	return int64(len(value)), nil
}

func (s *storeImpl) Incr(key string) (int64, error) {
	return s.IncrBy(key, 1)
}

func (s *storeImpl) IncrBy(key string, amount int64) (int64, error) {
	value, _, err := s.Get(key)
	if err != nil {
		return 0, err
	}

	current := util.ParseInt(value)
	if (amount > 0 && current > math.MaxInt64-amount) || (amount < 0 && current < math.MinInt64-amount) {
		return 0, invalidOperation("increment or decrement would overflow")
	}

	current += amount
	if err := s.Set(key, util.FormatInt(current)); err != nil {
		return 0, err
	}
	return current, nil
}

func (s *storeImpl) Decr(key string) (int64, error) {
	return s.IncrBy(key, -1)
}

func (s *storeImpl) DecrBy(key string, amount int64) (int64, error) {
	if amount == math.MinInt64 {
		return 0, invalidOperation("decrement would overflow")
	}
	return s.IncrBy(key, -amount)
}

func (s *storeImpl) MGet(keys ...string) ([][]byte, error) {
	values := make([][]byte, len(keys))
	for i, key := range keys {
		value, ok, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if ok {
			values[i] = value
		}
	}
	return values, nil
}

func (s *storeImpl) MSet(pairs ...store.KV) error {
	for _, pair := range pairs {
		if err := s.Set(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *storeImpl) MSetNX(pairs ...store.KV) (bool, error) {
	for _, pair := range pairs {
		exists, err := s.Exists(pair.Key)
		if err != nil || exists {
			return false, err
		}
	}
	if err := s.MSet(pairs...); err != nil {
		return false, err
	}
	return true, nil
}
