package sqlstore

import (
	"github.com/ValentinKolb/sqKV/lib/db/util"
)

// --------------------------------------------------------------------------
// Bit Commands (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) BitCount(key string) (int64, error) {
	value, _, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	return util.BitCount(value), nil
}

func (s *storeImpl) SetBit(key string, offset int64, bit int) (int, error) {
	if bit != 0 && bit != 1 {
		return 0, invalidOperation("bit is not an integer or out of range")
	}
	if offset < 0 || offset >= maxValueSize*8 {
		return 0, invalidOperation("bit offset is not an integer or out of range")
	}

	value, _, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	updated, previous := util.SetBit(value, offset, bit)
	if err := s.Set(key, updated); err != nil {
		return 0, err
	}
	return previous, nil
}

func (s *storeImpl) GetBit(key string, offset int64) (int, error) {
	if offset < 0 {
		return 0, invalidOperation("bit offset is not an integer or out of range")
	}
	value, _, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	return util.GetBit(value, offset), nil
}
