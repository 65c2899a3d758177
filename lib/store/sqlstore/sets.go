package sqlstore

// --------------------------------------------------------------------------
// Set Commands (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) SAdd(key string, m []byte) (bool, error) {
	// the insert only happens if the pair does not exist yet
	affected, err := s.db.Exec(qSAdd, key, normalizeMember(m))
	if err != nil {
		return false, internalError("sadd", err)
	}
	return affected > 0, nil
}

func (s *storeImpl) SRem(key string, m []byte) (bool, error) {
	affected, err := s.db.Exec(qSRem, key, normalizeMember(m))
	if err != nil {
		return false, internalError("srem", err)
	}
	return affected > 0, nil
}

func (s *storeImpl) SMembers(key string) ([][]byte, error) {
	members, err := s.db.QueryColumn(qSMembers, key)
	return members, internalError("smembers", err)
}

func (s *storeImpl) SIsMember(key string, m []byte) (bool, error) {
	n, err := s.db.QueryInt(qSIsMember, key, normalizeMember(m))
	if err != nil {
		return false, internalError("sismember", err)
	}
	return n != 0, nil
}

func (s *storeImpl) SCard(key string) (int64, error) {
	n, err := s.db.QueryInt(qSCard, key)
	return n, internalError("scard", err)
}

func (s *storeImpl) SRandMember(key string) ([]byte, bool, error) {
	member, ok, err := s.db.QueryValue(qSRandMember, key)
	if err != nil {
		return nil, false, internalError("srandmember", err)
	}
	return member, ok, nil
}

// SPop keeps popping while the remaining cardinality covers the remaining count.
// Asking for more members than the set holds therefore pops nothing.
func (s *storeImpl) SPop(key string, count int64) ([][]byte, error) {
	remaining, err := s.SCard(key)
	if err != nil {
		return nil, err
	}

	if count > remaining {
		Logger.Debugf("spop %s: %d members requested but only %d present, nothing popped", key, count, remaining)
	}

	members := make([][]byte, 0)
	for count > 0 && count <= remaining {
		member, ok, err := s.SRandMember(key)
		if err != nil {
			return members, err
		}
		if !ok {
			break
		}
		if _, err := s.SRem(key, member); err != nil {
			return members, err
		}
		members = append(members, member)
		count--
		remaining--
	}
	return members, nil
}

func (s *storeImpl) SMove(src, dst string, m []byte) (bool, error) {
	m = normalizeMember(m)
	if src == dst {
		return s.SIsMember(src, m)
	}

	// re-keying would duplicate the pair if dst already holds the member
	present, err := s.SIsMember(dst, m)
	if err != nil {
		return false, err
	}
	if present {
		return s.SRem(src, m)
	}

	affected, err := s.db.Exec(qSMove, dst, src, m)
	if err != nil {
		return false, internalError("smove", err)
	}
	return affected > 0, nil
}

func (s *storeImpl) SUnion(keys ...string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}
	list, _, err := keyList(keys)
	if err != nil {
		return nil, internalError("sunion", err)
	}

	members, err := s.db.QueryColumn(qSUnion, list)
	return members, internalError("sunion", err)
}

// SInter returns the members whose rows appear under every one of the (distinct) keys
func (s *storeImpl) SInter(keys ...string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}
	list, distinct, err := keyList(keys)
	if err != nil {
		return nil, internalError("sinter", err)
	}

	members, err := s.db.QueryColumn(qSInter, list, distinct)
	return members, internalError("sinter", err)
}

func (s *storeImpl) SUnionStore(dest string, keys ...string) (int64, error) {
	members, err := s.SUnion(keys...)
	if err != nil {
		return 0, err
	}
	return s.store(dest, members)
}

func (s *storeImpl) SInterStore(dest string, keys ...string) (int64, error) {
	members, err := s.SInter(keys...)
	if err != nil {
		return 0, err
	}
	return s.store(dest, members)
}

// store replaces dest with a set holding exactly members
func (s *storeImpl) store(dest string, members [][]byte) (int64, error) {
	if _, err := s.Del(dest); err != nil {
		return 0, err
	}
	for _, member := range members {
		if _, err := s.SAdd(dest, member); err != nil {
			return 0, err
		}
	}
	return int64(len(members)), nil
}
