// Package sqlstore implements the store.IStore interface by translating every command
// into statements on the two-table schema of a db.SQLDB (see the db package).
//
// Key Features:
//   - String commands (GET, SET, INCRBY, APPEND, GETRANGE, SETRANGE, ...) on the string table
//   - Set commands (SADD, SREM, SUNION, SINTER, their STORE variants, ...) on the sets table
//   - Bit commands (BITCOUNT, SETBIT, GETBIT) computed on the stored byte string
//   - Key enumeration with regular expression filtering across both tables
//
// Implementation Details:
//
//   - Membership: A set is the collection of rows in the sets table sharing a key. A set
//     with no rows does not exist. SADD uses a conditional insert so each (key, member)
//     pair is stored at most once, SMOVE deletes instead of re-keying if the destination
//     already holds the member.
//
//   - Namespace: Strings and sets share one key namespace for EXISTS, TYPE, KEYS,
//     RANDOMKEY and DEL. Exclusivity is not enforced: a key may hold a string and
//     set members at the same time, in which case TYPE reports "string".
//
//   - Numbers: INCR and friends coerce the stored value by parsing its leading integer
//     (see util.ParseInt). Absent and non-numeric values count as 0. The result is
//     stored as decimal text.
//
//   - SPOP: Members are popped one by one while the remaining cardinality is at least
//     the remaining count. Requesting more members than the set holds pops nothing.
//
//   - Atomicity: Commands that need several statements (GETSET, APPEND, RENAME,
//     MSETNX, SMOVE, SPOP, S*STORE, SETBIT, ...) issue them one after another without a
//     transaction. The store relies on the database to serialise concurrent writers.
//
// Error Handling:
//
//	Missing keys are not errors. Invalid arguments (negative offsets, bits other than 0/1,
//	invalid patterns, overflowing increments) return a *store.Error with
//	RetCInvalidOperation. Database failures return RetCInternalError wrapping the cause,
//	so errors.Is(err, db.ErrClosed) identifies commands issued after Close.
//
// Usage Example:
//
//	s, err := sqlstore.Open(store.Config{Path: "/tmp/sqkv.db"})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	_ = s.Set("greet", []byte("Hello"))
//	length, _ := s.Append("greet", []byte(", world")) // 12
//	_, _ = s.SAdd("english", []byte("Steve"))
package sqlstore
