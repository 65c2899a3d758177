package store

import (
	"fmt"
	"github.com/ValentinKolb/sqKV/lib/db"
	"io"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() (db.SQLDB, error)

// KeyType is the type of the value stored under a key
type KeyType string

const (
	KeyTypeNone   KeyType = "none"
	KeyTypeString KeyType = "string"
	KeyTypeSet    KeyType = "set"
)

// KV is a key–value pair used by the multi-key string commands
type KV struct {
	Key   string
	Value []byte
}

// IStore is the command interface of the store. It mirrors the string, set and bit
// commands of a Redis client. Missing keys are never an error: reads return an
// absent (ok=false), empty or zero result. Errors are only returned for invalid
// arguments and for failures of the underlying database.
type IStore interface {

	// --------------------------------------------------------------------------
	// String Commands
	// --------------------------------------------------------------------------

	// Get returns the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(key string) (value []byte, ok bool, err error)
	// Set inserts or updates a key–value pair.
	Set(key string, value []byte) (err error)
	// SetNX sets the value only if the key does not exist (neither as string nor as set).
	SetNX(key string, value []byte) (written bool, err error)
	// GetSet stores the new value and returns the previous one.
	GetSet(key string, value []byte) (previous []byte, ok bool, err error)
	// Append appends data to the value (an absent value counts as empty) and returns the new length.
	Append(key string, data []byte) (length int64, err error)
	// StrLen returns the length of the value in bytes, 0 if the key does not exist.
	StrLen(key string) (length int64, err error)
	// GetRange returns the inclusive byte range [start, end]. Negative indices count from the end.
	GetRange(key string, start, end int64) (value []byte, err error)
	// SetRange overwrites the value starting at offset, padding with zero bytes if needed. Returns the new length.
	SetRange(key string, offset int64, data []byte) (length int64, err error)
	// Incr increments the integer value of a key by one. Absent values count as 0.
	Incr(key string) (value int64, err error)
	// IncrBy increments the integer value of a key by amount.
	IncrBy(key string, amount int64) (value int64, err error)
	// Decr decrements the integer value of a key by one.
	Decr(key string) (value int64, err error)
	// DecrBy decrements the integer value of a key by amount.
	DecrBy(key string, amount int64) (value int64, err error)
	// MGet returns the values of all keys. A nil element means the key does not exist.
	MGet(keys ...string) (values [][]byte, err error)
	// MSet sets all pairs in order.
	MSet(pairs ...KV) (err error)
	// MSetNX sets all pairs only if none of the keys exists.
	MSetNX(pairs ...KV) (written bool, err error)

	// --------------------------------------------------------------------------
	// Key Commands
	// --------------------------------------------------------------------------

	// Exists reports whether the key holds a string or at least one set member.
	Exists(key string) (ok bool, err error)
	// Type returns the type of the key. Strings take priority over sets.
	Type(key string) (keyType KeyType, err error)
	// Del deletes the string entry and all set members of a key.
	Del(key string) (deleted bool, err error)
	// Rename moves the value of key to newKey, replacing whatever newKey held.
	Rename(key, newKey string) (err error)
	// RenameNX renames key only if newKey does not exist.
	RenameNX(key, newKey string) (renamed bool, err error)
	// Keys returns all key names matching the regular expression (search semantics).
	// An empty pattern matches every key.
	Keys(pattern string) (keys []string, err error)
	// RandomKey returns a random key name. ok is false if the store is empty.
	RandomKey() (key string, ok bool, err error)
	// DBSize returns the number of distinct keys.
	DBSize() (size int64, err error)
	// FlushDB deletes all keys.
	FlushDB() (err error)

	// --------------------------------------------------------------------------
	// Set Commands
	// --------------------------------------------------------------------------

	// SAdd adds a member to a set. Returns whether the member was added.
	SAdd(key string, member []byte) (added bool, err error)
	// SRem removes a member from a set. Returns whether the member was removed.
	SRem(key string, member []byte) (removed bool, err error)
	// SMembers returns all members of a set (unordered).
	SMembers(key string) (members [][]byte, err error)
	// SIsMember reports whether member is part of the set.
	SIsMember(key string, member []byte) (ok bool, err error)
	// SCard returns the number of members of the set.
	SCard(key string) (count int64, err error)
	// SRandMember returns a random member. ok is false if the set is empty.
	SRandMember(key string) (member []byte, ok bool, err error)
	// SPop removes and returns count random members. Nothing is removed if count exceeds the cardinality.
	SPop(key string, count int64) (members [][]byte, err error)
	// SMove moves member from the set src to the set dst.
	SMove(src, dst string, member []byte) (moved bool, err error)
	// SUnion returns the union of all sets.
	SUnion(keys ...string) (members [][]byte, err error)
	// SInter returns the intersection of all sets.
	SInter(keys ...string) (members [][]byte, err error)
	// SUnionStore stores the union of all sets in dest and returns its cardinality.
	SUnionStore(dest string, keys ...string) (count int64, err error)
	// SInterStore stores the intersection of all sets in dest and returns its cardinality.
	SInterStore(dest string, keys ...string) (count int64, err error)

	// --------------------------------------------------------------------------
	// Bit Commands
	// --------------------------------------------------------------------------

	// BitCount returns the number of set bits in the value.
	BitCount(key string) (count int64, err error)
	// SetBit sets the bit at offset to bit (0 or 1) and returns the previous bit.
	SetBit(key string, offset int64, bit int) (previous int, err error)
	// GetBit returns the bit at offset. Offsets beyond the value read as 0.
	GetBit(key string, offset int64) (bit int, err error)

	// --------------------------------------------------------------------------
	// Connection and Persistence
	// --------------------------------------------------------------------------

	// Ping reports whether the store is still open.
	Ping() (ok bool)
	// Echo returns its argument.
	Echo(value []byte) (echoed []byte)
	// Save writes a dump of the store to w.
	Save(w io.Writer) (err error)
	// Load replaces the contents of the store with a dump read from r.
	Load(r io.Reader) (err error)
	// GetDBInfo returns metadata about the database underlying the store.
	GetDBInfo() (info db.DatabaseInfo, err error)
	// Close closes the underlying database. Every later command fails, Ping returns false.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the error that caused it.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
	Err  error   // The cause (may be nil)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("KVStoreError (code %s): %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("KVStoreError (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the cause of the error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// WrapError creates a new KVStoreError with the given code and message that wraps err.
func WrapError(code RetCode, msg string, err error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  err,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the store.
	RetCInvalidOperation                    // 3: Invalid operation (bad arguments).
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}
