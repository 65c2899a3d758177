package testing

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/ValentinKolb/sqKV/lib/db"
	"github.com/ValentinKolb/sqKV/lib/store"
	"sort"
	"testing"
)

// StoreFactory is a function that creates a new, empty instance of an IStore implementation
type StoreFactory func(tb testing.TB) store.IStore

// RunStoreTests runs a comprehensive test suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("MissingKeys", func(t *testing.T) {
			testMissingKeys(t, factory(t))
		})

		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory(t))
		})

		t.Run("SetNX&GetSet", func(t *testing.T) {
			testSetNXGetSet(t, factory(t))
		})

		t.Run("Append&StrLen", func(t *testing.T) {
			testAppendStrLen(t, factory(t))
		})

		t.Run("GetRange&SetRange", func(t *testing.T) {
			testRanges(t, factory(t))
		})

		t.Run("IncrDecr", func(t *testing.T) {
			testIncrDecr(t, factory(t))
		})

		t.Run("MultiKey", func(t *testing.T) {
			testMultiKey(t, factory(t))
		})

		t.Run("Rename", func(t *testing.T) {
			testRename(t, factory(t))
		})

		t.Run("ExistsType&Del", func(t *testing.T) {
			testExistsTypeDel(t, factory(t))
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory(t))
		})

		t.Run("RandomKey&DBSize", func(t *testing.T) {
			testRandomKeyDBSize(t, factory(t))
		})

		t.Run("SetMembership", func(t *testing.T) {
			testSetMembership(t, factory(t))
		})

		t.Run("SetRandom", func(t *testing.T) {
			testSetRandom(t, factory(t))
		})

		t.Run("SMove", func(t *testing.T) {
			testSMove(t, factory(t))
		})

		t.Run("SetAlgebra", func(t *testing.T) {
			testSetAlgebra(t, factory(t))
		})

		t.Run("Bits", func(t *testing.T) {
			testBits(t, factory(t))
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})

		t.Run("Connection", func(t *testing.T) {
			testConnection(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// must fails the test immediately if err is not nil
func must(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// sorted converts members to strings and sorts them
func sorted(members [][]byte) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = string(m)
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func addMembers(t testing.TB, s store.IStore, key string, members ...string) {
	t.Helper()
	for _, m := range members {
		_, err := s.SAdd(key, []byte(m))
		must(t, err)
	}
}

// requireCode checks that err is a *store.Error with the given code
func requireCode(t testing.TB, err error, code store.RetCode) {
	t.Helper()
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Errorf("Expected *store.Error with code %s, got %v", code, err)
		return
	}
	if storeErr.Code != code {
		t.Errorf("Expected code %s, got %s (%v)", code, storeErr.Code, err)
	}
}

// --------------------------------------------------------------------------
// Test functions - strings
// --------------------------------------------------------------------------

func testMissingKeys(t *testing.T, s store.IStore) {
	defer s.Close()

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("never-set-%d", i)

		_, ok, err := s.Get(key)
		must(t, err)
		if ok {
			t.Errorf("Expected %s to be absent", key)
		}

		exists, err := s.Exists(key)
		must(t, err)
		if exists {
			t.Errorf("Expected %s to not exist", key)
		}
	}

	length, err := s.StrLen("missing")
	must(t, err)
	if length != 0 {
		t.Errorf("Expected StrLen of missing key to be 0, got %d", length)
	}

	keyType, err := s.Type("missing")
	must(t, err)
	if keyType != store.KeyTypeNone {
		t.Errorf("Expected type none, got %s", keyType)
	}

	members, err := s.SMembers("missing")
	must(t, err)
	if len(members) != 0 {
		t.Errorf("Expected no members, got %q", members)
	}

	deleted, err := s.Del("missing")
	must(t, err)
	if deleted {
		t.Errorf("Del of missing key should report false")
	}
}

func testSetGet(t *testing.T, s store.IStore) {
	defer s.Close()

	values := map[string][]byte{
		"text":   []byte("test-value"),
		"empty":  {},
		"binary": {0x00, 0x01, 0xff, 0x00, 0x7f},
		"utf8":   []byte("größe ✓"),
	}

	for key, value := range values {
		must(t, s.Set(key, value))

		result, ok, err := s.Get(key)
		must(t, err)
		if !ok {
			t.Errorf("Expected key %s to exist after Set", key)
		}
		if !bytes.Equal(result, value) {
			t.Errorf("Expected value %q for %s, got %q", value, key, result)
		}
	}

	// overwrite in place
	must(t, s.Set("text", []byte("updated-value")))
	result, _, err := s.Get("text")
	must(t, err)
	if string(result) != "updated-value" {
		t.Errorf("Expected updated value, got %q", result)
	}

	// returned values are copies
	result[0] = 'X'
	again, _, err := s.Get("text")
	must(t, err)
	if string(again) != "updated-value" {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}
}

func testSetNXGetSet(t *testing.T, s store.IStore) {
	defer s.Close()

	written, err := s.SetNX("nx", []byte("first"))
	must(t, err)
	if !written {
		t.Errorf("SetNX on missing key should write")
	}

	written, err = s.SetNX("nx", []byte("second"))
	must(t, err)
	if written {
		t.Errorf("SetNX on existing key should not write")
	}
	value, _, err := s.Get("nx")
	must(t, err)
	if string(value) != "first" {
		t.Errorf("Expected first, got %q", value)
	}

	// sets count as existing keys
	addMembers(t, s, "nx-set", "a")
	written, err = s.SetNX("nx-set", []byte("x"))
	must(t, err)
	if written {
		t.Errorf("SetNX should respect set keys")
	}

	previous, ok, err := s.GetSet("gs", []byte("one"))
	must(t, err)
	if ok || previous != nil {
		t.Errorf("GetSet on missing key should return absent, got %q", previous)
	}
	previous, ok, err = s.GetSet("gs", []byte("two"))
	must(t, err)
	if !ok || string(previous) != "one" {
		t.Errorf("Expected previous value one, got %q (ok=%t)", previous, ok)
	}
	value, _, err = s.Get("gs")
	must(t, err)
	if string(value) != "two" {
		t.Errorf("Expected two, got %q", value)
	}
}

func testAppendStrLen(t *testing.T, s store.IStore) {
	defer s.Close()

	length, err := s.Append("greet", []byte("Hello"))
	must(t, err)
	if length != 5 {
		t.Errorf("Expected length 5, got %d", length)
	}
	length, err = s.Append("greet", []byte(", world"))
	must(t, err)
	if length != 12 {
		t.Errorf("Expected length 12, got %d", length)
	}

	value, _, err := s.Get("greet")
	must(t, err)
	if string(value) != "Hello, world" {
		t.Errorf("Expected 'Hello, world', got %q", value)
	}

	length, err = s.StrLen("greet")
	must(t, err)
	if length != 12 {
		t.Errorf("Expected StrLen 12, got %d", length)
	}
}

func testRanges(t *testing.T, s store.IStore) {
	defer s.Close()

	must(t, s.Set("msg", []byte("This is a string")))

	cases := []struct {
		start, end int64
		expected   string
	}{
		{0, 3, "This"},
		{-3, -1, "ing"},
		{0, -1, "This is a string"},
		{10, 100, "string"},
		{5, 2, ""},
		{-100, 3, "This"},
	}
	for _, c := range cases {
		value, err := s.GetRange("msg", c.start, c.end)
		must(t, err)
		if string(value) != c.expected {
			t.Errorf("GetRange(%d, %d) = %q, expected %q", c.start, c.end, value, c.expected)
		}
	}

	value, err := s.GetRange("missing", 0, -1)
	must(t, err)
	if len(value) != 0 {
		t.Errorf("GetRange of missing key should be empty, got %q", value)
	}

	must(t, s.Set("key1", []byte("Hello World")))
	length, err := s.SetRange("key1", 6, []byte("Redis"))
	must(t, err)
	if length != 11 {
		t.Errorf("Expected length 11, got %d", length)
	}
	result, _, err := s.Get("key1")
	must(t, err)
	if string(result) != "Hello Redis" {
		t.Errorf("Expected 'Hello Redis', got %q", result)
	}

	// zero padding
	length, err = s.SetRange("key2", 6, []byte("Redis"))
	must(t, err)
	if length != 11 {
		t.Errorf("Expected length 11, got %d", length)
	}
	result, _, err = s.Get("key2")
	must(t, err)
	if !bytes.Equal(result, append(make([]byte, 6), "Redis"...)) {
		t.Errorf("Expected zero padded value, got %q", result)
	}

	_, err = s.SetRange("key1", -1, []byte("x"))
	requireCode(t, err, store.RetCInvalidOperation)
}

func testIncrDecr(t *testing.T, s store.IStore) {
	defer s.Close()

	value, err := s.Incr("counter")
	must(t, err)
	if value != 1 {
		t.Errorf("Incr of absent key should yield 1, got %d", value)
	}
	for i := 2; i <= 10; i++ {
		value, err = s.Incr("counter")
		must(t, err)
	}
	if value != 10 {
		t.Errorf("Expected 10 after ten increments, got %d", value)
	}

	stored, _, err := s.Get("counter")
	must(t, err)
	if string(stored) != "10" {
		t.Errorf("Expected counter stored as text 10, got %q", stored)
	}

	must(t, s.Set("down", []byte("26")))
	for i := 0; i < 5; i++ {
		value, err = s.DecrBy("down", 4)
		must(t, err)
	}
	if value != 6 {
		t.Errorf("Expected 6 after 5 x decrby 4 from 26, got %d", value)
	}

	value, err = s.Decr("fresh")
	must(t, err)
	if value != -1 {
		t.Errorf("Decr of absent key should yield -1, got %d", value)
	}

	value, err = s.IncrBy("fresh", 11)
	must(t, err)
	if value != 10 {
		t.Errorf("Expected 10, got %d", value)
	}

	// coercion of non numeric values
	must(t, s.Set("text", []byte("abc")))
	value, err = s.Incr("text")
	must(t, err)
	if value != 1 {
		t.Errorf("Non numeric value should count as 0, got %d", value)
	}

	must(t, s.Set("max", []byte("9223372036854775807")))
	_, err = s.Incr("max")
	requireCode(t, err, store.RetCInvalidOperation)
}

func testMultiKey(t *testing.T, s store.IStore) {
	defer s.Close()

	must(t, s.MSet(
		store.KV{Key: "a", Value: []byte("1")},
		store.KV{Key: "b", Value: []byte("2")},
		store.KV{Key: "c", Value: []byte{}},
	))

	values, err := s.MGet("a", "missing", "b", "c")
	must(t, err)
	if len(values) != 4 {
		t.Fatalf("Expected 4 values, got %d", len(values))
	}
	if string(values[0]) != "1" || values[1] != nil || string(values[2]) != "2" {
		t.Errorf("Unexpected MGet result %q", values)
	}
	if values[3] == nil || len(values[3]) != 0 {
		t.Errorf("Empty value should be non-nil, got %v", values[3])
	}

	written, err := s.MSetNX(
		store.KV{Key: "x", Value: []byte("x")},
		store.KV{Key: "a", Value: []byte("changed")},
	)
	must(t, err)
	if written {
		t.Errorf("MSetNX should refuse when any key exists")
	}
	if exists, _ := s.Exists("x"); exists {
		t.Errorf("MSetNX must not write anything when refusing")
	}
	value, _, _ := s.Get("a")
	if string(value) != "1" {
		t.Errorf("MSetNX must not modify existing keys, got %q", value)
	}

	written, err = s.MSetNX(
		store.KV{Key: "x", Value: []byte("x")},
		store.KV{Key: "y", Value: []byte("y")},
	)
	must(t, err)
	if !written {
		t.Errorf("MSetNX should write when no key exists")
	}
	values, err = s.MGet("x", "y")
	must(t, err)
	if string(values[0]) != "x" || string(values[1]) != "y" {
		t.Errorf("Unexpected values after MSetNX: %q", values)
	}
}

func testRename(t *testing.T, s store.IStore) {
	defer s.Close()

	must(t, s.Set("old", []byte("value")))
	must(t, s.Set("target", []byte("replaced")))

	must(t, s.Rename("old", "target"))
	if exists, _ := s.Exists("old"); exists {
		t.Errorf("Source should not exist after rename")
	}
	value, _, err := s.Get("target")
	must(t, err)
	if string(value) != "value" {
		t.Errorf("Expected renamed value, got %q", value)
	}

	// renaming a key to itself keeps it
	must(t, s.Rename("target", "target"))
	if exists, _ := s.Exists("target"); !exists {
		t.Errorf("Renaming a key to itself must keep the key")
	}

	// sets are renamed as well
	addMembers(t, s, "myset", "a", "b")
	must(t, s.Rename("myset", "newset"))
	n, err := s.SCard("newset")
	must(t, err)
	if n != 2 {
		t.Errorf("Expected renamed set with 2 members, got %d", n)
	}
	if exists, _ := s.Exists("myset"); exists {
		t.Errorf("Old set should not exist after rename")
	}

	must(t, s.Set("k", []byte("kv")))
	must(t, s.Set("existing", []byte("ev")))
	renamed, err := s.RenameNX("k", "existing")
	must(t, err)
	if renamed {
		t.Errorf("RenameNX onto existing key should fail")
	}
	kv, _, _ := s.Get("k")
	ev, _, _ := s.Get("existing")
	if string(kv) != "kv" || string(ev) != "ev" {
		t.Errorf("RenameNX must not change values, got %q and %q", kv, ev)
	}

	renamed, err = s.RenameNX("k", "fresh")
	must(t, err)
	if !renamed {
		t.Errorf("RenameNX onto missing key should succeed")
	}
	value, _, _ = s.Get("fresh")
	if string(value) != "kv" {
		t.Errorf("Expected kv, got %q", value)
	}
}

func testExistsTypeDel(t *testing.T, s store.IStore) {
	defer s.Close()

	must(t, s.Set("str", []byte("v")))
	addMembers(t, s, "set", "m")

	for key, expected := range map[string]store.KeyType{
		"str":     store.KeyTypeString,
		"set":     store.KeyTypeSet,
		"missing": store.KeyTypeNone,
	} {
		keyType, err := s.Type(key)
		must(t, err)
		if keyType != expected {
			t.Errorf("Type(%s) = %s, expected %s", key, keyType, expected)
		}
	}

	for _, key := range []string{"str", "set"} {
		exists, err := s.Exists(key)
		must(t, err)
		if !exists {
			t.Errorf("Expected %s to exist", key)
		}

		deleted, err := s.Del(key)
		must(t, err)
		if !deleted {
			t.Errorf("Expected Del(%s) to report true", key)
		}

		exists, err = s.Exists(key)
		must(t, err)
		if exists {
			t.Errorf("Expected %s to be gone after Del", key)
		}
	}

	// strings win if a key collides in both tables
	must(t, s.Set("both", []byte("v")))
	addMembers(t, s, "both", "m")
	keyType, err := s.Type("both")
	must(t, err)
	if keyType != store.KeyTypeString {
		t.Errorf("Expected string to take priority, got %s", keyType)
	}
}

func testKeys(t *testing.T, s store.IStore) {
	defer s.Close()

	for _, key := range []string{"foo", "bar", "baz", "bart", "bort"} {
		must(t, s.Set(key, []byte(key)))
	}
	addMembers(t, s, "bark", "woof", "wuff")

	all, err := s.Keys("")
	must(t, err)
	sort.Strings(all)
	if !equalStrings(all, []string{"bar", "bark", "bart", "baz", "bort", "foo"}) {
		t.Errorf("Unexpected key list %v", all)
	}

	keys, err := s.Keys("^ba")
	must(t, err)
	sort.Strings(keys)
	if !equalStrings(keys, []string{"bar", "bark", "bart", "baz"}) {
		t.Errorf("Expected 4 keys for ^ba, got %v", keys)
	}

	keys, err = s.Keys("oo$")
	must(t, err)
	if !equalStrings(keys, []string{"foo"}) {
		t.Errorf("Expected [foo] for oo$, got %v", keys)
	}

	// substring search semantics
	keys, err = s.Keys("ar")
	must(t, err)
	if len(keys) != 3 {
		t.Errorf("Expected 3 keys containing 'ar', got %v", keys)
	}

	_, err = s.Keys("([")
	requireCode(t, err, store.RetCInvalidOperation)
}

func testRandomKeyDBSize(t *testing.T, s store.IStore) {
	defer s.Close()

	_, ok, err := s.RandomKey()
	must(t, err)
	if ok {
		t.Errorf("RandomKey of empty store should report absent")
	}

	expected := map[string]bool{"a": true, "b": true, "s": true}
	must(t, s.Set("a", []byte("1")))
	must(t, s.Set("b", []byte("2")))
	addMembers(t, s, "s", "x", "y")

	for i := 0; i < 20; i++ {
		key, ok, err := s.RandomKey()
		must(t, err)
		if !ok || !expected[key] {
			t.Errorf("Unexpected random key %q (ok=%t)", key, ok)
		}
	}

	size, err := s.DBSize()
	must(t, err)
	if size != 3 {
		t.Errorf("Expected DBSize 3, got %d", size)
	}

	must(t, s.FlushDB())
	size, err = s.DBSize()
	must(t, err)
	if size != 0 {
		t.Errorf("Expected empty store after FlushDB, got %d keys", size)
	}
}

// --------------------------------------------------------------------------
// Test functions - sets
// --------------------------------------------------------------------------

func testSetMembership(t *testing.T, s store.IStore) {
	defer s.Close()

	added, err := s.SAdd("s", []byte("member"))
	must(t, err)
	if !added {
		t.Errorf("First SAdd should add the member")
	}
	added, err = s.SAdd("s", []byte("member"))
	must(t, err)
	if added {
		t.Errorf("Second SAdd of the same member should be a no-op")
	}

	n, err := s.SCard("s")
	must(t, err)
	if n != 1 {
		t.Errorf("Expected cardinality 1, got %d", n)
	}

	addMembers(t, s, "s", "other", "third")
	members, err := s.SMembers("s")
	must(t, err)
	if !equalStrings(sorted(members), []string{"member", "other", "third"}) {
		t.Errorf("Unexpected members %q", members)
	}

	ok, err := s.SIsMember("s", []byte("other"))
	must(t, err)
	if !ok {
		t.Errorf("Expected other to be a member")
	}
	ok, err = s.SIsMember("s", []byte("nope"))
	must(t, err)
	if ok {
		t.Errorf("Expected nope to not be a member")
	}

	removed, err := s.SRem("s", []byte("other"))
	must(t, err)
	if !removed {
		t.Errorf("SRem of existing member should report true")
	}
	removed, err = s.SRem("s", []byte("other"))
	must(t, err)
	if removed {
		t.Errorf("SRem of missing member should report false")
	}

	// binary members
	added, err = s.SAdd("bin", []byte{0x00, 0xff})
	must(t, err)
	ok, err = s.SIsMember("bin", []byte{0x00, 0xff})
	must(t, err)
	if !added || !ok {
		t.Errorf("Binary members should be supported")
	}

	// nil and empty members are the same member
	added, err = s.SAdd("empty", nil)
	must(t, err)
	if !added {
		t.Errorf("SAdd of a nil member should add the empty member")
	}
	added, err = s.SAdd("empty", []byte{})
	must(t, err)
	if added {
		t.Errorf("Empty member should already be present after adding nil")
	}
	for _, m := range [][]byte{nil, {}} {
		ok, err = s.SIsMember("empty", m)
		must(t, err)
		if !ok {
			t.Errorf("SIsMember(%v) should find the empty member", m)
		}
	}

	moved, err := s.SMove("empty", "empty-dst", nil)
	must(t, err)
	if !moved {
		t.Errorf("SMove of a nil member should move the empty member")
	}
	ok, err = s.SIsMember("empty-dst", []byte{})
	must(t, err)
	if !ok {
		t.Errorf("Expected the empty member in the destination set")
	}

	removed, err = s.SRem("empty-dst", nil)
	must(t, err)
	if !removed {
		t.Errorf("SRem of a nil member should remove the empty member")
	}
	n, err = s.SCard("empty-dst")
	must(t, err)
	if n != 0 {
		t.Errorf("Expected empty destination set, got cardinality %d", n)
	}
}

func testSetRandom(t *testing.T, s store.IStore) {
	defer s.Close()

	_, ok, err := s.SRandMember("empty")
	must(t, err)
	if ok {
		t.Errorf("SRandMember of empty set should report absent")
	}

	addMembers(t, s, "s", "a", "b", "c")
	for i := 0; i < 10; i++ {
		member, ok, err := s.SRandMember("s")
		must(t, err)
		if !ok {
			t.Fatalf("Expected a random member")
		}
		if m := string(member); m != "a" && m != "b" && m != "c" {
			t.Errorf("Unexpected random member %q", m)
		}
	}

	// asking for more members than present pops nothing
	popped, err := s.SPop("s", 4)
	must(t, err)
	if len(popped) != 0 {
		t.Errorf("Expected nothing popped, got %q", popped)
	}

	popped, err = s.SPop("s", 1)
	must(t, err)
	if len(popped) != 1 {
		t.Fatalf("Expected one popped member, got %q", popped)
	}
	if ok, _ := s.SIsMember("s", popped[0]); ok {
		t.Errorf("Popped member should be removed")
	}

	popped, err = s.SPop("s", 2)
	must(t, err)
	if len(popped) != 2 {
		t.Errorf("Expected two popped members, got %q", popped)
	}
	n, err := s.SCard("s")
	must(t, err)
	if n != 0 {
		t.Errorf("Expected empty set, got cardinality %d", n)
	}

	popped, err = s.SPop("s", 1)
	must(t, err)
	if len(popped) != 0 {
		t.Errorf("Popping from empty set should return nothing, got %q", popped)
	}
}

func testSMove(t *testing.T, s store.IStore) {
	defer s.Close()

	addMembers(t, s, "src", "a", "b")
	addMembers(t, s, "dst", "b")

	moved, err := s.SMove("src", "dst", []byte("a"))
	must(t, err)
	if !moved {
		t.Errorf("Expected SMove of existing member to report true")
	}

	// member already in destination: no duplicate row
	moved, err = s.SMove("src", "dst", []byte("b"))
	must(t, err)
	if !moved {
		t.Errorf("Expected SMove to report true when destination holds the member")
	}

	moved, err = s.SMove("src", "dst", []byte("missing"))
	must(t, err)
	if moved {
		t.Errorf("SMove of missing member should report false")
	}

	n, _ := s.SCard("dst")
	if n != 2 {
		t.Errorf("Expected destination cardinality 2, got %d", n)
	}
	n, _ = s.SCard("src")
	if n != 0 {
		t.Errorf("Expected empty source, got cardinality %d", n)
	}
}

func testSetAlgebra(t *testing.T, s store.IStore) {
	defer s.Close()

	addMembers(t, s, "english", "Steve", "Paul", "Micheal")
	addMembers(t, s, "finnish", "Kirsi", "My", "Jari")
	addMembers(t, s, "people", "Steve", "Kirsi", "Nobody")

	union, err := s.SUnion("english", "finnish")
	must(t, err)
	if len(union) != 6 {
		t.Errorf("Expected union of 6 members, got %q", union)
	}

	union, err = s.SUnion("english", "people")
	must(t, err)
	if len(union) != 5 {
		t.Errorf("Expected deduplicated union of 5 members, got %q", union)
	}

	inter, err := s.SInter("english", "people")
	must(t, err)
	if !equalStrings(sorted(inter), []string{"Steve"}) {
		t.Errorf("Expected intersection [Steve], got %q", inter)
	}

	inter, err = s.SInter("english", "finnish")
	must(t, err)
	if len(inter) != 0 {
		t.Errorf("Expected empty intersection, got %q", inter)
	}

	// duplicate keys do not change the result
	inter, err = s.SInter("english", "english")
	must(t, err)
	if len(inter) != 3 {
		t.Errorf("Expected the set itself, got %q", inter)
	}

	before, err := s.Keys("")
	must(t, err)

	count, err := s.SUnionStore("all", "english", "finnish")
	must(t, err)
	if count != 6 {
		t.Errorf("Expected SUnionStore to store 6 members, got %d", count)
	}
	n, _ := s.SCard("all")
	if n != 6 {
		t.Errorf("Expected cardinality 6, got %d", n)
	}

	after, err := s.Keys("")
	must(t, err)
	if len(after) != len(before)+1 {
		t.Errorf("Expected exactly one new key, got %d -> %d", len(before), len(after))
	}

	// storing again overwrites and adds no key
	count, err = s.SUnionStore("all", "english")
	must(t, err)
	if count != 3 {
		t.Errorf("Expected 3 members, got %d", count)
	}
	after, _ = s.Keys("")
	if len(after) != len(before)+1 {
		t.Errorf("Overwriting dest must not add keys")
	}

	count, err = s.SInterStore("common", "english", "people")
	must(t, err)
	if count != 1 {
		t.Errorf("Expected SInterStore to store 1 member, got %d", count)
	}
	ok, _ := s.SIsMember("common", []byte("Steve"))
	if !ok {
		t.Errorf("Expected Steve in common")
	}

	// dest may be one of the sources
	count, err = s.SUnionStore("english", "english", "finnish")
	must(t, err)
	if count != 6 {
		t.Errorf("Expected 6 members when dest is a source, got %d", count)
	}
}

// --------------------------------------------------------------------------
// Test functions - bits
// --------------------------------------------------------------------------

func testBits(t *testing.T, s store.IStore) {
	defer s.Close()

	for value, expected := range map[string]int64{
		"foobar":             26,
		" ":                  1,
		string([]byte{0xff}): 8,
		string([]byte{0x00}): 0,
	} {
		must(t, s.Set("bits", []byte(value)))
		count, err := s.BitCount("bits")
		must(t, err)
		if count != expected {
			t.Errorf("BitCount(%q) = %d, expected %d", value, count, expected)
		}
	}

	count, err := s.BitCount("missing")
	must(t, err)
	if count != 0 {
		t.Errorf("BitCount of missing key should be 0, got %d", count)
	}

	previous, err := s.SetBit("bitmap", 7, 1)
	must(t, err)
	if previous != 0 {
		t.Errorf("Expected previous bit 0, got %d", previous)
	}
	value, _, err := s.Get("bitmap")
	must(t, err)
	if !bytes.Equal(value, []byte{0x01}) {
		t.Errorf("Expected 0x01, got %x", value)
	}

	_, err = s.SetBit("bitmap", 100, 1)
	must(t, err)
	length, _ := s.StrLen("bitmap")
	if length != 13 {
		t.Errorf("Expected value to be extended to 13 bytes, got %d", length)
	}

	for offset, expected := range map[int64]int{0: 0, 7: 1, 100: 1, 99: 0, 10000: 0} {
		bit, err := s.GetBit("bitmap", offset)
		must(t, err)
		if bit != expected {
			t.Errorf("GetBit(%d) = %d, expected %d", offset, bit, expected)
		}
	}

	previous, err = s.SetBit("bitmap", 7, 0)
	must(t, err)
	if previous != 1 {
		t.Errorf("Expected previous bit 1, got %d", previous)
	}

	_, err = s.SetBit("bitmap", 0, 2)
	requireCode(t, err, store.RetCInvalidOperation)
	_, err = s.SetBit("bitmap", -1, 1)
	requireCode(t, err, store.RetCInvalidOperation)
}

// --------------------------------------------------------------------------
// Test functions - persistence and connection
// --------------------------------------------------------------------------

func testSaveLoad(t *testing.T, factory StoreFactory) {
	source := factory(t)
	target := factory(t)

	// close the stores after the test
	defer source.Close()
	defer target.Close()

	numEntries := 100
	for i := 0; i < numEntries; i++ {
		must(t, source.Set(fmt.Sprintf("key-%d", i), []byte(fmt.Sprintf("value-%d", i))))
	}
	addMembers(t, source, "english", "Steve", "Paul", "Micheal")

	var buf bytes.Buffer
	must(t, source.Save(&buf))
	must(t, target.Load(&buf))

	for i := 0; i < numEntries; i++ {
		value, ok, err := target.Get(fmt.Sprintf("key-%d", i))
		must(t, err)
		if !ok || string(value) != fmt.Sprintf("value-%d", i) {
			t.Errorf("Entry %d not restored, got %q", i, value)
		}
	}
	members, err := target.SMembers("english")
	must(t, err)
	if !equalStrings(sorted(members), []string{"Micheal", "Paul", "Steve"}) {
		t.Errorf("Set not restored, got %q", members)
	}
}

func testConnection(t *testing.T, s store.IStore) {
	if !s.Ping() {
		t.Fatalf("Expected open store to answer Ping")
	}
	if string(s.Echo([]byte("hello"))) != "hello" {
		t.Errorf("Echo should return its argument")
	}

	must(t, s.Close())

	if s.Ping() {
		t.Errorf("Expected closed store to not answer Ping")
	}

	// every command fails after close
	if _, _, err := s.Get("key"); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Expected ErrClosed from Get, got %v", err)
	}
	if err := s.Set("key", []byte("v")); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Expected ErrClosed from Set, got %v", err)
	}
	if _, err := s.SAdd("key", []byte("v")); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Expected ErrClosed from SAdd, got %v", err)
	}
	requireCode(t, s.Set("key", []byte("v")), store.RetCInternalError)

	// closing twice is fine
	must(t, s.Close())
}
