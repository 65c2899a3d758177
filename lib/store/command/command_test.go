package command

import (
	"errors"
	"github.com/ValentinKolb/sqKV/lib/db"
	"github.com/ValentinKolb/sqKV/lib/store"
	"github.com/ValentinKolb/sqKV/lib/store/sqlstore"
	"github.com/VictoriaMetrics/metrics"
	"path/filepath"
	"sort"
	"testing"
)

func newTestStore(t *testing.T) store.IStore {
	t.Helper()
	s, err := sqlstore.Open(store.Config{Path: filepath.Join(t.TempDir(), "command.db")})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// run dispatches a command given as strings and fails on error
func run(t *testing.T, s store.IStore, name string, args ...string) Reply {
	t.Helper()
	raw := make([][]byte, len(args))
	for i, arg := range args {
		raw[i] = []byte(arg)
	}
	reply, err := Dispatch(s, name, raw...)
	if err != nil {
		t.Fatalf("%s %v failed: %v", name, args, err)
	}
	return reply
}

func requireCode(t *testing.T, err error, code store.RetCode) {
	t.Helper()
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("Expected *store.Error with code %s, got %v", code, err)
	}
	if storeErr.Code != code {
		t.Errorf("Expected code %s, got %s", code, storeErr.Code)
	}
}

func TestParseCommandType(t *testing.T) {
	tests := []struct {
		name     string
		expected CommandType
		ok       bool
	}{
		{"get", CommandTGet, true},
		{"GET", CommandTGet, true},
		{" SUnionStore ", CommandTSUnionStore, true},
		{"quit", CommandTClose, true},
		{"SHUTDOWN", CommandTClose, true},
		{"close", CommandTClose, true},
		{"hset", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ok := ParseCommandType(tt.name)
			if ok != tt.ok {
				t.Fatalf("ParseCommandType(%q) ok = %t, want %t", tt.name, ok, tt.ok)
			}
			if ok && ct != tt.expected {
				t.Errorf("ParseCommandType(%q) = %s, want %s", tt.name, ct, tt.expected)
			}
		})
	}
}

func TestCommandNamesRoundTrip(t *testing.T) {
	for _, ct := range Commands() {
		if ct.String() == "" {
			t.Fatalf("Command %d has no name", ct)
		}
		parsed, ok := ParseCommandType(ct.String())
		if !ok || parsed != ct {
			t.Errorf("Name %s does not resolve to itself", ct)
		}
	}

	if s := CommandType(255).String(); s != "Unknown(255)" {
		t.Errorf("Unexpected name for unknown command: %s", s)
	}
}

func TestUnsupportedCommands(t *testing.T) {
	s := newTestStore(t)
	counter := metrics.GetOrCreateCounter("sqkv_unsupported_commands_total")
	before := counter.Get()

	for _, name := range []string{"EXPIRE", "HSET", "LPUSH", "EVAL", "SUBSCRIBE"} {
		_, err := Dispatch(s, name, []byte("key"), []byte("value"))
		requireCode(t, err, store.RetCUnsupportedOperation)
	}

	if counter.Get()-before != 5 {
		t.Errorf("Expected 5 unsupported commands to be counted, got %d", counter.Get()-before)
	}

	// the store stays usable
	if reply := run(t, s, "PING"); reply.Status != "PONG" {
		t.Errorf("Expected PONG, got %s", reply)
	}
}

func TestArity(t *testing.T) {
	s := newTestStore(t)

	calls := [][]string{
		{"GET"},
		{"GET", "a", "b"},
		{"SET", "a"},
		{"MSET", "a", "1", "b"},
		{"SMOVE", "a", "b"},
		{"RANDOMKEY", "x"},
		{"SPOP", "a", "1", "2"},
	}
	for _, call := range calls {
		args := make([][]byte, len(call)-1)
		for i, arg := range call[1:] {
			args[i] = []byte(arg)
		}
		_, err := Dispatch(s, call[0], args...)
		requireCode(t, err, store.RetCInvalidOperation)
	}
}

func TestIntegerArguments(t *testing.T) {
	s := newTestStore(t)

	for _, call := range [][]string{
		{"INCRBY", "k", "ten"},
		{"GETRANGE", "k", "0", "x"},
		{"SETBIT", "k", "1", "2"},
		{"GETBIT", "k", "1.5"},
		{"SPOP", "k", "many"},
	} {
		args := make([][]byte, len(call)-1)
		for i, arg := range call[1:] {
			args[i] = []byte(arg)
		}
		_, err := Dispatch(s, call[0], args...)
		requireCode(t, err, store.RetCInvalidOperation)
	}
}

func TestStringCommands(t *testing.T) {
	s := newTestStore(t)

	if reply := run(t, s, "GET", "missing"); reply.Kind != ReplyNil {
		t.Errorf("Expected nil reply, got %s", reply)
	}
	if reply := run(t, s, "SET", "greet", "Hello"); reply.Kind != ReplyStatus || reply.Status != "OK" {
		t.Errorf("Expected OK, got %s", reply)
	}
	if reply := run(t, s, "APPEND", "greet", ", world"); reply.Int != 12 {
		t.Errorf("Expected 12, got %s", reply)
	}
	if reply := run(t, s, "GETRANGE", "greet", "-5", "-1"); string(reply.Bulk) != "world" {
		t.Errorf("Expected world, got %s", reply)
	}
	if reply := run(t, s, "SET", "n", "26"); reply.Status != "OK" {
		t.Errorf("Expected OK, got %s", reply)
	}
	for i := 0; i < 5; i++ {
		run(t, s, "DECRBY", "n", "4")
	}
	if reply := run(t, s, "GET", "n"); string(reply.Bulk) != "6" {
		t.Errorf("Expected 6, got %s", reply)
	}
	if reply := run(t, s, "INCR", "fresh"); reply.Int != 1 {
		t.Errorf("Expected 1, got %s", reply)
	}
	if reply := run(t, s, "SETNX", "fresh", "x"); reply.Int != 0 {
		t.Errorf("Expected 0, got %s", reply)
	}

	run(t, s, "MSET", "a", "1", "b", "2")
	reply := run(t, s, "MGET", "a", "missing", "b")
	if reply.Kind != ReplyArray || len(reply.Array) != 3 || reply.Array[1] != nil {
		t.Fatalf("Unexpected MGET reply %s", reply)
	}
	if string(reply.Array[0]) != "1" || string(reply.Array[2]) != "2" {
		t.Errorf("Unexpected MGET values %s", reply)
	}
	if reply := run(t, s, "MSETNX", "a", "x", "c", "y"); reply.Int != 0 {
		t.Errorf("Expected MSETNX to refuse, got %s", reply)
	}
}

func TestKeyCommands(t *testing.T) {
	s := newTestStore(t)

	run(t, s, "MSET", "foo", "1", "bar", "2", "baz", "3", "bart", "4", "bort", "5")
	run(t, s, "SADD", "bark", "woof")

	reply := run(t, s, "KEYS", "^ba")
	if len(reply.Array) != 4 {
		t.Errorf("Expected 4 keys, got %s", reply)
	}
	reply = run(t, s, "KEYS", "oo$")
	if len(reply.Array) != 1 || string(reply.Array[0]) != "foo" {
		t.Errorf("Expected [foo], got %s", reply)
	}
	if reply := run(t, s, "DBSIZE"); reply.Int != 6 {
		t.Errorf("Expected 6 keys, got %s", reply)
	}
	if reply := run(t, s, "EXISTS", "foo", "bark", "nope"); reply.Int != 2 {
		t.Errorf("Expected 2, got %s", reply)
	}
	if reply := run(t, s, "TYPE", "bark"); reply.Status != "set" {
		t.Errorf("Expected set, got %s", reply)
	}
	if reply := run(t, s, "RENAMENX", "foo", "bar"); reply.Int != 0 {
		t.Errorf("Expected 0, got %s", reply)
	}
	if reply := run(t, s, "DEL", "foo", "bar", "nope"); reply.Int != 2 {
		t.Errorf("Expected 2, got %s", reply)
	}
	if reply := run(t, s, "FLUSHDB"); reply.Status != "OK" {
		t.Errorf("Expected OK, got %s", reply)
	}
	if reply := run(t, s, "RANDOMKEY"); reply.Kind != ReplyNil {
		t.Errorf("Expected nil, got %s", reply)
	}
}

func TestSetCommands(t *testing.T) {
	s := newTestStore(t)

	if reply := run(t, s, "SADD", "english", "Steve", "Paul", "Micheal", "Steve"); reply.Int != 3 {
		t.Errorf("Expected 3 added members, got %s", reply)
	}
	run(t, s, "SADD", "finnish", "Kirsi", "My", "Jari")
	run(t, s, "SADD", "people", "Steve", "Kirsi")

	if reply := run(t, s, "SUNION", "english", "finnish"); len(reply.Array) != 6 {
		t.Errorf("Expected 6 members, got %s", reply)
	}
	reply := run(t, s, "SINTER", "english", "people")
	if len(reply.Array) != 1 || string(reply.Array[0]) != "Steve" {
		t.Errorf("Expected [Steve], got %s", reply)
	}
	if reply := run(t, s, "SUNIONSTORE", "all", "english", "finnish"); reply.Int != 6 {
		t.Errorf("Expected 6, got %s", reply)
	}

	reply = run(t, s, "SMEMBERS", "finnish")
	members := make([]string, len(reply.Array))
	for i, m := range reply.Array {
		members[i] = string(m)
	}
	sort.Strings(members)
	if len(members) != 3 || members[0] != "Jari" {
		t.Errorf("Unexpected members %v", members)
	}

	if reply := run(t, s, "SPOP", "finnish", "4"); len(reply.Array) != 0 {
		t.Errorf("Expected nothing popped, got %s", reply)
	}
	if reply := run(t, s, "SPOP", "finnish"); reply.Kind != ReplyBulk {
		t.Errorf("Expected a single member, got %s", reply)
	}
	if reply := run(t, s, "SCARD", "finnish"); reply.Int != 2 {
		t.Errorf("Expected 2, got %s", reply)
	}
	if reply := run(t, s, "SMOVE", "english", "people", "Paul"); reply.Int != 1 {
		t.Errorf("Expected 1, got %s", reply)
	}
	if reply := run(t, s, "SISMEMBER", "people", "Paul"); reply.Int != 1 {
		t.Errorf("Expected 1, got %s", reply)
	}
	if reply := run(t, s, "SREM", "people", "Paul", "Nobody"); reply.Int != 1 {
		t.Errorf("Expected 1, got %s", reply)
	}
}

func TestBitCommands(t *testing.T) {
	s := newTestStore(t)

	run(t, s, "SET", "s", "foobar")
	if reply := run(t, s, "BITCOUNT", "s"); reply.Int != 26 {
		t.Errorf("Expected 26, got %s", reply)
	}
	if reply := run(t, s, "SETBIT", "bits", "7", "1"); reply.Int != 0 {
		t.Errorf("Expected previous bit 0, got %s", reply)
	}
	if reply := run(t, s, "GETBIT", "bits", "7"); reply.Int != 1 {
		t.Errorf("Expected 1, got %s", reply)
	}
}

func TestConnectionCommands(t *testing.T) {
	s := newTestStore(t)

	if reply := run(t, s, "ECHO", "hello"); string(reply.Bulk) != "hello" {
		t.Errorf("Expected hello, got %s", reply)
	}
	if reply := run(t, s, "PING", "hi"); string(reply.Bulk) != "hi" {
		t.Errorf("Expected hi, got %s", reply)
	}
	if reply := run(t, s, "INFO"); reply.Kind != ReplyBulk || len(reply.Bulk) == 0 {
		t.Errorf("Expected info text, got %s", reply)
	}
	if reply := run(t, s, "QUIT"); reply.Status != "OK" {
		t.Errorf("Expected OK, got %s", reply)
	}

	_, err := Dispatch(s, "GET", []byte("k"))
	if !errors.Is(err, db.ErrClosed) {
		t.Errorf("Expected ErrClosed after QUIT, got %v", err)
	}
	_, err = Dispatch(s, "PING")
	requireCode(t, err, store.RetCInternalError)
}

func TestReplyString(t *testing.T) {
	tests := []struct {
		reply    Reply
		expected string
	}{
		{nilReply(), "(nil)"},
		{intReply(5), "(integer) 5"},
		{bulkReply([]byte("a\"b")), `"a\"b"`},
		{okReply(), "OK"},
		{arrayReply(nil), "(empty array)"},
		{arrayReply([][]byte{[]byte("x"), nil}), "1) \"x\"\n2) (nil)"},
	}

	for _, tt := range tests {
		if got := tt.reply.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}
