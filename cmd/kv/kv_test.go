package kv

import (
	"bytes"
	"github.com/ValentinKolb/sqKV/lib/store"
	"github.com/ValentinKolb/sqKV/lib/store/sqlstore"
	"github.com/spf13/cobra"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// useTestStore points the package level store to a fresh database
func useTestStore(t *testing.T) {
	t.Helper()
	s, err := sqlstore.Open(store.Config{Path: filepath.Join(t.TempDir(), "kv.db")})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	kvStore = s
	t.Cleanup(func() {
		closeStore(nil, nil)
	})
}

// execute runs a command and returns its output
func execute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.RunE(cmd, args); err != nil {
		t.Fatalf("%s %v failed: %v", cmd.Name(), args, err)
	}
	return strings.TrimSpace(out.String())
}

func TestRunCommand(t *testing.T) {
	useTestStore(t)

	cmd := &cobra.Command{Use: "kv", RunE: runCommand}

	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"SET", "greet", "Hello"}, "OK"},
		{[]string{"append", "greet", ", world"}, "(integer) 12"},
		{[]string{"GET", "greet"}, `"Hello, world"`},
		{[]string{"GET", "missing"}, "(nil)"},
		{[]string{"SADD", "english", "Steve"}, "(integer) 1"},
		{[]string{"SMEMBERS", "english"}, `1) "Steve"`},
		{[]string{"TYPE", "english"}, "set"},
		{[]string{"HSET", "h", "f", "v"}, "(error) unsupported command 'HSET'"},
		{[]string{"GET"}, "(error) wrong number of arguments for 'get' command"},
	}

	for _, tt := range tests {
		if got := execute(t, cmd, tt.args...); got != tt.expected {
			t.Errorf("%v: got %q, want %q", tt.args, got, tt.expected)
		}
	}
}

func TestDumpRestore(t *testing.T) {
	useTestStore(t)

	if err := kvStore.Set("a", []byte("1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := kvStore.SAdd("s", []byte("m")); err != nil {
		t.Fatalf("SAdd failed: %v", err)
	}

	file := filepath.Join(t.TempDir(), "dump.sqkv")
	execute(t, DumpCmd, file)

	if stat, err := os.Stat(file); err != nil || stat.Size() == 0 {
		t.Fatalf("Expected dump file to be written (err=%v)", err)
	}

	if err := kvStore.FlushDB(); err != nil {
		t.Fatalf("FlushDB failed: %v", err)
	}

	if got := execute(t, RestoreCmd, file); got != "restored 2 keys" {
		t.Errorf("Unexpected restore output %q", got)
	}
	value, ok, err := kvStore.Get("a")
	if err != nil || !ok || string(value) != "1" {
		t.Errorf("Expected restored value, got %q (ok=%t, err=%v)", value, ok, err)
	}
}

func TestInfoAndStats(t *testing.T) {
	useTestStore(t)

	if got := execute(t, InfoCmd); !strings.Contains(got, `"db_type": "sqlite"`) {
		t.Errorf("Unexpected info output %q", got)
	}
	if got := execute(t, StatsCmd); !strings.Contains(got, "sqkv_statement_duration_seconds") {
		t.Errorf("Expected statement histogram in stats output")
	}
}
