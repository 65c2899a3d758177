package sqlstore

import (
	"github.com/ValentinKolb/sqKV/lib/store"
	storetesting "github.com/ValentinKolb/sqKV/lib/store/testing"
	"path/filepath"
	"testing"
)

func newTestStore(tb testing.TB, durable bool) store.IStore {
	tb.Helper()
	s, err := Open(store.Config{
		Path:    filepath.Join(tb.TempDir(), "test.db"),
		Durable: durable,
	})
	if err != nil {
		tb.Fatalf("Failed to open store: %v", err)
	}
	return s
}

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "SQLStore", func(tb testing.TB) store.IStore {
		return newTestStore(tb, false)
	})
}

func TestDurable(t *testing.T) {
	storetesting.RunStoreTests(t, "SQLStore(durable)", func(tb testing.TB) store.IStore {
		return newTestStore(tb, true)
	})
}

func Benchmark(b *testing.B) {
	storetesting.RunStoreBenchmarks(b, "SQLStore", func(tb testing.TB) store.IStore {
		return newTestStore(tb, false)
	})
}
