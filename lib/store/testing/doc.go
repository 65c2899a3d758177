// Package testing provides standardised tests and benchmarks for
// store implementations that satisfy the store.IStore interface.
//
// The package contains:
//   - RunStoreTests: A test suite for validating conformance to the IStore contract
//     (strings, counters, key enumeration, sets, bits, persistence and close behaviour)
//   - RunStoreBenchmarks: Performance tests for common commands
//
// Every test and benchmark requests a fresh, empty store from the factory.
//
// Example usage:
//
//	factory := func(tb testing.TB) store.IStore {
//		s, err := sqlstore.Open(store.Config{Path: filepath.Join(tb.TempDir(), "test.db")})
//		if err != nil {
//			tb.Fatalf("Failed to open store: %v", err)
//		}
//		return s
//	}
//
//	// Running the standard test suite
//	storetesting.RunStoreTests(t, "SQLStore", factory)
//
//	// Running performance benchmarks
//	storetesting.RunStoreBenchmarks(b, "SQLStore", factory)
package testing
