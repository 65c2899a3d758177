package testing

import (
	"bytes"
	"fmt"
	"github.com/ValentinKolb/sqKV/lib/store"
	"sync/atomic"
	"testing"
)

// RunStoreBenchmarks runs all benchmarks for an IStore implementation
func RunStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name, func(b *testing.B) {

		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, factory(b))
		})

		b.Run("SetExisting", func(b *testing.B) {
			benchmarkSetExisting(b, factory(b))
		})

		b.Run("SetLargeValue", func(b *testing.B) {
			benchmarkSetLargeValue(b, factory(b))
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory(b))
		})

		b.Run("Incr", func(b *testing.B) {
			benchmarkIncr(b, factory(b))
		})

		b.Run("SAdd", func(b *testing.B) {
			benchmarkSAdd(b, factory(b))
		})

		b.Run("SInter", func(b *testing.B) {
			benchmarkSInter(b, factory(b))
		})

		b.Run("Keys", func(b *testing.B) {
			benchmarkKeys(b, factory(b))
		})

		b.Run("SaveLoad", func(b *testing.B) {
			benchmarkSaveLoad(b, factory)
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, factory(b))
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// populate writes n string keys "test-key-<i>"
func populate(b *testing.B, s store.IStore, n int) []string {
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("test-key-%d", i)
		if err := s.Set(keys[i], []byte(fmt.Sprintf("test-value-%d", i))); err != nil {
			b.Fatalf("Failed to populate store: %v", err)
		}
	}
	return keys
}

// Benchmark for Set operation
func benchmarkSet(b *testing.B, s store.IStore) {

	b.Cleanup(func() {
		s.Close()
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			key := fmt.Sprintf("test-key-%d", counter)
			value := []byte(fmt.Sprintf("test-value-%d", counter))
			s.Set(key, value)
			counter++
		}
	})
}

// Benchmark for Set operation with existing keys
func benchmarkSetExisting(b *testing.B, s store.IStore) {

	b.Cleanup(func() {
		s.Close()
	})

	keys := populate(b, s, 1000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			value := []byte(fmt.Sprintf("test-value-%d", counter))
			s.Set(keys[counter%len(keys)], value)
			counter++
		}
	})
}

// Benchmark for Set operation with large values
func benchmarkSetLargeValue(b *testing.B, s store.IStore) {

	b.Cleanup(func() {
		s.Close()
	})

	largeValue := make([]byte, 1*1024*1024) // 1MB

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Set(fmt.Sprintf("test-key-%d", i%16), largeValue)
	}
}

// Parallel benchmarking for Get operation
func benchmarkGet(b *testing.B, s store.IStore) {

	b.Cleanup(func() {
		s.Close()
	})

	keys := populate(b, s, 10000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			s.Get(keys[counter%len(keys)])
			counter++
		}
	})
}

// Benchmark for Incr on a single hot counter
func benchmarkIncr(b *testing.B, s store.IStore) {

	b.Cleanup(func() {
		s.Close()
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Incr("counter")
	}
}

// Benchmark for SAdd with a mix of new and existing members
func benchmarkSAdd(b *testing.B, s store.IStore) {

	b.Cleanup(func() {
		s.Close()
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.SAdd(fmt.Sprintf("set-%d", i%10), []byte(fmt.Sprintf("member-%d", i%1000)))
	}
}

// Benchmark for SInter of two overlapping sets
func benchmarkSInter(b *testing.B, s store.IStore) {

	b.Cleanup(func() {
		s.Close()
	})

	for i := 0; i < 1000; i++ {
		s.SAdd("left", []byte(fmt.Sprintf("member-%d", i)))
		s.SAdd("right", []byte(fmt.Sprintf("member-%d", i+500)))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.SInter("left", "right")
	}
}

// Benchmark for Keys with a pattern
func benchmarkKeys(b *testing.B, s store.IStore) {

	b.Cleanup(func() {
		s.Close()
	})

	populate(b, s, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Keys("9$")
	}
}

// Benchmark for Save and Load operations
func benchmarkSaveLoad(b *testing.B, factory StoreFactory) {

	s := factory(b)

	b.Cleanup(func() {
		s.Close()
	})

	populate(b, s, 10000)

	b.Run("Save", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			var buf bytes.Buffer
			s.Save(&buf)
		}
	})

	// Prepare a data buffer for Load benchmark
	var loadBuf bytes.Buffer
	s.Save(&loadBuf)
	data := loadBuf.Bytes()

	b.Run("Load", func(b *testing.B) {
		loadStore := factory(b)
		b.Cleanup(func() {
			loadStore.Close()
		})

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			loadStore.Load(bytes.NewReader(data))
		}
	})
}

// Benchmark for mixed usage patterns
func benchmarkMixedUsage(b *testing.B, s store.IStore) {
	b.Cleanup(func() {
		s.Close()
	})

	keys := populate(b, s, 10000)

	// Counter for atomic access
	var counter int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		// Local counter for each goroutine
		localCounter := 0

		for pb.Next() {
			idx := int(atomic.AddInt64(&counter, 1)-1) % len(keys)

			// For every 10th operation, use a completely new key
			key := keys[idx]
			if localCounter%10 == 0 {
				key = fmt.Sprintf("new-key-%d", localCounter)
			}

			switch localCounter % 5 {
			case 0:
				s.Get(key)
			case 1:
				s.Set(key, []byte(fmt.Sprintf("mixed-value-%d", localCounter)))
			case 2:
				s.Del(key)
			case 3:
				s.Exists(key)
			case 4:
				s.SAdd("mixed-set", []byte(key))
			}

			localCounter++
		}
	})
}
