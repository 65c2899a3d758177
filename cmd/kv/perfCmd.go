package kv

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/sqKV/cmd/util"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the database",
		Args:    cobra.NoArgs,
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)

	// perfTimers collects the latency of every single operation
	perfTimers = gometrics.NewRegistry()
)

// perfPercentiles are reported for each benchmark
var perfPercentiles = []float64{0.5, 0.95, 0.99}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// perfCase is a single benchmark: prepare is run once before the timer starts, op is
// the measured operation for the i-th iteration
type perfCase struct {
	name    string
	prepare func(keys []string) error
	op      func(key string, i int) error
}

func perfCases() []perfCase {
	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	setAll := func(keys []string) error {
		for _, k := range keys {
			if err := kvStore.Set(k, []byte("test")); err != nil {
				return err
			}
		}
		return nil
	}

	return []perfCase{
		{
			name: "set",
			op: func(key string, i int) error {
				return kvStore.Set(key, []byte("test"))
			},
		},
		{
			name: "set-large",
			op: func(key string, i int) error {
				return kvStore.Set(key, largeValue)
			},
		},
		{
			name:    "get",
			prepare: setAll,
			op: func(key string, i int) error {
				_, _, err := kvStore.Get(key)
				return err
			},
		},
		{
			name: "incr",
			op: func(key string, i int) error {
				_, err := kvStore.Incr(key)
				return err
			},
		},
		{
			name: "sadd",
			op: func(key string, i int) error {
				_, err := kvStore.SAdd(perfKeyPrefix+"-sadd", []byte(key))
				return err
			},
		},
		{
			name: "sinter",
			prepare: func(keys []string) error {
				for i, k := range keys {
					if _, err := kvStore.SAdd(perfKeyPrefix+"-left", []byte(k)); err != nil {
						return err
					}
					if i%2 == 0 {
						if _, err := kvStore.SAdd(perfKeyPrefix+"-right", []byte(k)); err != nil {
							return err
						}
					}
				}
				return nil
			},
			op: func(key string, i int) error {
				_, err := kvStore.SInter(perfKeyPrefix+"-left", perfKeyPrefix+"-right")
				return err
			},
		},
		{
			name:    "mixed",
			prepare: setAll,
			op: func(key string, i int) error {
				var err error
				switch i % 4 {
				case 0: // set
					err = kvStore.Set(key, []byte("test"))
				case 1: // get
					_, _, err = kvStore.Get(key)
				case 2: // del
					_, err = kvStore.Del(key)
				case 3: // exists
					_, err = kvStore.Exists(key)
				}
				return err
			},
		},
	}
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for sqKV")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetStoreConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	for _, c := range perfCases() {
		if shouldSkip(c.name) {
			printResult(c.name, testing.BenchmarkResult{}, nil)
			continue
		}

		timer := gometrics.GetOrRegisterTimer(c.name, perfTimers)
		result := runCase(c, timer)
		results[c.name] = result
		printResult(c.name, result, timer)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// runCase benchmarks a single case and records every operation in timer
func runCase(c perfCase, timer gometrics.Timer) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		getKey, iter := getKeys(c.name)

		if c.prepare != nil {
			var keys []string
			iter(func(k string) {
				keys = append(keys, k)
			})
			if err := c.prepare(keys); err != nil {
				util.Logger.Errorf("(%s) - error preparing benchmark: %v", c.name, err)
				return
			}
		}

		// cleanup
		b.Cleanup(func() {
			if err := cleanup(c.name); err != nil {
				util.Logger.Errorf("(%s) - error deleting keys: %v", c.name, err)
			}
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				if err := c.op(getKey(counter), counter); err != nil {
					util.Logger.Errorf("(%s) - error performing operation: %v", c.name, err)
				}
				timer.UpdateSince(start)
				counter++
			}
		})
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// cleanup removes every key written by the benchmark
func cleanup(name string) error {
	keys, err := kvStore.Keys("^" + perfKeyPrefix + "-")
	if err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := kvStore.Del(k); err != nil {
			return err
		}
	}
	util.Logger.Debugf("(%s) - removed %d keys", name, len(keys))
	return nil
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult, timer gometrics.Timer) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
	if timer != nil {
		snapshot := timer.Snapshot()
		ps := snapshot.Percentiles(perfPercentiles)
		fmt.Printf("\tp50=%s p95=%s p99=%s", time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]))
	}
	fmt.Println()
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	config := util.GetStoreConfig()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50Ns", "P95Ns", "P99Ns",
		"Path", "Durable", "Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		nsPerOp := math.Max(float64(result.NsPerOp()), 1)
		opsPerSec := 1.0 / (nsPerOp / 1e9)
		ps := gometrics.GetOrRegisterTimer(test, perfTimers).Snapshot().Percentiles(perfPercentiles)

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			config.Path,
			strconv.FormatBool(config.Durable),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
