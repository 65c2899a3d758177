// Package cmd implements the command-line interface for sqKV. It opens the SQLite
// database file, runs a single command against it and prints the reply.
//
// The package is organized into several subpackages:
//
//   - kv: The command runner (sqkv kv SET greet Hello), dump, restore, info, stats
//     and the perf benchmark
//   - util: Shared utilities for configuration and logging (internal use)
//
// Configuration is read from flags, SQKV_* environment variables and .env / .env.local
// files, e.g. SQKV_PATH=/var/lib/sqkv.db or SQKV_DURABLE=true.
//
// See sqkv -help for a list of all commands.
package cmd
