// Package util provides helpers for interpreting the values stored by
// implementations of the db.SQLDB interface.
//
// The package contains:
//   - bits: A 256-entry population count table and bit string access (GetBit, SetBit)
//   - values: Integer coercion of stored values, inclusive range normalisation with
//     negative indices and zero-padded overwrites
//   - sizes: A histogram of value sizes with exponential buckets, used to report
//     size statistics of a database without keeping the values in memory
//
// The bit and value functions are pure and never modify their input slices.
package util
