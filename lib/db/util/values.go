package util

import (
	"strconv"
)

// --------------------------------------------------------------------------
// Numeric Coercion
// --------------------------------------------------------------------------

// ParseInt coerces a stored value to an integer the way a loosely typed client would:
// leading whitespace is skipped, then an optional sign and as many decimal digits as
// follow are parsed. Anything that does not start with a number counts as 0
// ("12abc" -> 12, "abc" -> 0, "" -> 0). Values outside the int64 range are clamped.
func ParseInt(value []byte) int64 {
	i := 0
	for i < len(value) && isSpace(value[i]) {
		i++
	}
	start := i
	if i < len(value) && (value[i] == '-' || value[i] == '+') {
		i++
	}
	digits := i
	for i < len(value) && value[i] >= '0' && value[i] <= '9' {
		i++
	}
	if i == digits {
		return 0
	}

	// on overflow ParseInt returns the clamped value together with the error
	n, _ := strconv.ParseInt(string(value[start:i]), 10, 64)
	return n
}

// FormatInt renders an integer the way it is stored
func FormatInt(n int64) []byte {
	return strconv.AppendInt(nil, n, 10)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// --------------------------------------------------------------------------
// Ranges
// --------------------------------------------------------------------------

// NormalizeRange resolves an inclusive [start, end] byte range against a value of the
// given length. Negative indices count from the end (-1 is the last byte).
// Out of range indices are clamped. ok is false if the resulting range is empty.
func NormalizeRange(length, start, end int64) (from, to int64, ok bool) {
	if length == 0 {
		return 0, 0, false
	}
	if start < 0 {
		start += length
	}
	if end < 0 {
		end += length
	}
	if start < 0 {
		start = 0
	}
	if end >= length {
		end = length - 1
	}
	if start > end || start >= length || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}

// OverwriteAt returns a copy of value where data is written at offset.
// The value is padded with zero bytes if it is shorter than offset.
func OverwriteAt(value []byte, offset int64, data []byte) []byte {
	size := int64(len(value))
	if needed := offset + int64(len(data)); needed > size {
		size = needed
	}
	updated := make([]byte, size)
	copy(updated, value)
	copy(updated[offset:], data)
	return updated
}
