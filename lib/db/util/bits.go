package util

// --------------------------------------------------------------------------
// Population Count
// --------------------------------------------------------------------------

// popCount holds the number of set bits for every byte value
var popCount = [256]uint8{
	0, 1, 1, 2, 1, 2, 2, 3, 1, 2, 2, 3, 2, 3, 3, 4,
	1, 2, 2, 3, 2, 3, 3, 4, 2, 3, 3, 4, 3, 4, 4, 5,
	1, 2, 2, 3, 2, 3, 3, 4, 2, 3, 3, 4, 3, 4, 4, 5,
	2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6,
	1, 2, 2, 3, 2, 3, 3, 4, 2, 3, 3, 4, 3, 4, 4, 5,
	2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6,
	2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6,
	3, 4, 4, 5, 4, 5, 5, 6, 4, 5, 5, 6, 5, 6, 6, 7,
	1, 2, 2, 3, 2, 3, 3, 4, 2, 3, 3, 4, 3, 4, 4, 5,
	2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6,
	2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6,
	3, 4, 4, 5, 4, 5, 5, 6, 4, 5, 5, 6, 5, 6, 6, 7,
	2, 3, 3, 4, 3, 4, 4, 5, 3, 4, 4, 5, 4, 5, 5, 6,
	3, 4, 4, 5, 4, 5, 5, 6, 4, 5, 5, 6, 5, 6, 6, 7,
	3, 4, 4, 5, 4, 5, 5, 6, 4, 5, 5, 6, 5, 6, 6, 7,
	4, 5, 5, 6, 5, 6, 6, 7, 5, 6, 6, 7, 6, 7, 7, 8,
}

// BitCount returns the number of set bits across all bytes of value
func BitCount(value []byte) int64 {
	var count int64
	for _, b := range value {
		count += int64(popCount[b])
	}
	return count
}

// --------------------------------------------------------------------------
// Bit String Access
// --------------------------------------------------------------------------

// Values are interpreted as bit strings with the most significant bit of each byte
// first and the bytes in storage order. Offset 0 is the MSB of the first byte.

// GetBit returns the bit at offset. Offsets beyond the end of value read as 0.
func GetBit(value []byte, offset int64) int {
	if offset < 0 {
		return 0
	}
	byteIdx := offset / 8
	if byteIdx >= int64(len(value)) {
		return 0
	}
	shift := 7 - uint(offset%8)
	return int(value[byteIdx]>>shift) & 1
}

// SetBit returns a copy of value with the bit at offset set to bit (0 or 1) and the
// previous bit. The value is zero-extended if offset lies beyond its end.
func SetBit(value []byte, offset int64, bit int) (updated []byte, previous int) {
	byteIdx := offset / 8

	size := int64(len(value))
	if byteIdx >= size {
		size = byteIdx + 1
	}
	updated = make([]byte, size)
	copy(updated, value)

	shift := 7 - uint(offset%8)
	previous = int(updated[byteIdx]>>shift) & 1
	if bit == 1 {
		updated[byteIdx] |= 1 << shift
	} else {
		updated[byteIdx] &^= 1 << shift
	}
	return updated, previous
}
