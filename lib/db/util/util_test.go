package util

import (
	"bytes"
	"math"
	"math/bits"
	"testing"
)

// TestPopCountTable compares the lookup table against the bits package
func TestPopCountTable(t *testing.T) {
	for i := 0; i < 256; i++ {
		if int(popCount[i]) != bits.OnesCount8(uint8(i)) {
			t.Errorf("popCount[%d] = %d, expected %d", i, popCount[i], bits.OnesCount8(uint8(i)))
		}
	}
}

func TestBitCount(t *testing.T) {
	cases := []struct {
		value    []byte
		expected int64
	}{
		{[]byte("foobar"), 26},
		{[]byte(" "), 1},
		{[]byte{0xff}, 8},
		{[]byte{0x00}, 0},
		{nil, 0},
	}
	for _, c := range cases {
		if got := BitCount(c.value); got != c.expected {
			t.Errorf("BitCount(%q) = %d, expected %d", c.value, got, c.expected)
		}
	}
}

func TestGetBit(t *testing.T) {
	// 0x80 = 10000000, 0x01 = 00000001
	value := []byte{0x80, 0x01}

	if GetBit(value, 0) != 1 {
		t.Errorf("Expected MSB of first byte to be set")
	}
	for offset := int64(1); offset < 15; offset++ {
		if GetBit(value, offset) != 0 {
			t.Errorf("Expected bit %d to be 0", offset)
		}
	}
	if GetBit(value, 15) != 1 {
		t.Errorf("Expected LSB of second byte to be set")
	}
	if GetBit(value, 100) != 0 || GetBit(nil, 0) != 0 || GetBit(value, -1) != 0 {
		t.Errorf("Out of range bits should read as 0")
	}
}

func TestSetBit(t *testing.T) {
	original := []byte{0x00}

	updated, previous := SetBit(original, 7, 1)
	if previous != 0 {
		t.Errorf("Expected previous bit 0, got %d", previous)
	}
	if !bytes.Equal(updated, []byte{0x01}) {
		t.Errorf("Expected 0x01, got %x", updated)
	}
	if original[0] != 0x00 {
		t.Errorf("SetBit must not modify its input")
	}

	// zero extension
	updated, previous = SetBit(updated, 17, 1)
	if previous != 0 {
		t.Errorf("Expected previous bit 0 for extended value, got %d", previous)
	}
	if !bytes.Equal(updated, []byte{0x01, 0x00, 0x40}) {
		t.Errorf("Expected 01 00 40, got %x", updated)
	}

	// clearing
	updated, previous = SetBit(updated, 7, 0)
	if previous != 1 {
		t.Errorf("Expected previous bit 1, got %d", previous)
	}
	if !bytes.Equal(updated, []byte{0x00, 0x00, 0x40}) {
		t.Errorf("Expected 00 00 40, got %x", updated)
	}

	// setting a bit of an empty value
	updated, _ = SetBit(nil, 0, 1)
	if !bytes.Equal(updated, []byte{0x80}) {
		t.Errorf("Expected 0x80, got %x", updated)
	}
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		value    string
		expected int64
	}{
		{"", 0},
		{"0", 0},
		{"26", 26},
		{"-7", -7},
		{"+3", 3},
		{"  42", 42},
		{"12abc", 12},
		{"abc", 0},
		{"-", 0},
		{"3.9", 3},
		{"99999999999999999999", math.MaxInt64},
		{"-99999999999999999999", math.MinInt64},
	}
	for _, c := range cases {
		if got := ParseInt([]byte(c.value)); got != c.expected {
			t.Errorf("ParseInt(%q) = %d, expected %d", c.value, got, c.expected)
		}
	}

	if string(FormatInt(-15)) != "-15" {
		t.Errorf("FormatInt(-15) = %s", FormatInt(-15))
	}
}

func TestNormalizeRange(t *testing.T) {
	cases := []struct {
		length, start, end int64
		from, to           int64
		ok                 bool
	}{
		{10, 0, 3, 0, 3, true},
		{10, -3, -1, 7, 9, true},
		{10, 0, -1, 0, 9, true},
		{10, 5, 100, 5, 9, true},
		{10, -100, 2, 0, 2, true},
		{10, 5, 2, 0, 0, false},
		{10, 10, 12, 0, 0, false},
		{10, 0, -11, 0, 0, false},
		{0, 0, -1, 0, 0, false},
	}
	for _, c := range cases {
		from, to, ok := NormalizeRange(c.length, c.start, c.end)
		if ok != c.ok || (ok && (from != c.from || to != c.to)) {
			t.Errorf("NormalizeRange(%d, %d, %d) = (%d, %d, %t), expected (%d, %d, %t)",
				c.length, c.start, c.end, from, to, ok, c.from, c.to, c.ok)
		}
	}
}

func TestOverwriteAt(t *testing.T) {
	if got := OverwriteAt([]byte("Hello World"), 6, []byte("Redis")); string(got) != "Hello Redis" {
		t.Errorf("Expected 'Hello Redis', got %q", got)
	}
	if got := OverwriteAt(nil, 3, []byte("ab")); !bytes.Equal(got, []byte{0, 0, 0, 'a', 'b'}) {
		t.Errorf("Expected zero padding, got %q", got)
	}
	if got := OverwriteAt([]byte("abcdef"), 1, []byte("X")); string(got) != "aXcdef" {
		t.Errorf("Expected 'aXcdef', got %q", got)
	}
}
