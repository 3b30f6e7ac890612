// Package buf contains bounds-safe helpers for peeking at archive headers.
//
// Archive detection works on whatever prefix of a file the caller could
// read, so every accessor tolerates short buffers instead of panicking.
package buf

import (
	"encoding/binary"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// U16BE reads a big-endian uint16 at off. ok is false when b is too short.
func U16BE(b []byte, off int) (uint16, bool) {
	s, ok := Slice(b, off, 2)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint16(s), true
}

// U32BE reads a big-endian uint32 at off. ok is false when b is too short.
func U32BE(b []byte, off int) (uint32, bool) {
	s, ok := Slice(b, off, 4)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(s), true
}

// U32LE reads a little-endian uint32 at off. ok is false when b is too short.
func U32LE(b []byte, off int) (uint32, bool) {
	s, ok := Slice(b, off, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(s), true
}

// HasPrefixAt reports whether b contains prefix starting at off.
func HasPrefixAt(b []byte, off int, prefix string) bool {
	s, ok := Slice(b, off, len(prefix))
	if !ok {
		return false
	}
	return string(s) == prefix
}

// SkipSpace returns the offset of the first byte at or after off that is not
// ASCII whitespace, or len(b) when none remain.
func SkipSpace(b []byte, off int) int {
	for off < len(b) {
		switch b[off] {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			off++
		default:
			return off
		}
	}
	return off
}
