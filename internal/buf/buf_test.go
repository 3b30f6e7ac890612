package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestSlice(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
}

func TestEndianReaders(t *testing.T) {
	data := []byte{0x00, 0x06, 0x00, 0x02, 0x02, 0x58}

	if v, ok := U16BE(data, 0); !ok || v != 6 {
		t.Fatalf("U16BE(0) = %d,%v want 6,true", v, ok)
	}
	if v, ok := U32BE(data, 0); !ok || v != 0x00060002 {
		t.Fatalf("U32BE(0) = %#x,%v want 0x60002,true", v, ok)
	}
	if v, ok := U32LE(data, 0); !ok || v != 0x02000600 {
		t.Fatalf("U32LE(0) = %#x,%v want 0x2000600,true", v, ok)
	}
	if _, ok := U32BE(data, 4); ok {
		t.Fatalf("U32BE should fail on short buffer")
	}
	if _, ok := U16BE(nil, 0); ok {
		t.Fatalf("U16BE should fail on empty buffer")
	}
}

func TestHasPrefixAtAndSkipSpace(t *testing.T) {
	data := []byte("  \n(Symbol top);")
	off := SkipSpace(data, 0)
	if off != 3 {
		t.Fatalf("SkipSpace = %d, want 3", off)
	}
	if !HasPrefixAt(data, off, "(Symbol") {
		t.Fatalf("expected prefix at %d", off)
	}
	if HasPrefixAt(data, 14, "(Symbol") {
		t.Fatalf("prefix past end must not match")
	}
	if got := SkipSpace([]byte("   "), 0); got != 3 {
		t.Fatalf("SkipSpace on blank input = %d, want 3", got)
	}
}
