package bitio

import (
	"io"
	"testing"
)

func TestReadBitLSBFirst(t *testing.T) {
	r := NewReader([]byte{0b1011_0001})
	want := []uint8{1, 0, 0, 0, 1, 1, 0, 1}
	for i, w := range want {
		got, err := r.ReadBit()
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("bit %d: got %d want %d", i, got, w)
		}
	}
	if !r.IsEmpty() {
		t.Fatal("expected reader to be empty")
	}
	if _, err := r.ReadBit(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadNumSpanningByteBoundary(t *testing.T) {
	// bits (LSB-first within each byte): byte0=0xFF, byte1=0x01
	r := NewReader([]byte{0xFF, 0x01})
	got, err := r.ReadNum(12)
	if err != nil {
		t.Fatal(err)
	}
	// low 8 bits all set, then 4 more bits from byte1 (0001 -> low nibble 1)
	want := uint32(0xFF | (0x1 << 8))
	if got != want {
		t.Fatalf("got %#x want %#x", got, want)
	}
}

func TestFlushBitsNoOpWhenAligned(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	r.FlushBits()
	v, err := r.ReadNum(8)
	if err != nil || v != 0x01 {
		t.Fatalf("got %v err %v", v, err)
	}
}

func TestFlushBitsSkipsPartialByte(t *testing.T) {
	r := NewReader([]byte{0xFF, 0x02})
	if _, err := r.ReadNum(3); err != nil {
		t.Fatal(err)
	}
	r.FlushBits()
	v, err := r.ReadNum(8)
	if err != nil || v != 0x02 {
		t.Fatalf("got %v err %v", v, err)
	}
}

func TestAppendExtendsWithoutDisturbingPosition(t *testing.T) {
	r := NewReader([]byte{0xFF})
	if _, err := r.ReadNum(4); err != nil {
		t.Fatal(err)
	}
	r.Append([]byte{0x0A})
	v, err := r.ReadNum(8)
	if err != nil {
		t.Fatal(err)
	}
	// remaining 4 bits of byte0 (0xF) then all 8 bits of the appended byte.
	want := uint32(0xF | (0x0A << 4))
	if v != want {
		t.Fatalf("got %#x want %#x", v, want)
	}
}

func TestIsEmpty(t *testing.T) {
	r := NewReader(nil)
	if !r.IsEmpty() {
		t.Fatal("empty source should report IsEmpty")
	}
}
