package huffman

import (
	"testing"

	"github.com/BeneDevRepo/BVnc/bitio"
	"github.com/juju/errors"
)

func TestDecoderEncoderRoundTrip(t *testing.T) {
	lengths := []int{3, 3, 3, 3, 3, 2, 4, 4} // one valid complete canonical table

	enc, err := NewEncoder(lengths)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewDecoder(lengths)
	if err != nil {
		t.Fatal(err)
	}

	w := bitio.NewWriter()
	for symbol := range lengths {
		code, n := enc.Code(symbol)
		w.PushCode(uint32(code), n)
	}
	w.FlushBits()

	r := bitio.NewReader(w.Bytes())
	for symbol := range lengths {
		got, err := dec.DecodeSymbol(r)
		if err != nil {
			t.Fatalf("symbol %d: %v", symbol, err)
		}
		if got != symbol {
			t.Fatalf("symbol %d: decoded %d", symbol, got)
		}
	}
}

func TestNewDecoderRejectsOverSubscribed(t *testing.T) {
	// Two length-1 codes already exhaust the code space; a third is illegal.
	_, err := NewDecoder([]int{1, 1, 1})
	if errors.Cause(err) != ErrOverSubscribed {
		t.Fatalf("got %v, want ErrOverSubscribed", err)
	}
}

func TestNewDecoderRejectsIncomplete(t *testing.T) {
	_, err := NewDecoder([]int{1, 2})
	if errors.Cause(err) != ErrIncomplete {
		t.Fatalf("got %v, want ErrIncomplete", err)
	}
}

func TestNewDecoderAcceptsAllZero(t *testing.T) {
	if _, err := NewDecoder([]int{0, 0, 0}); err != nil {
		t.Fatalf("all-zero table should be legal, got %v", err)
	}
}

func TestFixedTablesRoundTrip(t *testing.T) {
	litEnc, err := FixedLiteralEncoder()
	if err != nil {
		t.Fatal(err)
	}
	litDec, err := FixedLiteralDecoder()
	if err != nil {
		t.Fatal(err)
	}

	w := bitio.NewWriter()
	symbols := []int{0, 143, 144, 255, 256, 279, 280, 287}
	for _, s := range symbols {
		code, n := litEnc.Code(s)
		w.PushCode(uint32(code), n)
	}
	w.FlushBits()

	r := bitio.NewReader(w.Bytes())
	for _, want := range symbols {
		got, err := litDec.DecodeSymbol(r)
		if err != nil || got != want {
			t.Fatalf("got %d err %v, want %d", got, err, want)
		}
	}
}
