package rfb

import (
	"bytes"
	"testing"

	"github.com/BeneDevRepo/BVnc/bitio"
)

// storedDeflateBlock builds a single-block, BFINAL=1, BTYPE=0 (stored)
// DEFLATE stream wrapping data verbatim — enough to drive the zlib layer
// under test without needing a real DEFLATE encoder.
func storedDeflateBlock(data []byte, final bool) []byte {
	w := bitio.NewWriter()
	if final {
		w.PushBit(1)
	} else {
		w.PushBit(0)
	}
	w.PushNum(0, 2) // BTYPE=0 (stored)
	w.FlushBits()
	w.PushNum(uint32(len(data)), 16)
	w.PushNum(uint32(^uint16(len(data))), 16)
	for _, b := range data {
		w.PushNum(uint32(b), 8)
	}
	return w.Bytes()
}

func zlibWrap(deflated []byte) []byte {
	return append([]byte{0x78, 0x9C}, deflated...)
}

// TestZRLESolidTileMatchesSpecExample is §8 scenario 3.
func TestZRLESolidTileMatchesSpecExample(t *testing.T) {
	payload := zlibWrap(storedDeflateBlock([]byte{0x01, 0x11, 0x22, 0x33}, true))

	var msg bytes.Buffer
	msg.Write(u32be(uint32(len(payload))))
	msg.Write(payload)

	c, _ := newConnectedClient(t, nil)
	c.fb = newPixelBuffer(1, 1)
	c.sock = newFakeSocket(msg.Bytes())

	if err := c.decodeZRLE(0, 0, 1, 1); err != nil {
		t.Fatalf("decodeZRLE: %v", err)
	}

	got := c.PixelData()[0:4]
	want := []byte{0x11, 0x22, 0x33, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

// TestZRLEStreamSpansMultipleRectangles exercises §4.11's shared zlib
// stream: the header is consumed only on the first rectangle, and the
// second rectangle's payload, which carries no header, is decoded as the
// next stored block of the same DEFLATE stream.
func TestZRLEStreamSpansMultipleRectangles(t *testing.T) {
	c, _ := newConnectedClient(t, nil)
	c.fb = newPixelBuffer(2, 1)

	first := zlibWrap(storedDeflateBlock([]byte{0x01, 0x10, 0x20, 0x30}, false))
	var firstMsg bytes.Buffer
	firstMsg.Write(u32be(uint32(len(first))))
	firstMsg.Write(first)
	c.sock = newFakeSocket(firstMsg.Bytes())
	if err := c.decodeZRLE(0, 0, 1, 1); err != nil {
		t.Fatalf("first decodeZRLE: %v", err)
	}

	second := storedDeflateBlock([]byte{0x01, 0x40, 0x50, 0x60}, true) // no zlib header this time
	var secondMsg bytes.Buffer
	secondMsg.Write(u32be(uint32(len(second))))
	secondMsg.Write(second)
	c.sock = newFakeSocket(secondMsg.Bytes())
	if err := c.decodeZRLE(1, 0, 1, 1); err != nil {
		t.Fatalf("second decodeZRLE: %v", err)
	}

	if got, want := c.PixelData()[0:4], []byte{0x10, 0x20, 0x30, 0x00}; !bytes.Equal(got, want) {
		t.Fatalf("first pixel: got %x, want %x", got, want)
	}
	if got, want := c.PixelData()[4:8], []byte{0x40, 0x50, 0x60, 0x00}; !bytes.Equal(got, want) {
		t.Fatalf("second pixel: got %x, want %x", got, want)
	}
}

func TestZRLERunLengthSuffixMatchesSpecExample(t *testing.T) {
	// §8: [255,255,0] expands to 511 (255+255+0, plus one).
	c, _ := newConnectedClient(t, nil)
	payload := zlibWrap(storedDeflateBlock([]byte{255, 255, 0}, true))
	if err := c.zrle.inflator.Feed(payload); err != nil {
		t.Fatalf("Feed: %v", err)
	}

	run, err := c.readRunLengthSuffix()
	if err != nil {
		t.Fatalf("readRunLengthSuffix: %v", err)
	}
	if run != 511 {
		t.Fatalf("got %d, want 511", run)
	}
}

func TestZRLEPackedPaletteRowAlignment(t *testing.T) {
	// A 3-wide tile with a 2-entry palette (1 bit/pixel) pads each row to
	// a whole byte: row bits "101" plus 5 padding bits.
	palette := []byte{0, 0, 0, 1, 1, 1} // two CPIXELs, black then white-ish
	row := byte(0b101_00000)
	data := storedDeflateBlock(append(append([]byte{2}, palette...), row, row), true)

	c, _ := newConnectedClient(t, nil)
	c.fb = newPixelBuffer(3, 2)
	payload := zlibWrap(data)
	var msg bytes.Buffer
	msg.Write(u32be(uint32(len(payload))))
	msg.Write(payload)
	c.sock = newFakeSocket(msg.Bytes())

	if err := c.decodeZRLE(0, 0, 3, 2); err != nil {
		t.Fatalf("decodeZRLE: %v", err)
	}

	whitePixel := rgbWord(1, 1, 1)
	blackPixel := rgbWord(0, 0, 0)
	// Row byte 0b101_00000 is read MSB-first: bit7=1→idx1, bit6=0→idx0, bit5=1→idx1.
	wantRow := []uint32{whitePixel, blackPixel, whitePixel}
	for x := uint16(0); x < 3; x++ {
		if got := c.fb.pixel(x, 0); got != wantRow[x] {
			t.Fatalf("row0 col %d: got %06x, want %06x", x, got, wantRow[x])
		}
		if got := c.fb.pixel(x, 1); got != wantRow[x] {
			t.Fatalf("row1 col %d: got %06x, want %06x", x, got, wantRow[x])
		}
	}
}
