// Package huffman builds canonical Huffman (DEFLATE "prefix code") tables
// from a vector of per-symbol code lengths, in both decoding and encoding
// directions, and computes code lengths from symbol frequencies.
package huffman

import "github.com/juju/errors"

// MaxCodeLength is the largest code length DEFLATE's canonical Huffman
// codes ever use.
const MaxCodeLength = 15

// Decoder maps bits read MSB-first from a bitio.Reader back to symbols.
// It is built once from a code-length vector and is safe to reuse across
// many DecodeSymbol calls.
type Decoder struct {
	lengthCount [MaxCodeLength + 1]int // count of symbols at each length
	symbols     []int                  // symbols in ascending (length, symbol-index) order
}

// NewDecoder builds a canonical Huffman decoder from lengths, where
// lengths[i] is the code length of symbol i (0 meaning the symbol is
// absent). An all-zero vector is accepted as the legal "no codes
// defined" table the distance alphabet uses when a block has no
// back-references. Otherwise fails with ErrOverSubscribed or
// ErrIncomplete if the lengths don't form a complete prefix code.
func NewDecoder(lengths []int) (*Decoder, error) {
	d := &Decoder{}

	for _, l := range lengths {
		if l < 0 || l > MaxCodeLength {
			return nil, errors.Errorf("huffman: code length %d out of range [0,%d]", l, MaxCodeLength)
		}
		d.lengthCount[l]++
	}

	allZero := d.lengthCount[0] == len(lengths)

	left := 1
	for length := 1; length <= MaxCodeLength; length++ {
		left <<= 1
		left -= d.lengthCount[length]
		if left < 0 {
			return nil, errors.Trace(ErrOverSubscribed)
		}
	}
	if left > 0 && !allZero {
		return nil, errors.Trace(ErrIncomplete)
	}

	var nextCode [MaxCodeLength + 2]int
	for length := 1; length <= MaxCodeLength; length++ {
		nextCode[length+1] = nextCode[length] + d.lengthCount[length]
	}

	d.symbols = make([]int, len(lengths)+1)
	cursor := nextCode
	for symbol, l := range lengths {
		if l != 0 {
			d.symbols[cursor[l]] = symbol
			cursor[l]++
		}
	}

	return d, nil
}

// bitReader is the minimal surface DecodeSymbol needs from a bitio.Reader.
type bitReader interface {
	ReadBit() (uint8, error)
}

// DecodeSymbol reads bits MSB-first from r until they resolve to a symbol,
// or fails with ErrInvalidCode after MaxCodeLength bits.
func (d *Decoder) DecodeSymbol(r bitReader) (int, error) {
	code, first, index := 0, 0, 0

	for length := 1; length <= MaxCodeLength; length++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, errors.Annotate(err, "huffman: reading code bit")
		}
		code |= int(bit)

		count := d.lengthCount[length]
		if code-count < first {
			return d.symbols[index+(code-first)], nil
		}
		index += count
		first += count
		first <<= 1
		code <<= 1
	}

	return 0, errors.Trace(ErrInvalidCode)
}

// Encoder maps symbols to canonical codes and their bit lengths, for
// writing Huffman-coded output (used by tests that round-trip the
// decoder, and by anything that re-encodes DEFLATE streams).
type Encoder struct {
	lengths []int
	codes   []int
}

// NewEncoder builds a canonical Huffman encoder from lengths. Like
// NewDecoder, it accepts the all-zero "no codes defined" table, so a
// (Decoder, Encoder) pair built from the same lengths always agree on
// whether the table is usable.
func NewEncoder(lengths []int) (*Encoder, error) {
	n := len(lengths)
	e := &Encoder{lengths: append([]int(nil), lengths...), codes: make([]int, n)}

	var lengthCount [MaxCodeLength + 1]int
	for _, l := range lengths {
		if l < 0 || l > MaxCodeLength {
			return nil, errors.Errorf("huffman: code length %d out of range [0,%d]", l, MaxCodeLength)
		}
		lengthCount[l]++
	}
	allZero := lengthCount[0] == n

	left := 1
	for length := 1; length <= MaxCodeLength; length++ {
		left <<= 1
		left -= lengthCount[length]
		if left < 0 {
			return nil, errors.Trace(ErrOverSubscribed)
		}
	}
	if left > 0 && !allZero {
		return nil, errors.Trace(ErrIncomplete)
	}

	var nextCode [MaxCodeLength + 2]int
	for length := 1; length <= MaxCodeLength; length++ {
		nextCode[length+1] = (nextCode[length] + lengthCount[length]) << 1
	}

	for symbol, l := range lengths {
		if l != 0 {
			e.codes[symbol] = nextCode[l]
			nextCode[l]++
		}
	}

	return e, nil
}

// Code returns the canonical code value and bit length for symbol. The
// code must be written MSB-first (bitio.Writer.PushCode).
func (e *Encoder) Code(symbol int) (code, length int) {
	return e.codes[symbol], e.lengths[symbol]
}

// FixedLiteralDecoder returns the RFC-1951 fixed literal/length decoder
// used by DEFLATE BTYPE=1 blocks.
func FixedLiteralDecoder() (*Decoder, error) {
	return NewDecoder(fixedLiteralLengths())
}

// FixedDistanceDecoder returns the RFC-1951 fixed distance decoder used by
// DEFLATE BTYPE=1 blocks.
func FixedDistanceDecoder() (*Decoder, error) {
	return NewDecoder(fixedDistanceLengths())
}

// FixedLiteralEncoder mirrors FixedLiteralDecoder for the encoding
// direction.
func FixedLiteralEncoder() (*Encoder, error) {
	return NewEncoder(fixedLiteralLengths())
}

// FixedDistanceEncoder mirrors FixedDistanceDecoder for the encoding
// direction.
func FixedDistanceEncoder() (*Encoder, error) {
	return NewEncoder(fixedDistanceLengths())
}

func fixedLiteralLengths() []int {
	lengths := make([]int, 288)
	for i := 0; i <= 143; i++ {
		lengths[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lengths[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lengths[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lengths[i] = 8
	}
	return lengths
}

func fixedDistanceLengths() []int {
	lengths := make([]int, 32)
	for i := range lengths {
		lengths[i] = 5
	}
	return lengths
}
