package deflate

import (
	"github.com/juju/errors"

	"github.com/BeneDevRepo/BVnc/bitio"
	"github.com/BeneDevRepo/BVnc/huffman"
)

// ErrReservedBlockType is returned when a block header's BTYPE field is 3,
// the reserved/invalid value RFC 1951 never assigns a meaning to.
var ErrReservedBlockType = errors.New("deflate: BTYPE 3 is reserved")

// ErrStoredLengthMismatch is returned when a stored block's LEN and NLEN
// fields aren't complements of each other.
var ErrStoredLengthMismatch = errors.New("deflate: stored block LEN != ~NLEN")

// ErrMissingEndOfBlockCode is returned when a dynamic block's literal
// table has no code for the end-of-block symbol.
var ErrMissingEndOfBlockCode = errors.New("deflate: dynamic table has no end-of-block code")

// ErrBadLengthSymbol is returned when a length/literal decode yields a
// value past the 257..285 range that DEFLATE defines.
var ErrBadLengthSymbol = errors.New("deflate: length symbol out of range")

// ErrBadBackReference is returned when a back-reference's distance
// reaches further back than any byte decoded so far in this stream.
var ErrBadBackReference = errors.New("deflate: back-reference distance exceeds history")

// DecompressBlock decodes one DEFLATE block from r, appending decoded
// bytes to output, and reports whether this was the final block (BFINAL).
// output is also the LZ77 history buffer: back-references index directly
// into bytes already appended to it, so callers decoding a multi-block
// stream must keep accumulating into the same slice across calls.
func DecompressBlock(r *bitio.Reader, output []byte) ([]byte, bool, error) {
	bfinal, err := r.ReadBit()
	if err != nil {
		return output, false, errors.Annotate(err, "deflate: reading BFINAL")
	}
	btype, err := r.ReadNum(2)
	if err != nil {
		return output, false, errors.Annotate(err, "deflate: reading BTYPE")
	}

	switch btype {
	case btypeStored:
		output, err = inflateStored(r, output)
	case btypeFixed:
		var lit, dist *huffman.Decoder
		lit, err = huffman.FixedLiteralDecoder()
		if err == nil {
			dist, err = huffman.FixedDistanceDecoder()
		}
		if err == nil {
			output, err = decodeCompressed(r, output, lit, dist)
		}
	case btypeDynamic:
		var lit, dist *huffman.Decoder
		lit, dist, err = extractCodeTables(r)
		if err == nil {
			output, err = decodeCompressed(r, output, lit, dist)
		}
	default:
		err = errors.Trace(ErrReservedBlockType)
	}
	if err != nil {
		return output, false, err
	}

	return output, bfinal == 1, nil
}

// Decompress decodes a full DEFLATE stream (one or more blocks up to and
// including the one with BFINAL set) from r.
func Decompress(r *bitio.Reader, output []byte) ([]byte, error) {
	for {
		var final bool
		var err error
		output, final, err = DecompressBlock(r, output)
		if err != nil {
			return output, err
		}
		if final {
			return output, nil
		}
	}
}

func inflateStored(r *bitio.Reader, output []byte) ([]byte, error) {
	r.FlushBits()

	length, err := r.ReadNum(16)
	if err != nil {
		return output, errors.Annotate(err, "deflate: reading stored LEN")
	}
	nlen, err := r.ReadNum(16)
	if err != nil {
		return output, errors.Annotate(err, "deflate: reading stored NLEN")
	}
	if uint16(length) != ^uint16(nlen) {
		return output, errors.Trace(ErrStoredLengthMismatch)
	}

	for i := uint32(0); i < length; i++ {
		b, err := r.ReadNum(8)
		if err != nil {
			return output, errors.Annotate(err, "deflate: reading stored byte")
		}
		output = append(output, byte(b))
	}
	return output, nil
}

func extractCodeTables(r *bitio.Reader) (literal, dist *huffman.Decoder, err error) {
	hlit, err := r.ReadNum(5)
	if err != nil {
		return nil, nil, errors.Annotate(err, "deflate: reading HLIT")
	}
	hdist, err := r.ReadNum(5)
	if err != nil {
		return nil, nil, errors.Annotate(err, "deflate: reading HDIST")
	}
	hclen, err := r.ReadNum(4)
	if err != nil {
		return nil, nil, errors.Annotate(err, "deflate: reading HCLEN")
	}

	numLiteral := int(hlit) + 257
	numDist := int(hdist) + 1
	numCompression := int(hclen) + 4

	compressionLengths := make([]int, 19)
	for i := 0; i < numCompression; i++ {
		l, err := r.ReadNum(3)
		if err != nil {
			return nil, nil, errors.Annotate(err, "deflate: reading code-length alphabet length")
		}
		compressionLengths[codeLengthOrder[i]] = int(l)
	}

	compressionTable, err := huffman.NewDecoder(compressionLengths)
	if err != nil {
		return nil, nil, errors.Annotate(err, "deflate: building code-length table")
	}

	allLengths := make([]int, numLiteral+numDist)
	for i := 0; i < len(allLengths); {
		symbol, err := compressionTable.DecodeSymbol(r)
		if err != nil {
			return nil, nil, errors.Annotate(err, "deflate: decoding code-length symbol")
		}

		var length, numRepeats int
		switch {
		case symbol <= 15:
			allLengths[i] = symbol
			i++
			continue
		case symbol == 16:
			if i == 0 {
				return nil, nil, errors.Errorf("deflate: symbol 16 repeats a previous length, but none decoded yet")
			}
			length = allLengths[i-1]
			extra, err := r.ReadNum(2)
			if err != nil {
				return nil, nil, errors.Annotate(err, "deflate: reading symbol-16 repeat count")
			}
			numRepeats = 3 + int(extra)
		case symbol == 17:
			extra, err := r.ReadNum(3)
			if err != nil {
				return nil, nil, errors.Annotate(err, "deflate: reading symbol-17 repeat count")
			}
			numRepeats = 3 + int(extra)
		case symbol == 18:
			extra, err := r.ReadNum(7)
			if err != nil {
				return nil, nil, errors.Annotate(err, "deflate: reading symbol-18 repeat count")
			}
			numRepeats = 11 + int(extra)
		default:
			return nil, nil, errors.Errorf("deflate: code-length symbol %d out of range", symbol)
		}

		if i+numRepeats > len(allLengths) {
			return nil, nil, errors.Errorf("deflate: repeated code lengths overrun the table")
		}
		for j := 0; j < numRepeats; j++ {
			allLengths[i] = length
			i++
		}
	}

	if allLengths[endOfBlockSymbol] == 0 {
		return nil, nil, errors.Trace(ErrMissingEndOfBlockCode)
	}

	literal, err = huffman.NewDecoder(allLengths[:numLiteral])
	if err != nil {
		return nil, nil, errors.Annotate(err, "deflate: building literal/length table")
	}
	dist, err = huffman.NewDecoder(allLengths[numLiteral:])
	if err != nil {
		return nil, nil, errors.Annotate(err, "deflate: building distance table")
	}
	return literal, dist, nil
}

func decodeCompressed(r *bitio.Reader, output []byte, literal, dist *huffman.Decoder) ([]byte, error) {
	for {
		symbol, err := literal.DecodeSymbol(r)
		if err != nil {
			return output, errors.Annotate(err, "deflate: decoding literal/length symbol")
		}

		switch {
		case symbol < endOfBlockSymbol:
			output = append(output, byte(symbol))
		case symbol == endOfBlockSymbol:
			return output, nil
		default:
			lengthSymbol := symbol - 257
			if lengthSymbol >= len(lengthBase) {
				return output, errors.Trace(ErrBadLengthSymbol)
			}
			extra, err := r.ReadNum(lengthExtraBits[lengthSymbol])
			if err != nil {
				return output, errors.Annotate(err, "deflate: reading length extra bits")
			}
			length := lengthBase[lengthSymbol] + int(extra)

			distSymbol, err := dist.DecodeSymbol(r)
			if err != nil {
				return output, errors.Annotate(err, "deflate: decoding distance symbol")
			}
			if distSymbol >= len(distBase) {
				return output, errors.Errorf("deflate: distance symbol %d out of range", distSymbol)
			}
			distExtra, err := r.ReadNum(distExtraBits[distSymbol])
			if err != nil {
				return output, errors.Annotate(err, "deflate: reading distance extra bits")
			}
			distance := distBase[distSymbol] + int(distExtra)

			if distance > len(output) {
				return output, errors.Trace(ErrBadBackReference)
			}
			for i := 0; i < length; i++ {
				output = append(output, output[len(output)-distance])
			}
		}
	}
}
