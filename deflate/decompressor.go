package deflate

import (
	"io"

	"github.com/juju/errors"

	"github.com/BeneDevRepo/BVnc/bitio"
	"github.com/BeneDevRepo/BVnc/huffman"
)

// Decompressor is a pull-based DEFLATE decoder whose input can arrive in
// chunks over time: Append feeds more compressed bytes, and ReadByte
// yields decoded bytes one at a time, transparently crossing block and
// chunk boundaries. This is what lets ZRLE rectangles share one ongoing
// DEFLATE stream instead of each carrying an independent one.
type Decompressor struct {
	r       *bitio.Reader
	history []byte // every decompressed byte so far; doubles as the LZ77 window
	cursor  int     // how many bytes of history have been handed to ReadByte

	active        bool // a compressed block's tables are loaded and mid-decode
	literal, dist *huffman.Decoder
	final         bool // the block currently or most recently active had BFINAL set
	eof           bool // the final block's end-of-block symbol has been consumed
}

// NewDecompressor returns a Decompressor reading from r. r typically
// starts out empty; feed it via Append.
func NewDecompressor(r *bitio.Reader) *Decompressor {
	return &Decompressor{r: r}
}

// Append adds more compressed bytes to the input stream.
func (d *Decompressor) Append(chunk []byte) {
	d.r.Append(chunk)
}

// ReadByte returns the next decompressed byte, decoding as much of the
// DEFLATE stream as necessary. It returns io.EOF when the stream's final
// block has been fully consumed. When the input appended so far runs out
// mid-block it returns an error whose cause is io.EOF; bits already
// consumed by a partially read code or field are not restored, so
// decoding does not resume correctly from that point after more input is
// appended.
func (d *Decompressor) ReadByte() (byte, error) {
	for d.cursor >= len(d.history) {
		if err := d.fillMore(); err != nil {
			return 0, err
		}
	}
	b := d.history[d.cursor]
	d.cursor++
	return b, nil
}

// ReadBytes reads exactly n decompressed bytes.
func (d *Decompressor) ReadBytes(n int) ([]byte, error) {
	out := make([]byte, n)
	for i := range out {
		b, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// fillMore decodes until history grows by at least one byte, or returns
// an error (including io.EOF) if it can't.
func (d *Decompressor) fillMore() error {
	for {
		if !d.active {
			if err := d.startBlock(); err != nil {
				return err
			}
			if !d.active {
				// startBlock fully inflated a stored block directly into
				// history; if that grew history we're done, otherwise
				// (an empty stored block, or the stream just ended) loop
				// to either pick up more history or hit eof.
				if d.cursor < len(d.history) {
					return nil
				}
				if d.eof {
					return io.EOF
				}
				continue
			}
		}

		symbol, err := d.literal.DecodeSymbol(d.r)
		if err != nil {
			return errors.Annotate(err, "deflate: decoding literal/length symbol")
		}

		switch {
		case symbol < endOfBlockSymbol:
			d.history = append(d.history, byte(symbol))
			return nil
		case symbol == endOfBlockSymbol:
			d.active = false
			if d.final {
				d.eof = true
				return io.EOF
			}
			continue
		default:
			lengthSymbol := symbol - 257
			if lengthSymbol >= len(lengthBase) {
				return errors.Trace(ErrBadLengthSymbol)
			}
			extra, err := d.r.ReadNum(lengthExtraBits[lengthSymbol])
			if err != nil {
				return errors.Annotate(err, "deflate: reading length extra bits")
			}
			length := lengthBase[lengthSymbol] + int(extra)

			distSymbol, err := d.dist.DecodeSymbol(d.r)
			if err != nil {
				return errors.Annotate(err, "deflate: decoding distance symbol")
			}
			if distSymbol >= len(distBase) {
				return errors.Errorf("deflate: distance symbol %d out of range", distSymbol)
			}
			distExtra, err := d.r.ReadNum(distExtraBits[distSymbol])
			if err != nil {
				return errors.Annotate(err, "deflate: reading distance extra bits")
			}
			distance := distBase[distSymbol] + int(distExtra)

			if distance > len(d.history) {
				return errors.Trace(ErrBadBackReference)
			}
			for i := 0; i < length; i++ {
				d.history = append(d.history, d.history[len(d.history)-distance])
			}
			return nil
		}
	}
}

// startBlock reads a new block header. For a stored block it inflates the
// block's bytes directly into history and leaves d.active false. For a
// compressed block it loads the literal/distance tables and sets
// d.active true, ready for fillMore's symbol loop.
func (d *Decompressor) startBlock() error {
	if d.eof {
		return io.EOF
	}

	bfinal, err := d.r.ReadBit()
	if err != nil {
		return errors.Annotate(err, "deflate: reading BFINAL")
	}
	btype, err := d.r.ReadNum(2)
	if err != nil {
		return errors.Annotate(err, "deflate: reading BTYPE")
	}
	d.final = bfinal == 1

	switch btype {
	case btypeStored:
		d.history, err = inflateStored(d.r, d.history)
		if err != nil {
			return err
		}
		d.active = false
		if d.final {
			d.eof = true
		}
		return nil
	case btypeFixed:
		d.literal, err = huffman.FixedLiteralDecoder()
		if err == nil {
			d.dist, err = huffman.FixedDistanceDecoder()
		}
	case btypeDynamic:
		d.literal, d.dist, err = extractCodeTables(d.r)
	default:
		err = errors.Trace(ErrReservedBlockType)
	}
	if err != nil {
		return err
	}
	d.active = true
	return nil
}
