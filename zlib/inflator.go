package zlib

import (
	"github.com/juju/errors"

	"github.com/BeneDevRepo/BVnc/bitio"
	"github.com/BeneDevRepo/BVnc/deflate"
)

// Inflator is a streaming zlib decoder for a stream fed in chunks that
// don't align with DEFLATE block or byte boundaries. The first chunk Feed
// sees supplies the 2-byte CMF/FLG header; every later chunk is treated
// as more bytes of the same ongoing DEFLATE bitstream. There is no
// trailing Adler-32 check here — a stream used this way is never
// expected to end, matching how RFB keeps one ZRLE zlib stream alive for
// an entire session.
type Inflator struct {
	sawHeader bool
	dec       *deflate.Decompressor
}

// NewInflator returns an Inflator with no input yet.
func NewInflator() *Inflator {
	return &Inflator{dec: deflate.NewDecompressor(bitio.NewReader(nil))}
}

// Feed appends the next chunk of compressed bytes.
func (z *Inflator) Feed(chunk []byte) error {
	if !z.sawHeader {
		if len(chunk) < 2 {
			return errors.Trace(ErrHeaderTooShort)
		}
		if _, err := parseHeader(chunk[0], chunk[1]); err != nil {
			return err
		}
		chunk = chunk[2:]
		z.sawHeader = true
	}
	z.dec.Append(chunk)
	return nil
}

// ReadBytes returns exactly n decompressed bytes, decoding as much of the
// fed input as needed.
func (z *Inflator) ReadBytes(n int) ([]byte, error) {
	return z.dec.ReadBytes(n)
}
