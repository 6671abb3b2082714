package zlib

import (
	"hash/adler32"

	"github.com/juju/errors"

	"github.com/BeneDevRepo/BVnc/bitio"
	"github.com/BeneDevRepo/BVnc/deflate"
)

const deflateMethod = 8

// header is the parsed CMF/FLG pair.
type header struct {
	cinfo  uint8
	flevel uint8
	fdict  bool
}

func parseHeader(cmf, flg byte) (header, error) {
	h := header{
		cinfo:  cmf >> 4,
		flevel: flg >> 6,
		fdict:  (flg>>5)&1 == 1,
	}
	if cmf&0xF != deflateMethod {
		return h, errors.Trace(ErrUnsupportedCompressionMethod)
	}
	if h.fdict {
		return h, errors.Trace(ErrPresetDictionaryUnsupported)
	}
	return h, nil
}

// Decompress decodes a complete, self-contained zlib stream: the 2-byte
// header, one or more DEFLATE blocks, and the trailing 4-byte big-endian
// Adler-32 checksum, which is verified against the decompressed output.
func Decompress(data []byte) ([]byte, error) {
	r := bitio.NewReader(data)

	cmf, err := r.ReadNum(8)
	if err != nil {
		return nil, errors.Annotate(err, "zlib: reading CMF")
	}
	flg, err := r.ReadNum(8)
	if err != nil {
		return nil, errors.Annotate(err, "zlib: reading FLG")
	}
	if _, err := parseHeader(byte(cmf), byte(flg)); err != nil {
		return nil, err
	}

	output, err := deflate.Decompress(r, nil)
	if err != nil {
		return nil, errors.Annotate(err, "zlib: decompressing DEFLATE stream")
	}

	r.FlushBits()
	var checksum uint32
	for i := 0; i < 4; i++ {
		b, err := r.ReadNum(8)
		if err != nil {
			return nil, errors.Annotate(err, "zlib: reading Adler-32 trailer")
		}
		checksum = checksum<<8 | b
	}

	if want := adler32.Checksum(output); checksum != want {
		return nil, errors.Trace(ErrChecksumMismatch)
	}

	return output, nil
}
