package rfb

import (
	"encoding/binary"

	"github.com/juju/errors"

	"github.com/BeneDevRepo/BVnc/zlib"
)

// zrleContext is the session-scoped ZRLE decompression state of §3: one
// zlib/DEFLATE stream shared across every ZRLE rectangle of the session.
// It is owned by Client and dies with it — never process-global, per §9.
type zrleContext struct {
	inflator *zlib.Inflator
}

func newZRLEContext() *zrleContext {
	return &zrleContext{inflator: zlib.NewInflator()}
}

const zrleTileSize = 64

// decodeZRLE implements §4.11: the rectangle's payload feeds the session's
// ongoing zlib/DEFLATE stream, then tiles are decoded in row-major order.
func (c *Client) decodeZRLE(x, y, w, h uint16) error {
	lenBuf, err := c.recv(4)
	if err != nil {
		return errors.Annotate(err, "rfb: reading ZRLE payload length")
	}
	payloadLen := binary.BigEndian.Uint32(lenBuf)

	payload, err := c.recv(int(payloadLen))
	if err != nil {
		return errors.Annotate(err, "rfb: reading ZRLE payload")
	}
	if err := c.zrle.inflator.Feed(payload); err != nil {
		return errors.Annotate(err, "rfb: feeding ZRLE payload to zlib stream")
	}

	scratch := make([]uint32, zrleTileSize*zrleTileSize)
	for tileY := uint16(0); tileY < h; tileY += zrleTileSize {
		tileH := minU16(zrleTileSize, h-tileY)
		for tileX := uint16(0); tileX < w; tileX += zrleTileSize {
			tileW := minU16(zrleTileSize, w-tileX)
			tile := scratch[:int(tileW)*int(tileH)]
			if err := c.decodeZRLETile(tile, tileW, tileH); err != nil {
				return errors.Annotatef(err, "rfb: ZRLE tile at (%d,%d)", tileX, tileY)
			}
			for row := uint16(0); row < tileH; row++ {
				for col := uint16(0); col < tileW; col++ {
					c.fb.setPixel(x+tileX+col, y+tileY+row, tile[int(row)*int(tileW)+int(col)])
				}
			}
		}
	}
	return nil
}

func minU16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}

// readCPIXEL reads one compact pixel: 3 bytes, channel order (B, G, R),
// returned as this client's 0x00RRGGBB word (§4.11).
func (c *Client) readCPIXEL() (uint32, error) {
	buf, err := c.zrle.inflator.ReadBytes(3)
	if err != nil {
		return 0, errors.Annotate(err, "rfb: reading CPIXEL")
	}
	b, g, r := buf[0], buf[1], buf[2]
	return rgbWord(r, g, b), nil
}

// readRunLengthSuffix implements §4.11's run-length suffix: sum successive
// 255 bytes, add the final (non-255) byte, then add one.
func (c *Client) readRunLengthSuffix() (int, error) {
	total := 0
	for {
		buf, err := c.zrle.inflator.ReadBytes(1)
		if err != nil {
			return 0, errors.Annotate(err, "rfb: reading run length suffix")
		}
		total += int(buf[0])
		if buf[0] != 255 {
			return total + 1, nil
		}
	}
}

func (c *Client) decodeZRLETile(tile []uint32, tileW, tileH uint16) error {
	subBuf, err := c.zrle.inflator.ReadBytes(1)
	if err != nil {
		return errors.Annotate(err, "rfb: reading tile sub-encoding")
	}
	sub := subBuf[0]

	switch {
	case sub == 0:
		return c.decodeZRLERaw(tile)
	case sub == 1:
		pixel, err := c.readCPIXEL()
		if err != nil {
			return err
		}
		fillPixels(tile, pixel)
		return nil
	case sub >= 2 && sub <= 16:
		return c.decodeZRLEPackedPalette(tile, tileW, tileH, int(sub))
	case sub == 128:
		return c.decodeZRLEPlainRLE(tile)
	case sub >= 130:
		return c.decodeZRLEPaletteRLE(tile, int(sub)-128)
	default:
		return errors.Annotatef(ErrInvalidZrleSubEncoding, "%d", sub)
	}
}

func (c *Client) decodeZRLERaw(tile []uint32) error {
	for i := range tile {
		pixel, err := c.readCPIXEL()
		if err != nil {
			return err
		}
		tile[i] = pixel
	}
	return nil
}

func (c *Client) readPalette(n int) ([]uint32, error) {
	palette := make([]uint32, n)
	for i := range palette {
		pixel, err := c.readCPIXEL()
		if err != nil {
			return nil, errors.Annotate(err, "rfb: reading tile palette")
		}
		palette[i] = pixel
	}
	return palette, nil
}

func packedPixelBits(paletteSize int) int {
	switch {
	case paletteSize <= 2:
		return 1
	case paletteSize <= 4:
		return 2
	default:
		return 4
	}
}

func (c *Client) decodeZRLEPackedPalette(tile []uint32, tileW, tileH uint16, paletteSize int) error {
	palette, err := c.readPalette(paletteSize)
	if err != nil {
		return err
	}
	bitsPerIndex := packedPixelBits(paletteSize)
	mask := uint8(1<<bitsPerIndex - 1)

	for row := uint16(0); row < tileH; row++ {
		var current byte
		var bitsLeft int
		for col := uint16(0); col < tileW; col++ {
			if bitsLeft == 0 {
				buf, err := c.zrle.inflator.ReadBytes(1)
				if err != nil {
					return errors.Annotate(err, "rfb: reading packed palette byte")
				}
				current = buf[0]
				bitsLeft = 8
			}
			bitsLeft -= bitsPerIndex
			idx := (current >> bitsLeft) & mask
			tile[int(row)*int(tileW)+int(col)] = palette[idx]
		}
	}
	return nil
}

func (c *Client) decodeZRLEPlainRLE(tile []uint32) error {
	for pos := 0; pos < len(tile); {
		pixel, err := c.readCPIXEL()
		if err != nil {
			return err
		}
		run, err := c.readRunLengthSuffix()
		if err != nil {
			return err
		}
		end := pos + run
		if end > len(tile) {
			end = len(tile)
		}
		fillPixels(tile[pos:end], pixel)
		pos += run
	}
	return nil
}

func (c *Client) decodeZRLEPaletteRLE(tile []uint32, paletteSize int) error {
	palette, err := c.readPalette(paletteSize)
	if err != nil {
		return err
	}

	for pos := 0; pos < len(tile); {
		idxBuf, err := c.zrle.inflator.ReadBytes(1)
		if err != nil {
			return errors.Annotate(err, "rfb: reading palette RLE index")
		}
		idxByte := idxBuf[0]

		run := 1
		if idxByte&0x80 != 0 {
			run, err = c.readRunLengthSuffix()
			if err != nil {
				return err
			}
		}
		idx := idxByte & 0x7F
		if int(idx) >= len(palette) {
			return errors.Errorf("rfb: ZRLE palette index %d out of range (palette size %d)", idx, len(palette))
		}

		end := pos + run
		if end > len(tile) {
			end = len(tile)
		}
		fillPixels(tile[pos:end], palette[idx])
		pos += run
	}
	return nil
}

func fillPixels(dst []uint32, pixel uint32) {
	for i := range dst {
		dst[i] = pixel
	}
}
