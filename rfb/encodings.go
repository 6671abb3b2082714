package rfb

import (
	"encoding/binary"

	"github.com/juju/errors"
)

// rgbWord packs 8-bit red/green/blue into this client's canonical
// in-memory pixel representation, 0x00RRGGBB (§3).
func rgbWord(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// extractRGB pulls red/green/blue out of a raw pixel value using the
// server-advertised PixelFormat's shifts and maxes (§4.7's PixelFormat
// layout).
func (c *Client) extractRGB(raw uint32) (r, g, b uint8) {
	f := c.format
	r = uint8(scaleChannel((raw>>f.RedShift)&uint32(f.RedMax), f.RedMax))
	g = uint8(scaleChannel((raw>>f.GreenShift)&uint32(f.GreenMax), f.GreenMax))
	b = uint8(scaleChannel((raw>>f.BlueShift)&uint32(f.BlueMax), f.BlueMax))
	return
}

// scaleChannel rescales a channel value in [0, max] up to the [0, 255]
// range this client's in-memory pixels always use. Real servers advertise
// max=255 (8 bits per channel), so this is normally the identity.
func scaleChannel(value uint32, max uint16) uint32 {
	if max == 0 {
		return 0
	}
	return value * 255 / uint32(max)
}

func (c *Client) bytesPerPixel() int { return int(c.format.BitsPerPixel) / 8 }

func (c *Client) byteOrder() binary.ByteOrder {
	if c.format.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (c *Client) decodeRawPixel(buf []byte) uint32 {
	order := c.byteOrder()
	var raw uint32
	switch c.bytesPerPixel() {
	case 1:
		raw = uint32(buf[0])
	case 2:
		raw = uint32(order.Uint16(buf))
	default:
		raw = order.Uint32(buf)
	}
	r, g, b := c.extractRGB(raw)
	return rgbWord(r, g, b)
}

// decodeRaw implements §4.8: w·h pixels read from the stream in the
// server's pixel format and stored as 0x00RRGGBB words.
func (c *Client) decodeRaw(x, y, w, h uint16) error {
	bpp := c.bytesPerPixel()
	row := make([]byte, int(w)*bpp)
	for r := uint16(0); r < h; r++ {
		buf, err := c.recv(len(row))
		if err != nil {
			return errors.Annotate(err, "rfb: reading raw rectangle row")
		}
		copy(row, buf)
		for col := uint16(0); col < w; col++ {
			pixel := c.decodeRawPixel(row[int(col)*bpp : int(col)*bpp+bpp])
			c.fb.setPixel(x+col, y+r, pixel)
		}
	}
	return nil
}

// decodeCopyRect implements §4.9.
func (c *Client) decodeCopyRect(x, y, w, h uint16) error {
	buf, err := c.recv(4)
	if err != nil {
		return errors.Annotate(err, "rfb: reading CopyRect source")
	}
	srcX := binary.BigEndian.Uint16(buf[0:2])
	srcY := binary.BigEndian.Uint16(buf[2:4])
	c.fb.copyRect(srcX, srcY, x, y, w, h)
	return nil
}

// decodeCursor implements §4.10: consume and discard the cursor bitmap and
// mask, optionally surfacing it to the host via OnCursor.
func (c *Client) decodeCursor(x, y, w, h uint16) error {
	pixelBytes, err := c.recv(int(w) * int(h) * 4)
	if err != nil {
		return errors.Annotate(err, "rfb: reading cursor pixels")
	}
	maskBytes, err := c.recv(((int(w) + 7) / 8) * int(h))
	if err != nil {
		return errors.Annotate(err, "rfb: reading cursor mask")
	}
	if c.OnCursor != nil {
		c.OnCursor(CursorShape{X: x, Y: y, Width: w, Height: h, Pixels: pixelBytes, Mask: maskBytes})
	}
	return nil
}
