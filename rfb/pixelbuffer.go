package rfb

import "encoding/binary"

// pixelBuffer is the owned, row-major framebuffer mirror: one 4-byte
// little-endian 0x00RRGGBB word per pixel, per §3/§6.
type pixelBuffer struct {
	width, height uint16
	data          []byte
}

func newPixelBuffer(width, height uint16) *pixelBuffer {
	return &pixelBuffer{
		width:  width,
		height: height,
		data:   make([]byte, int(width)*int(height)*4),
	}
}

func (p *pixelBuffer) setPixel(x, y uint16, rgb uint32) {
	off := (int(y)*int(p.width) + int(x)) * 4
	binary.LittleEndian.PutUint32(p.data[off:off+4], rgb)
}

func (p *pixelBuffer) pixel(x, y uint16) uint32 {
	off := (int(y)*int(p.width) + int(x)) * 4
	return binary.LittleEndian.Uint32(p.data[off : off+4])
}

// copyRect copies a w×h region from (srcX, srcY) to (dstX, dstY). The
// source is snapshotted first so an overlapping destination never reads
// pixels this same call already overwrote (§4.9, §8 scenario 6).
func (p *pixelBuffer) copyRect(srcX, srcY, dstX, dstY, w, h uint16) {
	snapshot := make([]uint32, int(w)*int(h))
	for row := uint16(0); row < h; row++ {
		for col := uint16(0); col < w; col++ {
			snapshot[int(row)*int(w)+int(col)] = p.pixel(srcX+col, srcY+row)
		}
	}
	for row := uint16(0); row < h; row++ {
		for col := uint16(0); col < w; col++ {
			p.setPixel(dstX+col, dstY+row, snapshot[int(row)*int(w)+int(col)])
		}
	}
}
