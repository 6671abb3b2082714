package rfb

import (
	"encoding/binary"

	"github.com/juju/errors"
)

// Client→server message types (§4.7).
const (
	msgFramebufferUpdateRequest = 3
	msgKeyEvent                 = 4
	msgPointerEvent             = 5
)

// RequestUpdate sends a FramebufferUpdateRequest for the given region.
// incremental asks the server to send only what's changed since the last
// full update.
func (c *Client) RequestUpdate(incremental bool, x, y, w, h uint16) error {
	msg := make([]byte, 10)
	msg[0] = msgFramebufferUpdateRequest
	if incremental {
		msg[1] = 1
	}
	binary.BigEndian.PutUint16(msg[2:4], x)
	binary.BigEndian.PutUint16(msg[4:6], y)
	binary.BigEndian.PutUint16(msg[6:8], w)
	binary.BigEndian.PutUint16(msg[8:10], h)
	return errors.Annotate(c.send(msg), "rfb: sending FramebufferUpdateRequest")
}

// SendKeyEvent sends a KeyEvent for the X11 keysym key: down=true on
// press, false on release.
func (c *Client) SendKeyEvent(keysym uint32, down bool) error {
	msg := make([]byte, 8)
	msg[0] = msgKeyEvent
	if down {
		msg[1] = 1
	}
	binary.BigEndian.PutUint32(msg[4:8], keysym)
	return errors.Annotate(c.send(msg), "rfb: sending KeyEvent")
}

// Pointer button bits for SendPointerEvent's buttonMask (§4.7).
const (
	ButtonLeft   = 1 << 0
	ButtonMiddle = 1 << 1
	ButtonRight  = 1 << 2
)

// SendPointerEvent sends a PointerEvent at (x, y) with the given button
// mask.
func (c *Client) SendPointerEvent(buttonMask uint8, x, y uint16) error {
	msg := make([]byte, 6)
	msg[0] = msgPointerEvent
	msg[1] = buttonMask
	binary.BigEndian.PutUint16(msg[2:4], x)
	binary.BigEndian.PutUint16(msg[4:6], y)
	return errors.Annotate(c.send(msg), "rfb: sending PointerEvent")
}

// Server→client message types (§4.7).
const (
	msgFramebufferUpdate   = 0
	msgSetColorMapEntries  = 1
	msgBell                = 2
	msgServerCutText       = 3
)

// Poll consumes exactly one server→client message if one is already
// available, and returns immediately otherwise. Once dataAvailable
// reports true, Poll blocks until that one message is fully consumed —
// buffered data never stalls the socket (§4.7's ordering guarantee).
func (c *Client) Poll() error {
	if !c.sock.DataAvailable() {
		return nil
	}

	typeBuf, err := c.recv(1)
	if err != nil {
		return errors.Annotate(err, "rfb: reading server message type")
	}

	switch typeBuf[0] {
	case msgFramebufferUpdate:
		return c.handleFramebufferUpdate()
	case msgSetColorMapEntries:
		return errors.Annotatef(ErrUnsupportedServerMessage, "SetColorMapEntries (type %d)", typeBuf[0])
	case msgBell:
		if c.OnBell != nil {
			c.OnBell()
		}
		return nil
	case msgServerCutText:
		return c.handleServerCutText()
	default:
		return errors.Annotatef(ErrUnknownServerMessage, "type %d", typeBuf[0])
	}
}

func (c *Client) handleServerCutText() error {
	if _, err := c.recv(3); err != nil { // padding
		return errors.Annotate(err, "rfb: reading ServerCutText padding")
	}
	lenBuf, err := c.recv(4)
	if err != nil {
		return errors.Annotate(err, "rfb: reading ServerCutText length")
	}
	textLen := binary.BigEndian.Uint32(lenBuf)
	textBuf, err := c.recv(int(textLen))
	if err != nil {
		return errors.Annotate(err, "rfb: reading ServerCutText body")
	}
	if c.OnServerClipboard != nil {
		c.OnServerClipboard(string(textBuf))
	}
	return nil
}

func (c *Client) handleFramebufferUpdate() error {
	if _, err := c.recv(1); err != nil { // padding
		return errors.Annotate(err, "rfb: reading FramebufferUpdate padding")
	}
	countBuf, err := c.recv(2)
	if err != nil {
		return errors.Annotate(err, "rfb: reading rectangle count")
	}
	numRects := binary.BigEndian.Uint16(countBuf)

	for i := uint16(0); i < numRects; i++ {
		if err := c.handleRectangle(); err != nil {
			return errors.Annotatef(err, "rfb: rectangle %d/%d", i+1, numRects)
		}
	}
	return nil
}

func (c *Client) handleRectangle() error {
	header, err := c.recv(12)
	if err != nil {
		return errors.Annotate(err, "rfb: reading rectangle header")
	}
	x := binary.BigEndian.Uint16(header[0:2])
	y := binary.BigEndian.Uint16(header[2:4])
	w := binary.BigEndian.Uint16(header[4:6])
	h := binary.BigEndian.Uint16(header[6:8])
	encoding := int32(binary.BigEndian.Uint32(header[8:12]))

	switch encoding {
	case EncodingRaw:
		return c.decodeRaw(x, y, w, h)
	case EncodingCopyRect:
		return c.decodeCopyRect(x, y, w, h)
	case EncodingZRLE:
		return c.decodeZRLE(x, y, w, h)
	case EncodingCursor:
		return c.decodeCursor(x, y, w, h)
	default:
		return errors.Annotatef(ErrUnsupportedEncoding, "%d", encoding)
	}
}
