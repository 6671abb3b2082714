// Package rfb implements the core of a remote-framebuffer (RFB/VNC)
// client: the handshake, authentication, server-init parsing, encoding
// negotiation, the client→server event senders, and the server→client
// update loop with its per-encoding rectangle decoders.
package rfb

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/juju/errors"

	"github.com/BeneDevRepo/BVnc/auth"
	"github.com/BeneDevRepo/BVnc/transport"
)

// Client is a single RFB session. It owns the socket, the pixel buffer,
// the ZRLE decompression context, and the protocol state machine — per
// §3's "Entity ownership", none of this is process-global, so two Clients
// never interfere with each other.
type Client struct {
	cfg    Config
	sock   transport.Socket
	state  state
	logger Logger

	format     PixelFormat
	serverName string
	fb         *pixelBuffer
	zrle       *zrleContext

	OnBell            func()
	OnServerClipboard func(text string)
	OnCursor          func(CursorShape)
}

// NewClient builds a Client that hasn't connected yet.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = log
	}
	return &Client{cfg: cfg, state: stateHandshakeVersion, logger: logger}
}

// Width and Height report framebuffer dimensions; valid once Connect has
// returned successfully.
func (c *Client) Width() uint16  { return c.fb.width }
func (c *Client) Height() uint16 { return c.fb.height }

// PixelData is a read-only view of the owned pixel buffer: row-major,
// 4 bytes per pixel, little-endian words encoding 0x00RRGGBB.
func (c *Client) PixelData() []byte { return c.fb.data }

// Connect performs the full synchronous handshake (§4.7): version
// negotiation, security-type selection and optional VNC authentication,
// ClientInit, ServerInit, and encoding negotiation. On success the
// session is in the RUNNING state and Poll may be called.
func (c *Client) Connect() error {
	sock, err := c.dial()
	if err != nil {
		return errors.Annotate(err, "rfb: connect")
	}
	c.sock = sock

	if err := c.negotiateVersion(); err != nil {
		return err
	}
	if err := c.negotiateSecurity(); err != nil {
		return err
	}
	if err := c.clientInit(); err != nil {
		return err
	}
	if err := c.serverInit(); err != nil {
		return err
	}
	if err := c.setEncodings(); err != nil {
		return err
	}

	c.zrle = newZRLEContext()
	c.state = stateRunning
	c.logger.Infof("rfb: session running, framebuffer %dx%d", c.fb.width, c.fb.height)
	return nil
}

func (c *Client) dial() (transport.Socket, error) {
	if c.cfg.Dial != nil {
		return c.cfg.Dial()
	}
	return transport.Dial(transport.DialConfig{
		Address: fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port),
	})
}

// negotiateVersion implements §4.7 step 1.
func (c *Client) negotiateVersion() error {
	banner, err := c.recv(12)
	if err != nil {
		return errors.Annotate(err, "rfb: reading protocol version")
	}
	c.logger.Debugf("rfb: server version banner %q", string(banner))

	if err := c.send([]byte("RFB 003.008\n")); err != nil {
		return errors.Annotate(err, "rfb: sending protocol version")
	}
	c.state = stateHandshakeSecurity
	return nil
}

// negotiateSecurity implements §4.7 steps 2-5.
func (c *Client) negotiateSecurity() error {
	nTypes, err := c.recv(1)
	if err != nil {
		return errors.Annotate(err, "rfb: reading security type count")
	}

	if nTypes[0] == 0 {
		lenBuf, err := c.recv(4)
		if err != nil {
			return errors.Annotate(err, "rfb: reading handshake rejection length")
		}
		reasonLen := binary.BigEndian.Uint32(lenBuf)
		reason, err := c.recv(int(reasonLen))
		if err != nil {
			return errors.Annotate(err, "rfb: reading handshake rejection reason")
		}
		return errors.Annotatef(ErrHandshakeRejected, "%s", string(reason))
	}

	types, err := c.recv(int(nTypes[0]))
	if err != nil {
		return errors.Annotate(err, "rfb: reading offered security types")
	}

	var selected byte
	switch {
	case containsByte(types, secTypeNone):
		selected = secTypeNone
	case containsByte(types, secTypeVNCAuth):
		selected = secTypeVNCAuth
	default:
		return errors.Trace(ErrNoAcceptableSecurityType)
	}
	c.logger.Debugf("rfb: selecting security type %d", selected)
	if err := c.send([]byte{selected}); err != nil {
		return errors.Annotate(err, "rfb: sending selected security type")
	}

	if selected == secTypeVNCAuth {
		c.state = stateAuthChallenge
		if err := c.vncAuth(); err != nil {
			return err
		}
	}

	return c.securityResult()
}

func (c *Client) vncAuth() error {
	challenge, err := c.recv(16)
	if err != nil {
		return errors.Annotate(err, "rfb: reading auth challenge")
	}
	response, err := auth.EncryptChallenge(c.cfg.Password, challenge)
	if err != nil {
		return errors.Annotate(err, "rfb: computing auth response")
	}
	if err := c.send(response); err != nil {
		return errors.Annotate(err, "rfb: sending auth response")
	}
	return nil
}

func (c *Client) securityResult() error {
	c.state = stateHandshakeSecurityResult
	resultBuf, err := c.recv(4)
	if err != nil {
		return errors.Annotate(err, "rfb: reading security result")
	}
	if binary.BigEndian.Uint32(resultBuf) == 0 {
		return nil
	}

	reasonLenBuf, err := c.recv(4)
	if err != nil {
		return errors.Annotate(err, "rfb: reading auth failure reason length")
	}
	reasonLen := binary.BigEndian.Uint32(reasonLenBuf)
	reason, err := c.recv(int(reasonLen))
	if err != nil {
		return errors.Annotate(err, "rfb: reading auth failure reason")
	}
	return errors.Annotatef(ErrAuthenticationFailed, "%s", string(reason))
}

// clientInit implements §4.7 step 6: a shared-session ClientInit.
func (c *Client) clientInit() error {
	c.state = stateClientInit
	return errors.Annotate(c.send([]byte{1}), "rfb: sending ClientInit")
}

// serverInit implements §4.7 step 7.
func (c *Client) serverInit() error {
	c.state = stateServerInit

	dims, err := c.recv(4)
	if err != nil {
		return errors.Annotate(err, "rfb: reading framebuffer dimensions")
	}
	width := binary.BigEndian.Uint16(dims[0:2])
	height := binary.BigEndian.Uint16(dims[2:4])

	pfBuf, err := c.recv(16)
	if err != nil {
		return errors.Annotate(err, "rfb: reading PixelFormat")
	}
	format := parsePixelFormat(pfBuf)
	if !format.TrueColor {
		return errors.Trace(ErrNonTrueColorUnsupported)
	}

	nameLenBuf, err := c.recv(4)
	if err != nil {
		return errors.Annotate(err, "rfb: reading server name length")
	}
	nameLen := binary.BigEndian.Uint32(nameLenBuf)
	nameBuf, err := c.recv(int(nameLen))
	if err != nil {
		return errors.Annotate(err, "rfb: reading server name")
	}

	c.format = format
	c.serverName = string(nameBuf)
	c.fb = newPixelBuffer(width, height)
	c.logger.Debugf("rfb: server %q pixel format %+v", c.serverName, c.format)
	return nil
}

func parsePixelFormat(b []byte) PixelFormat {
	return PixelFormat{
		BitsPerPixel: b[0],
		Depth:        b[1],
		BigEndian:    b[2] != 0,
		TrueColor:    b[3] != 0,
		RedMax:       binary.BigEndian.Uint16(b[4:6]),
		GreenMax:     binary.BigEndian.Uint16(b[6:8]),
		BlueMax:      binary.BigEndian.Uint16(b[8:10]),
		RedShift:     b[10],
		GreenShift:   b[11],
		BlueShift:    b[12],
	}
}

// setEncodings implements §4.7's encoding negotiation: SetEncodings
// (message type 2) advertising Raw, CopyRect, ZRLE, and the Cursor
// pseudo-encoding, in that preference order.
func (c *Client) setEncodings() error {
	msg := make([]byte, 0, 4+4*len(advertisedEncodings))
	msg = append(msg, 2, 0) // type, padding
	msg = binary.BigEndian.AppendUint16(msg, uint16(len(advertisedEncodings)))
	for _, enc := range advertisedEncodings {
		msg = binary.BigEndian.AppendUint32(msg, uint32(enc))
	}
	return errors.Annotate(c.send(msg), "rfb: sending SetEncodings")
}

// ServerName returns the name the server sent in ServerInit.
func (c *Client) ServerName() string { return c.serverName }

// Close shuts down the socket and drops the session's owned state,
// including the ZRLE decompression context, per §3/§9: no process-global
// state survives a session.
func (c *Client) Close() error {
	c.state = stateDead
	c.zrle = nil
	if c.sock == nil {
		return nil
	}
	return errors.Annotate(c.sock.Close(), "rfb: close")
}

// recv and send wrap the socket's blocking I/O, translating a closed or
// exhausted connection into ErrConnectionClosed (§5's cancellation
// contract: an in-flight blocking read on a closed socket fails this way).
func (c *Client) recv(n int) ([]byte, error) {
	buf, err := c.sock.RecvExactly(n)
	if err != nil {
		return nil, wrapIOError(err)
	}
	return buf, nil
}

func (c *Client) send(data []byte) error {
	return wrapIOError(c.sock.Send(data))
}

func wrapIOError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == io.EOF || strings.Contains(err.Error(), "use of closed network connection") {
		return errors.Annotate(ErrConnectionClosed, err.Error())
	}
	return err
}

func containsByte(haystack []byte, b byte) bool {
	for _, h := range haystack {
		if h == b {
			return true
		}
	}
	return false
}
