package rfb

import "github.com/BeneDevRepo/BVnc/transport"

// Security types the client knows how to select, in RFB's wire encoding.
const (
	secTypeNone     = 1
	secTypeVNCAuth  = 2
)

// Rectangle encodings the client negotiates, and the pseudo-encoding used
// for the cursor shape. Order matters: it's the order advertised in
// SetEncodings and encodes preference.
const (
	EncodingRaw      int32 = 0
	EncodingCopyRect int32 = 1
	EncodingZRLE     int32 = 16
	EncodingCursor   int32 = -239
)

var advertisedEncodings = []int32{EncodingRaw, EncodingCopyRect, EncodingZRLE, EncodingCursor}

// state is the protocol state machine of §3.
type state int

const (
	stateHandshakeVersion state = iota
	stateHandshakeSecurity
	stateAuthChallenge
	stateHandshakeSecurityResult
	stateClientInit
	stateServerInit
	stateRunning
	stateDead
)

// PixelFormat mirrors the 16-byte wire structure sent in ServerInit.
type PixelFormat struct {
	BitsPerPixel uint8
	Depth        uint8
	BigEndian    bool
	TrueColor    bool
	RedMax       uint16
	GreenMax     uint16
	BlueMax      uint16
	RedShift     uint8
	GreenShift   uint8
	BlueShift    uint8
}

// Config supplies everything a session needs at construction, per §6.
type Config struct {
	Host     string
	Port     int
	Password string

	// Dial, if set, opens the Socket this client speaks through. When nil,
	// Connect uses transport.Dial with a plain-TCP DialConfig built from
	// Host/Port.
	Dial func() (transport.Socket, error)

	// Logger overrides the package logger when non-nil, letting a host
	// application route rfb's log lines into its own logging setup.
	Logger Logger
}

// Logger is the subset of *logging.Logger that rfb depends on, so a Config
// can supply any compatible logger without importing op/go-logging itself.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// CursorShape is what the Cursor pseudo-encoding delivers. The core does
// not render it; hosts that care can inspect it via OnCursor.
type CursorShape struct {
	X, Y          uint16
	Width, Height uint16
	Pixels        []byte // width*height*4 bytes exactly as received, not converted to 0x00RRGGBB
	Mask          []byte // ceil(width/8)*height bytes
}
