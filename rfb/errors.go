package rfb

import "github.com/juju/errors"

// Protocol-level sentinels. Each is wrapped with errors.Annotate/Errorf at
// the call site so errors.Cause still unwraps to one of these.
var (
	ErrHandshakeRejected        = errors.New("rfb: handshake rejected by server")
	ErrNoAcceptableSecurityType = errors.New("rfb: server offered no acceptable security type")
	ErrAuthenticationFailed     = errors.New("rfb: authentication failed")
	ErrNonTrueColorUnsupported  = errors.New("rfb: server is not running true-color")
	ErrUnknownServerMessage     = errors.New("rfb: unknown server message type")
	ErrUnsupportedServerMessage = errors.New("rfb: unsupported server message type")
	ErrUnsupportedEncoding      = errors.New("rfb: unsupported rectangle encoding")
	ErrInvalidZrleSubEncoding   = errors.New("rfb: invalid ZRLE sub-encoding")
	ErrConnectionClosed         = errors.New("rfb: connection closed")
)
