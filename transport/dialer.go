package transport

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juju/errors"

	_ "github.com/bdandy/go-socks4" // registers the "socks" scheme with golang.org/x/net/proxy
	"golang.org/x/net/proxy"
)

// DialConfig describes how to reach an RFB server: directly, through a
// SOCKS proxy, or tunneled over a WebSocket (the transport websockify and
// noVNC use).
type DialConfig struct {
	Address string // host:port for a direct or SOCKS-proxied TCP dial

	ProxyURL string // e.g. "socks5://127.0.0.1:1080"; empty disables proxying

	WebSocket        bool   // dial Address as a WebSocket (noVNC/websockify) instead of raw TCP
	WebSocketSecure  bool   // use wss:// instead of ws://
	WebSocketPath    string // path component of the WebSocket URL
	InsecureSkipTLSVerify bool

	PacketDebug bool
}

// Dial opens a Socket per cfg.
func Dial(cfg DialConfig) (Socket, error) {
	if cfg.Address == "" {
		return nil, errors.New("transport: no address configured")
	}

	if cfg.WebSocket {
		conn, err := dialWebSocket(cfg)
		if err != nil {
			return nil, err
		}
		return NewSocket(conn, cfg.PacketDebug), nil
	}

	if cfg.ProxyURL != "" {
		conn, err := dialProxied(cfg)
		if err != nil {
			return nil, err
		}
		return NewSocket(conn, cfg.PacketDebug), nil
	}

	conn, err := net.Dial("tcp", cfg.Address)
	if err != nil {
		return nil, errors.Annotate(err, "transport: dial")
	}
	return NewSocket(conn, cfg.PacketDebug), nil
}

func dialProxied(cfg DialConfig) (net.Conn, error) {
	proxyURL, err := url.Parse(cfg.ProxyURL)
	if err != nil {
		return nil, errors.Annotate(err, "transport: parsing proxy URL")
	}
	dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
	if err != nil {
		return nil, errors.Annotate(err, "transport: building proxy dialer")
	}
	conn, err := dialer.Dial("tcp", cfg.Address)
	if err != nil {
		return nil, errors.Annotate(err, "transport: dialing through proxy")
	}
	return conn, nil
}

func dialWebSocket(cfg DialConfig) (net.Conn, error) {
	scheme := "ws"
	if cfg.WebSocketSecure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: cfg.Address, Path: cfg.WebSocketPath}

	wsDialer := &websocket.Dialer{
		HandshakeTimeout:  45 * time.Second,
		EnableCompression: true,
		TLSClientConfig:   &tls.Config{InsecureSkipVerify: cfg.InsecureSkipTLSVerify},
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, errors.Annotate(err, "transport: parsing proxy URL")
		}
		proxyDialer, err := proxy.FromURL(proxyURL, proxy.Direct)
		if err != nil {
			return nil, errors.Annotate(err, "transport: building proxy dialer")
		}
		wsDialer.NetDial = proxyDialer.Dial
	}

	conn, _, err := wsDialer.Dial(u.String(), http.Header{})
	if err != nil {
		return nil, errors.Annotate(err, "transport: dialing WebSocket")
	}
	return &webSocketConn{Conn: conn}, nil
}

// webSocketConn adapts a gorilla *websocket.Conn to net.Conn, treating
// each WebSocket message as one Read/Write call's worth of bytes. Read
// deadlines are not honored: the gorilla client doesn't expose a way to
// make a single ReadMessage call non-blocking, so DataAvailable on a
// WebSocket-backed Socket always reports false until the reader's
// bufio buffer already holds bytes from a previous read.
type webSocketConn struct {
	*websocket.Conn
}

func (c *webSocketConn) Read(b []byte) (int, error) {
	_, data, err := c.Conn.ReadMessage()
	if err != nil {
		return 0, err
	}
	return copy(b, data), nil
}

func (c *webSocketConn) Write(b []byte) (int, error) {
	if err := c.Conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (c *webSocketConn) SetDeadline(time.Time) error      { return nil }
func (c *webSocketConn) SetReadDeadline(time.Time) error  { return errNoDeadline }
func (c *webSocketConn) SetWriteDeadline(time.Time) error { return nil }

var errNoDeadline = errors.New("transport: websocket connections don't support read deadlines")
