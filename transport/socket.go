// Package transport supplies the RFB core with a byte-stream connection:
// plain TCP, optionally tunneled through a SOCKS proxy, or carried inside
// a WebSocket for websockify-style noVNC deployments. It mirrors the
// connect-and-frame logic of a typical Go RFB client, generalized behind
// the small Socket contract the protocol engine actually needs.
package transport

import (
	"bufio"
	"encoding/hex"
	"io"
	"net"
	"time"

	"github.com/juju/errors"
)

// ErrShortWrite is returned when Send couldn't write every byte handed
// to it.
var ErrShortWrite = errors.New("transport: short write")

// Socket is the byte-stream contract the RFB protocol engine depends on.
type Socket interface {
	Send(data []byte) error
	RecvExactly(n int) ([]byte, error)
	DataAvailable() bool
	Close() error
}

// netSocket adapts a net.Conn (plain TCP, a SOCKS-proxied TCP conn, or a
// WebSocket wrapped to satisfy net.Conn) to Socket, with optional hex-dump
// packet logging.
type netSocket struct {
	conn    net.Conn
	reader  *bufio.Reader
	debug   bool
	onTrace func(direction string, data []byte)
}

// NewSocket wraps conn as a Socket. If debug is true, every send/receive
// is hex-dumped through the transport logger.
func NewSocket(conn net.Conn, debug bool) Socket {
	return &netSocket{
		conn:   conn,
		reader: bufio.NewReader(conn),
		debug:  debug,
	}
}

func (s *netSocket) Send(data []byte) error {
	n, err := s.conn.Write(data)
	if err != nil {
		return errors.Annotate(err, "transport: send")
	}
	if n != len(data) {
		return errors.Trace(ErrShortWrite)
	}
	if s.debug {
		log.Debugf("[SEND] %d bytes\n%s", n, hex.Dump(data))
	}
	return nil
}

func (s *netSocket) RecvExactly(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.reader, buf); err != nil {
		return nil, errors.Annotate(err, "transport: recvExactly")
	}
	if s.debug {
		log.Debugf("[RECV] %d bytes\n%s", n, hex.Dump(buf))
	}
	return buf, nil
}

// DataAvailable reports whether a subsequent RecvExactly would return
// immediately. It never blocks: any already-buffered bytes count as
// available, and otherwise a read deadline already in the past turns the
// next read attempt into a non-blocking poll.
func (s *netSocket) DataAvailable() bool {
	if s.reader.Buffered() > 0 {
		return true
	}

	if err := s.conn.SetReadDeadline(time.Now()); err != nil {
		// Some net.Conn implementations (e.g. a WebSocket wrapped to
		// satisfy net.Conn) can't honor deadlines at all; treat that as
		// "can't tell, assume not yet" rather than erroring.
		return false
	}
	defer s.conn.SetReadDeadline(time.Time{})

	_, err := s.reader.Peek(1)
	return err == nil
}

func (s *netSocket) Close() error {
	return s.conn.Close()
}
