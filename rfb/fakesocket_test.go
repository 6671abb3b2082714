package rfb

import (
	"bytes"
	"io"
)

// fakeSocket is an in-memory transport.Socket: inbound is a scripted byte
// stream standing in for "what the server sends"; outbound records every
// byte the client under test sends, for assertions.
type fakeSocket struct {
	inbound  *bytes.Buffer
	outbound bytes.Buffer
	closed   bool
}

func newFakeSocket(inbound []byte) *fakeSocket {
	return &fakeSocket{inbound: bytes.NewBuffer(inbound)}
}

func (f *fakeSocket) Send(data []byte) error {
	f.outbound.Write(data)
	return nil
}

func (f *fakeSocket) RecvExactly(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(f.inbound, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (f *fakeSocket) DataAvailable() bool {
	return f.inbound.Len() > 0
}

func (f *fakeSocket) Close() error {
	f.closed = true
	return nil
}
