package testutils

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pior/routeros/proto"
)

// ConnectionMock is a net.Conn that serves canned router replies and
// records what the client sends.
type ConnectionMock struct {
	mu       sync.Mutex
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	closed   bool
}

// NewConnectionMock creates a mock connection that answers with the given
// reply sentences, in order. Each sentence is a list of words such as
// {"!re", "=name=ether1"}.
func NewConnectionMock(replies ...[]string) *ConnectionMock {
	m := &ConnectionMock{
		readBuf:  &bytes.Buffer{},
		writeBuf: &bytes.Buffer{},
	}
	m.AddReplies(replies...)
	return m
}

// NewRawConnectionMock creates a mock connection that serves raw bytes,
// for malformed or truncated streams.
func NewRawConnectionMock(data []byte) *ConnectionMock {
	return &ConnectionMock{
		readBuf:  bytes.NewBuffer(data),
		writeBuf: &bytes.Buffer{},
	}
}

// AddReplies queues more reply sentences.
func (m *ConnectionMock) AddReplies(replies ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, words := range replies {
		b, err := proto.EncodeWords(words)
		if err != nil {
			panic(err)
		}
		m.readBuf.Write(b)
	}
}

func (m *ConnectionMock) Read(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, net.ErrClosed
	}
	if m.readBuf.Len() == 0 {
		return 0, io.EOF
	}
	return m.readBuf.Read(b)
}

func (m *ConnectionMock) Write(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, net.ErrClosed
	}
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (m *ConnectionMock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8728}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error      { return nil }
func (m *ConnectionMock) SetReadDeadline(t time.Time) error  { return nil }
func (m *ConnectionMock) SetWriteDeadline(t time.Time) error { return nil }

// GetWrittenBytes returns the raw bytes written to the mock connection.
func (m *ConnectionMock) GetWrittenBytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return bytes.Clone(m.writeBuf.Bytes())
}

// GetWrittenSentences decodes the sentences written to the mock connection.
// It panics on a malformed stream, which is always a client bug.
func (m *ConnectionMock) GetWrittenSentences() [][]string {
	d := proto.NewDecoder()
	d.Write(m.GetWrittenBytes())

	var sentences [][]string
	for {
		words, ok, err := d.NextSentence()
		if err != nil {
			panic(err)
		}
		if !ok {
			break
		}
		sentences = append(sentences, words)
	}
	if d.Buffered() != 0 || d.Pending() != 0 {
		panic("testutils: trailing partial sentence")
	}
	return sentences
}
