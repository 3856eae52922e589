package proto

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

// Buffer pool for building sentences
var bufferPool = sync.Pool{
	New: func() any {
		// Typical command is well under 256 bytes
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}

// Larger buffers are dropped instead of pooled.
const maxPooledBuffer = 64 << 10

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

// EncodeSentence returns the wire form of cmd: each word encoded in order,
// followed by the empty terminator word.
func EncodeSentence(cmd *Command) ([]byte, error) {
	return AppendSentence(nil, cmd)
}

// AppendSentence appends the wire form of cmd to dst. On error dst is
// returned unchanged and the error is an *EncodeError.
func AppendSentence(dst []byte, cmd *Command) ([]byte, error) {
	words, err := cmd.Words()
	if err != nil {
		return dst, &EncodeError{Path: cmd.Path, Err: err}
	}
	return appendWords(dst, cmd.Path, words)
}

// EncodeWords returns the sentence made of words as given. It is meant for
// callers that build words themselves.
func EncodeWords(words []string) ([]byte, error) {
	path := ""
	if len(words) > 0 {
		path = words[0]
	}
	return appendWords(nil, path, words)
}

func appendWords(dst []byte, path string, words []string) ([]byte, error) {
	out := dst
	var err error
	for _, w := range words {
		out, err = AppendWord(out, w)
		if err != nil {
			return dst, &EncodeError{Path: path, Err: err}
		}
	}
	// terminator: the empty word
	return append(out, 0x00), nil
}

// WriteCommand serializes cmd and writes it to w as one sentence.
//
// Nothing is written if the sentence cannot be built.
// A *bufio.Writer is flushed after the sentence.
func WriteCommand(w io.Writer, cmd *Command) error {
	buf := getBuffer()
	defer putBuffer(buf)

	b, err := AppendSentence(buf.AvailableBuffer(), cmd)
	if err != nil {
		return err
	}
	buf.Write(b)

	if bw, ok := w.(*bufio.Writer); ok {
		if _, err := bw.Write(buf.Bytes()); err != nil {
			return err
		}
		return bw.Flush()
	}

	_, err = w.Write(buf.Bytes())
	return err
}
