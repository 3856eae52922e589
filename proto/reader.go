package proto

import (
	"bufio"
	"errors"
	"io"
)

// ReadSentence reads one sentence from r and returns its words without the
// terminator.
//
// Go errors returned indicate I/O or framing failures:
//   - io.EOF: Connection closed between sentences
//   - TruncatedError: stream ended inside a sentence
//   - FormatError, ErrWordTooLarge: invalid framing, connection should be closed
//   - Other I/O errors: Connection issues, connection should be closed
func ReadSentence(r *bufio.Reader) ([]string, error) {
	var words []string
	for {
		word, err := readWord(r, len(words) == 0)
		if err != nil {
			return nil, err
		}
		if word == "" {
			if words == nil {
				words = []string{}
			}
			return words, nil
		}
		words = append(words, word)
	}
}

// ReadReply reads and parses one reply sentence from r.
func ReadReply(r *bufio.Reader) (*Reply, error) {
	words, err := ReadSentence(r)
	if err != nil {
		return nil, err
	}
	return ParseReply(words)
}

// readWord reads one word. first reports whether a clean EOF before the
// word is a sentence boundary (io.EOF) rather than a truncation.
func readWord(r *bufio.Reader, first bool) (string, error) {
	b0, err := r.ReadByte()
	if err != nil {
		if err == io.EOF && !first {
			return "", &TruncatedError{What: "length", Need: 1, Have: 0}
		}
		return "", err
	}

	size, err := lengthClass(b0)
	if err != nil {
		return "", err
	}

	var prefix [MaxLengthSize]byte
	prefix[0] = b0
	if size > 1 {
		got, err := io.ReadFull(r, prefix[1:size])
		if err != nil {
			return "", truncated(err, "length", int64(size), int64(1+got))
		}
	}

	n, _, err := DecodeLength(prefix[:size], 0)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if n > DefaultMaxWordSize {
		return "", ErrWordTooLarge
	}

	content := make([]byte, n)
	got, err := io.ReadFull(r, content)
	if err != nil {
		return "", truncated(err, "word", int64(size)+n, int64(size+got))
	}
	return string(content), nil
}

// truncated converts an unexpected end of stream into a TruncatedError and
// passes other I/O errors through.
func truncated(err error, what string, need, have int64) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &TruncatedError{What: what, Need: need, Have: have}
	}
	return err
}
