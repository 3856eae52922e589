package proto

// EncodeWord returns the wire form of a word: length prefix followed by
// the UTF-8 bytes of content.
func EncodeWord(content string) ([]byte, error) {
	return AppendWord(make([]byte, 0, LengthSize(int64(len(content)))+len(content)), content)
}

// AppendWord appends the wire form of content to dst.
// On error dst is returned unchanged.
func AppendWord(dst []byte, content string) ([]byte, error) {
	out, err := AppendLength(dst, int64(len(content)))
	if err != nil {
		return dst, err
	}
	return append(out, content...), nil
}

// DecodeWord decodes the word starting at b[offset]. It returns the word
// content and the total number of bytes consumed (prefix + content).
//
// The empty word, which terminates a sentence, decodes to "" with one
// byte consumed.
func DecodeWord(b []byte, offset int) (string, int, error) {
	n, size, err := DecodeLength(b, offset)
	if err != nil {
		return "", 0, err
	}

	start := offset + size
	avail := int64(len(b) - start)
	if n > avail {
		return "", 0, &TruncatedError{What: "word", Need: int64(size) + n, Have: int64(size) + avail}
	}

	end := start + int(n)
	return string(b[start:end]), size + int(n), nil
}
