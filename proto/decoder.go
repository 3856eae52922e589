package proto

// Decoder assembles sentences from a byte stream delivered in arbitrary
// chunks. Bytes are retained until a complete word can be decoded, so a
// caller that stops writing only stalls assembly.
//
// A Decoder must not be used from more than one goroutine at a time.
type Decoder struct {
	buf         []byte
	off         int      // read cursor into buf
	words       []string // words of the sentence in progress
	maxWordSize int64
	err         error // sticky framing error
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxWordSize bounds the content length of a single word
// (default: DefaultMaxWordSize).
func WithMaxWordSize(n int64) DecoderOption {
	return func(d *Decoder) {
		d.maxWordSize = n
	}
}

// NewDecoder creates an empty Decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{maxWordSize: DefaultMaxWordSize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Write appends p to the receive buffer. It never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	d.compact()
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Feed appends p and returns every reply completed by it, in order.
// Replies decoded before an error are returned along with it.
func (d *Decoder) Feed(p []byte) ([]*Reply, error) {
	d.Write(p)

	var replies []*Reply
	for {
		r, ok, err := d.Next()
		if err != nil {
			return replies, err
		}
		if !ok {
			return replies, nil
		}
		replies = append(replies, r)
	}
}

// Next returns the next complete reply. ok is false when more input is
// needed. A sentence that fails ParseReply is consumed and its error
// returned; decoding can continue with the following sentence.
func (d *Decoder) Next() (*Reply, bool, error) {
	words, ok, err := d.NextSentence()
	if err != nil || !ok {
		return nil, false, err
	}

	r, err := ParseReply(words)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// NextSentence returns the words of the next complete sentence, without
// the terminator. ok is false when more input is needed.
//
// Framing errors (an invalid length prefix or an oversized word) are
// sticky: the stream position is lost and every later call returns the
// same error until Reset.
func (d *Decoder) NextSentence() ([]string, bool, error) {
	if d.err != nil {
		return nil, false, d.err
	}

	for d.off < len(d.buf) {
		size, err := lengthClass(d.buf[d.off])
		if err != nil {
			d.err = err
			return nil, false, err
		}
		if len(d.buf)-d.off < size {
			return nil, false, nil
		}

		n, _, err := DecodeLength(d.buf, d.off)
		if err != nil {
			d.err = err
			return nil, false, err
		}
		if n > d.maxWordSize {
			d.err = ErrWordTooLarge
			return nil, false, d.err
		}
		if int64(len(d.buf)-d.off-size) < n {
			return nil, false, nil
		}

		word, consumed, err := DecodeWord(d.buf, d.off)
		if err != nil {
			d.err = err
			return nil, false, err
		}
		d.off += consumed

		if word == "" {
			words := d.words
			d.words = nil
			if words == nil {
				words = []string{}
			}
			return words, true, nil
		}
		d.words = append(d.words, word)
	}

	return nil, false, nil
}

// Buffered returns the number of received bytes not yet decoded into words.
func (d *Decoder) Buffered() int {
	return len(d.buf) - d.off
}

// Pending returns the number of words decoded for the sentence in progress.
func (d *Decoder) Pending() int {
	return len(d.words)
}

// Reset discards all buffered input, partial sentences and errors.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.off = 0
	d.words = nil
	d.err = nil
}

// compact drops consumed bytes once they make up at least half the buffer.
func (d *Decoder) compact() {
	if d.off == 0 {
		return
	}
	if d.off == len(d.buf) {
		d.buf = d.buf[:0]
		d.off = 0
		return
	}
	if d.off >= len(d.buf)/2 {
		n := copy(d.buf, d.buf[d.off:])
		d.buf = d.buf[:n]
		d.off = 0
	}
}
