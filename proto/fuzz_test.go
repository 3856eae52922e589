package proto

import (
	"bytes"
	"testing"
)

// FuzzDecodeWord checks that DecodeWord never panics and that whatever it
// accepts re-encodes to the same bytes.
// Run with: go test -fuzz='^FuzzDecodeWord$' -fuzztime=60s ./proto
func FuzzDecodeWord(f *testing.F) {
	f.Add([]byte{0x00})
	f.Add([]byte{0x05, '!', 'd', 'o', 'n', 'e'})
	f.Add([]byte{0x0A, 0x01, 0x02, 0x03})       // truncated content
	f.Add([]byte{0x80})                         // truncated prefix
	f.Add([]byte{0x80, 0x80})                   // 128 announced, none present
	f.Add([]byte{0xC0, 0x40, 0x00})             // 3 byte class
	f.Add([]byte{0xE0, 0x20, 0x00, 0x00})       // 4 byte class
	f.Add([]byte{0xF7, 0xFF, 0xFF, 0xFF, 0xFF}) // max length
	f.Add([]byte{0xF8})                         // control byte
	f.Add([]byte{0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		word, n, err := DecodeWord(data, 0)
		if err != nil {
			return
		}

		if n > len(data) {
			t.Fatalf("consumed %d bytes of %d", n, len(data))
		}

		enc, err := EncodeWord(word)
		if err != nil {
			t.Fatalf("re-encode failed: %v", err)
		}

		// Encoding is canonical, but a peer may send a non-minimal prefix.
		// Only the content must survive.
		back, m, err := DecodeWord(enc, 0)
		if err != nil || back != word || m != len(enc) {
			t.Fatalf("round trip mismatch: %q (%d) vs %q (%d), err=%v", word, n, back, m, err)
		}
		if LengthSize(int64(len(word))) == n-len(word) && !bytes.Equal(enc, data[:n]) {
			t.Fatalf("minimal encoding differs: %x vs %x", enc, data[:n])
		}
	})
}

// FuzzParseReply fuzzes ParseReply with words split from the input.
// Run with: go test -fuzz='^FuzzParseReply$' -fuzztime=60s ./proto
func FuzzParseReply(f *testing.F) {
	f.Add("!done")
	f.Add("!done\x00=ret=*1")
	f.Add("!re\x00=name=ether1\x00.tag=3")
	f.Add("!trap\x00=message=no such item\x00=category=0")
	f.Add("!trap\x00=category=x")
	f.Add("!fatal\x00not logged in")
	f.Add("!unknown")
	f.Add("")
	f.Add("!re\x00=\x00.\x00==\x00.=")

	f.Fuzz(func(t *testing.T, input string) {
		var words []string
		if input != "" {
			words = splitNUL(input)
		}

		r, err := ParseReply(words)
		if err != nil {
			if r != nil {
				t.Fatalf("reply returned with error %v", err)
			}
			return
		}

		switch r.Type {
		case ReplyDone:
			if r.Attributes != nil && len(r.Attributes) == 0 {
				t.Errorf("done reply with empty attribute map")
			}
		case ReplyData:
			if r.Attributes == nil {
				t.Errorf("data reply with nil attributes")
			}
		case ReplyTrap:
			if _, ok := r.Attributes[AttrMessage]; ok {
				t.Errorf("message left in attributes")
			}
			if _, ok := r.Attributes[AttrCategory]; ok {
				t.Errorf("category left in attributes")
			}
		case ReplyFatal:
			if r.Attributes != nil {
				t.Errorf("fatal reply with attributes")
			}
		default:
			t.Errorf("unexpected reply type %q", r.Type)
		}
	})
}

// FuzzDecoder feeds arbitrary input in two chunks and checks that the
// decoder agrees with a single-chunk decode.
// Run with: go test -fuzz='^FuzzDecoder$' -fuzztime=60s ./proto
func FuzzDecoder(f *testing.F) {
	f.Add([]byte{0x05, '!', 'd', 'o', 'n', 'e', 0x00}, uint8(3))
	f.Add([]byte{0x03, '!', 'r', 'e', 0x06, '=', 'a', '=', 'b', 'c', 'd', 0x00, 0x05, '!', 'd', 'o', 'n', 'e', 0x00}, uint8(9))
	f.Add([]byte{0xF8, 0x00}, uint8(1))
	f.Add([]byte{0x80, 0x81, 'x'}, uint8(1))

	f.Fuzz(func(t *testing.T, data []byte, split uint8) {
		cut := int(split)
		if cut > len(data) {
			cut = len(data)
		}

		whole := NewDecoder(WithMaxWordSize(1 << 16))
		a, errA := drainSentences(whole, data)

		chunked := NewDecoder(WithMaxWordSize(1 << 16))
		b1, errB := drainSentences(chunked, data[:cut])
		if errB == nil {
			var b2 [][]string
			b2, errB = drainSentences(chunked, data[cut:])
			b1 = append(b1, b2...)
		}

		if (errA == nil) != (errB == nil) {
			t.Fatalf("error mismatch: %v vs %v", errA, errB)
		}
		if errA == nil && len(a) != len(b1) {
			t.Fatalf("sentence count mismatch: %d vs %d", len(a), len(b1))
		}
	})
}

func drainSentences(d *Decoder, p []byte) ([][]string, error) {
	d.Write(p)
	var out [][]string
	for {
		words, ok, err := d.NextSentence()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, words)
	}
}

func splitNUL(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
