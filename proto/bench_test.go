package proto

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
)

// Benchmark length prefix encoding across classes
func BenchmarkAppendLength(b *testing.B) {
	buf := make([]byte, 0, 32)
	values := []int64{0x7F, 0x3FFF, 0x1FFFFF, 0xFFFFFFF, MaxLength}

	for b.Loop() {
		buf = buf[:0]
		for _, n := range values {
			buf, _ = AppendLength(buf, n)
		}
	}
}

// Benchmark DecodeLength with a 5 byte prefix
func BenchmarkDecodeLength(b *testing.B) {
	enc, _ := EncodeLength(MaxLength)

	for b.Loop() {
		_, _, err := DecodeLength(enc, 0)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark EncodeSentence with a typical print command
func BenchmarkEncodeSentence(b *testing.B) {
	cmd := NewCommand("/interface/print").
		Attr(".proplist", "name,type,running").
		Query("type", "ether").
		Query("disabled", false)

	for b.Loop() {
		_, err := EncodeSentence(cmd)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark WriteCommand to a discarding writer
func BenchmarkWriteCommand(b *testing.B) {
	cmd := NewCommand("/ip/address/add").
		Attr("address", "10.0.0.1/24").
		Attr("interface", "ether1")

	for b.Loop() {
		if err := WriteCommand(io.Discard, cmd); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark ParseReply with a row of typical size
func BenchmarkParseReply(b *testing.B) {
	words := []string{"!re", "=.id=*1", "=name=ether1", "=type=ether", "=mtu=1500", "=running=true", ".tag=5"}

	for b.Loop() {
		_, err := ParseReply(words)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark Decoder.Feed with 100 rows and a done
func BenchmarkDecoderFeed(b *testing.B) {
	var stream []byte
	for range 100 {
		row, _ := EncodeWords([]string{"!re", "=name=ether1", "=comment=" + strings.Repeat("c", 64)})
		stream = append(stream, row...)
	}
	done, _ := EncodeWords([]string{"!done"})
	stream = append(stream, done...)

	d := NewDecoder()
	b.SetBytes(int64(len(stream)))

	for b.Loop() {
		replies, err := d.Feed(stream)
		if err != nil {
			b.Fatal(err)
		}
		if len(replies) != 101 {
			b.Fatalf("got %d replies", len(replies))
		}
	}
}

// Benchmark ReadReply from a buffered reader
func BenchmarkReadReply(b *testing.B) {
	row, _ := EncodeWords([]string{"!re", "=name=ether1", "=type=ether", "=mtu=1500"})
	src := bytes.NewReader(row)
	r := bufio.NewReader(src)

	for b.Loop() {
		src.Reset(row)
		r.Reset(src)
		if _, err := ReadReply(r); err != nil {
			b.Fatal(err)
		}
	}
}
