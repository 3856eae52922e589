package proto

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeReply(t testing.TB, words ...string) []byte {
	t.Helper()
	b, err := EncodeWords(words)
	require.NoError(t, err)
	return b
}

func TestDecoder_SentenceScenario(t *testing.T) {
	b, err := EncodeSentence(NewCommand("/interface/print"))
	require.NoError(t, err)

	d := NewDecoder()
	_, err = d.Write(b)
	require.NoError(t, err)

	words, ok, err := d.NextSentence()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"/interface/print"}, words)

	_, ok, err = d.NextSentence()
	require.NoError(t, err)
	assert.False(t, ok, "exactly one sentence")
	assert.Equal(t, 0, d.Buffered())
}

func TestDecoder_CommandRoundTrip(t *testing.T) {
	cmd := NewCommand("/ip/address/add").
		Attr("address", "192.168.88.1/24").
		Attr("interface", "bridge").
		Attr("disabled", true).
		Query("comment", strings.Repeat("c", 300))

	b, err := EncodeSentence(cmd)
	require.NoError(t, err)

	d := NewDecoder()
	d.Write(b)
	words, ok, err := d.NextSentence()
	require.NoError(t, err)
	require.True(t, ok)

	expected, err := cmd.Words()
	require.NoError(t, err)
	assert.Equal(t, expected, words)
}

func TestDecoder_Feed(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeReply(t, "!re", "=name=ether1", "=mtu=1500")...)
	stream = append(stream, encodeReply(t, "!re", "=name=ether2", "=mtu=1500")...)
	stream = append(stream, encodeReply(t, "!done")...)

	d := NewDecoder()
	replies, err := d.Feed(stream)
	require.NoError(t, err)
	require.Len(t, replies, 3)

	assert.True(t, replies[0].IsData())
	assert.Equal(t, "ether1", replies[0].Attributes["name"])
	assert.Equal(t, "ether2", replies[1].Attributes["name"])
	assert.True(t, replies[2].IsDone())
}

func TestDecoder_ByteAtATime(t *testing.T) {
	long := strings.Repeat("v", 20000) // three byte prefix
	stream := encodeReply(t, "!re", "=comment="+long, ".tag=4")
	stream = append(stream, encodeReply(t, "!done", ".tag=4")...)

	d := NewDecoder()
	var replies []*Reply
	for i := range stream {
		got, err := d.Feed(stream[i : i+1])
		require.NoError(t, err)
		replies = append(replies, got...)

		if i < len(stream)-1 {
			assert.LessOrEqual(t, len(replies), 1)
		}
	}

	require.Len(t, replies, 2)
	assert.Equal(t, long, replies[0].Attributes["comment"])
	assert.Equal(t, "4", replies[0].Tag())
	assert.True(t, replies[1].IsDone())
	assert.Equal(t, 0, d.Buffered())
	assert.Equal(t, 0, d.Pending())
}

func TestDecoder_SplitInsidePrefix(t *testing.T) {
	content := strings.Repeat("p", 0x4000) // 3 byte prefix: C0 40 00
	stream := encodeReply(t, "!re", "=x="+content[3:])

	// first word, then the first byte of the second prefix
	cut := 1 + len("!re") + 1

	d := NewDecoder()
	replies, err := d.Feed(stream[:cut])
	require.NoError(t, err)
	assert.Empty(t, replies)
	assert.Equal(t, 1, d.Pending())
	assert.Equal(t, 1, d.Buffered())

	replies, err = d.Feed(stream[cut:])
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Len(t, replies[0].Attributes["x"], 0x4000-3)
}

func TestDecoder_WaitsForTerminator(t *testing.T) {
	stream := encodeReply(t, "!done")

	d := NewDecoder()
	replies, err := d.Feed(stream[:len(stream)-1])
	require.NoError(t, err)
	assert.Empty(t, replies)
	assert.Equal(t, 1, d.Pending())

	replies, err = d.Feed(stream[len(stream)-1:])
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.True(t, replies[0].IsDone())
}

func TestDecoder_InvalidPrefixIsSticky(t *testing.T) {
	d := NewDecoder()

	replies, err := d.Feed(append(encodeReply(t, "!done"), 0xF8, 0x00))
	require.Len(t, replies, 1, "replies before the error are returned")

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)

	_, err = d.Feed(encodeReply(t, "!done"))
	require.ErrorAs(t, err, &formatErr)

	d.Reset()
	replies, err = d.Feed(encodeReply(t, "!done"))
	require.NoError(t, err)
	assert.Len(t, replies, 1)
}

func TestDecoder_ParseErrorIsNotSticky(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeReply(t, "!bogus")...)
	stream = append(stream, encodeReply(t, "!done")...)

	d := NewDecoder()
	replies, err := d.Feed(stream)
	assert.Empty(t, replies)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)

	replies, err = d.Feed(nil)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.True(t, replies[0].IsDone())
}

func TestDecoder_EmptySentence(t *testing.T) {
	d := NewDecoder()
	d.Write([]byte{0x00})

	words, ok, err := d.NextSentence()
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotNil(t, words)
	assert.Empty(t, words)

	d.Write([]byte{0x00})
	_, _, err = d.Next()
	require.ErrorIs(t, err, ErrEmptySentence)
}

func TestDecoder_MaxWordSize(t *testing.T) {
	d := NewDecoder(WithMaxWordSize(16))

	_, err := d.Feed(encodeReply(t, "!re", "=comment="+strings.Repeat("x", 32)))
	require.ErrorIs(t, err, ErrWordTooLarge)
	assert.True(t, ShouldCloseConnection(err))
}

func TestDecoder_OversizedPrefixRejectedBeforeContent(t *testing.T) {
	d := NewDecoder()

	// five byte prefix announcing ~32 GiB; no content needed to fail
	_, err := d.Feed([]byte{0xF7, 0xFF, 0xFF, 0xFF, 0xFF})
	require.ErrorIs(t, err, ErrWordTooLarge)
}

func TestDecoder_CompactsConsumedBytes(t *testing.T) {
	d := NewDecoder()
	sentence := encodeReply(t, "!re", "=name="+strings.Repeat("n", 100))

	for range 100 {
		replies, err := d.Feed(sentence)
		require.NoError(t, err)
		require.Len(t, replies, 1)
	}

	assert.Equal(t, 0, d.Buffered())
	assert.LessOrEqual(t, cap(d.buf), 4*len(sentence))
}

func TestDecoder_MatchesReadSentence(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(encodeReply(t, "!re", "=a=1"))
	stream.Write(encodeReply(t, "!trap", "=message=failure: already have such address", "=category=1"))
	stream.Write(encodeReply(t, "!done"))

	d := NewDecoder()
	fromDecoder, err := d.Feed(stream.Bytes())
	require.NoError(t, err)

	r := newBufReader(stream.Bytes())
	for _, expected := range fromDecoder {
		got, err := ReadReply(r)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
}
