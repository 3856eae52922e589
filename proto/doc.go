// Package proto implements the RouterOS API wire format.
//
// It turns commands into byte sentences and byte sentences back into
// replies, and nothing else: no connection management, no login, no tag
// multiplexing. The root routeros package builds a client on top of it.
//
// # Wire Format
//
// A word is a length prefix followed by that many bytes of UTF-8 content.
// The prefix uses the smallest of five classes:
//
//	0x00-0x7F               1 byte   0xxxxxxx
//	0x80-0x3FFF             2 bytes  10xxxxxx ...
//	0x4000-0x1FFFFF         3 bytes  110xxxxx ...
//	0x200000-0xFFFFFFF      4 bytes  1110xxxx ...
//	0x10000000-0x7FFFFFFFF  5 bytes  1111xxxx + 4 bytes
//
// A sentence is a list of words closed by the empty word (a single 0x00).
//
// Command sentences start with the menu path, followed by attribute words
// (=key=value) and query words (?key=value):
//
//	cmd := proto.NewCommand("/interface/print").
//	    Attr(".proplist", "name,type").
//	    Query("type", "ether")
//	b, err := proto.EncodeSentence(cmd)
//
// Reply sentences start with one of !done, !re, !trap or !fatal:
//
//	r, err := proto.ParseReply([]string{"!re", "=name=ether1"})
//	if r.IsData() {
//	    name := r.Attributes["name"]
//	}
//
// # Decoding Streams
//
// Decoder accepts bytes in chunks of any size and yields replies as their
// terminators arrive:
//
//	d := proto.NewDecoder()
//	replies, err := d.Feed(chunk)
//
// ReadSentence and ReadReply read directly from a bufio.Reader when the
// caller owns a blocking connection.
//
// # Escaping
//
// Nothing is escaped. Keys containing '=' produce words the router will
// split differently. This matches the router's own permissiveness and is
// left to callers.
//
// # Error Handling
//
// Errors indicate connection state, as in the client layer:
//
//   - RangeError, ValueError, EncodeError: rejected before writing, connection is fine
//   - TruncatedError, FormatError, ErrWordTooLarge: framing lost, CLOSE connection
//   - TrapError: command failed, connection can be REUSED
//   - FatalError, ConnectionError: connection is gone
//
// Use ShouldCloseConnection to decide.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use. A Decoder holds the
// state of one stream and must be owned by a single goroutine.
package proto
