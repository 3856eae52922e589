package proto

import (
	"errors"
	"fmt"
	"strconv"
)

// Error types for API codec operations.
// Like the reply grammar itself, errors tell the caller whether the
// connection that produced them can still be used.

var (
	// ErrEmptySentence is returned by ParseReply when given no words.
	ErrEmptySentence = errors.New("proto: empty sentence")

	// ErrEmptyPath is returned when a command has no path word.
	ErrEmptyPath = errors.New("proto: empty command path")

	// ErrWordTooLarge is returned by the decoders when a length prefix
	// announces more content than the configured limit.
	ErrWordTooLarge = errors.New("proto: word exceeds maximum size")
)

// RangeError is returned when a length outside [0, MaxLength] is encoded.
//
// Connection handling: nothing was written, connection is still valid
type RangeError struct {
	Value int64
}

func (e *RangeError) Error() string {
	return "proto: length " + strconv.FormatInt(e.Value, 10) + " out of range [0, 0x7FFFFFFFF]"
}

// ShouldCloseConnection returns false - the value was rejected before reaching the wire
func (e *RangeError) ShouldCloseConnection() bool {
	return false
}

// TruncatedError is returned when a buffer ends before a complete length
// prefix or word content.
//
// What is "length" for an incomplete prefix and "word" for incomplete content.
//
// Connection handling: when read from a stream, CLOSE connection
type TruncatedError struct {
	What string
	Need int64 // bytes required from the offset
	Have int64 // bytes available from the offset
}

func (e *TruncatedError) Error() string {
	if e.What == "length" {
		return fmt.Sprintf("proto: incomplete length encoding: need %d bytes, have %d", e.Need, e.Have)
	}
	return fmt.Sprintf("proto: incomplete %s: need %d bytes, have %d", e.What, e.Need, e.Have)
}

// ShouldCloseConnection returns true - framing is lost
func (e *TruncatedError) ShouldCloseConnection() bool {
	return true
}

// FormatError represents malformed input: an invalid length prefix byte,
// an unknown reply discriminant or an unparsable attribute.
//
// Connection handling: CLOSE connection
type FormatError struct {
	Message string
	Err     error // Underlying error, if any
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return "proto: " + e.Message + ": " + e.Err.Error()
	}
	return "proto: " + e.Message
}

// Unwrap returns the underlying error for error chain inspection
func (e *FormatError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - the peer is not speaking the protocol
func (e *FormatError) ShouldCloseConnection() bool {
	return true
}

// ValueError is returned when a command parameter holds a value that
// cannot be written as a word.
type ValueError struct {
	Key   string
	Value any
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("proto: unsupported value type %T for key %q", e.Value, e.Key)
}

// ShouldCloseConnection returns false - rejected before writing
func (e *ValueError) ShouldCloseConnection() bool {
	return false
}

// EncodeError wraps any failure to build a sentence. No bytes of the
// sentence are produced when it is returned.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return "proto: encode " + strconv.Quote(e.Path) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for error chain inspection
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns false - the sentence was never written
func (e *EncodeError) ShouldCloseConnection() bool {
	return false
}

// TrapError is a !trap reply surfaced as a Go error.
//
// Connection handling: Connection can be REUSED
type TrapError struct {
	Message    string
	Category   Category
	Attributes map[string]string
}

func (e *TrapError) Error() string {
	if e.Category == CategoryNone {
		return "trap: " + e.Message
	}
	return "trap (" + e.Category.String() + "): " + e.Message
}

// ShouldCloseConnection returns false - traps are scoped to one command
func (e *TrapError) ShouldCloseConnection() bool {
	return false
}

// FatalError is a !fatal reply surfaced as a Go error.
//
// Connection handling: the router has closed the connection, CLOSE it
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Message
}

// ShouldCloseConnection returns true
func (e *FatalError) ShouldCloseConnection() bool {
	return true
}

// ConnectionError wraps underlying I/O errors from connection operations.
//
// Connection handling: Connection is already broken, CLOSE and potentially RECONNECT
type ConnectionError struct {
	Op  string // Operation that failed (read, write, etc.)
	Err error  // Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - connection errors mean connection is broken
func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// ErrorWithConnectionState is an interface for errors that indicate
// whether the connection should be closed.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection reports whether err leaves the connection in an
// unknown state.
//
// Returns false for nil, RangeError, ValueError, EncodeError and TrapError.
// ErrEmptySentence, ErrWordTooLarge and errors of unknown type return true.
//
// Usage:
//
//	res, err := conn.Execute(ctx, cmd)
//	if err != nil {
//	    if proto.ShouldCloseConnection(err) {
//	        conn.Close()
//	    }
//	    return err
//	}
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrEmptyPath) {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	// Unknown error type - be conservative and close connection
	return true
}
