package routeros

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/pior/routeros/proto"
)

var (
	ErrConnectionClosed = errors.New("routeros: connection closed")

	// ErrChallengeLogin is returned when the router answers /login with a
	// challenge, which only RouterOS versions before 6.43 do.
	ErrChallengeLogin = errors.New("routeros: router requires challenge-response login (pre 6.43)")
)

// Connection is a single API connection. It runs one command at a time and
// is not safe for concurrent use; pools hand it to one caller at a time.
type Connection struct {
	net.Conn
	Reader *bufio.Reader
	Writer *bufio.Writer

	closed bool // set after a !fatal reply or an I/O error
}

// NewConnection wraps an established network connection.
func NewConnection(conn net.Conn) *Connection {
	return &Connection{
		Conn:   conn,
		Reader: bufio.NewReader(conn),
		Writer: bufio.NewWriter(conn),
	}
}

// Execute sends cmd and reads replies until the closing !done.
//
// Rows from !re replies are collected in the Result. A !trap is returned
// as *proto.TrapError once its !done has been read, so the connection
// stays usable. A !fatal is returned as *proto.FatalError and the
// connection is marked closed.
func (c *Connection) Execute(ctx context.Context, cmd *proto.Command) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.closed {
		return nil, ErrConnectionClosed
	}

	// Set deadline based on context
	if deadline, ok := ctx.Deadline(); ok {
		c.Conn.SetDeadline(deadline)
	} else {
		c.Conn.SetDeadline(time.Time{})
	}

	if err := proto.WriteCommand(c.Writer, cmd); err != nil {
		var encErr *proto.EncodeError
		if errors.As(err, &encErr) {
			return nil, err
		}
		c.closed = true
		return nil, &proto.ConnectionError{Op: "write", Err: err}
	}

	res := &Result{}
	var trap error

	for {
		reply, err := proto.ReadReply(c.Reader)
		if err != nil {
			c.closed = true
			return nil, readError(err)
		}

		switch reply.Type {
		case proto.ReplyData:
			res.Rows = append(res.Rows, reply.Attributes)
		case proto.ReplyTrap:
			// keep the first trap, the router may send more before !done
			if trap == nil {
				trap = reply.Err()
			}
		case proto.ReplyFatal:
			c.closed = true
			return nil, reply.Err()
		case proto.ReplyDone:
			if trap != nil {
				return nil, trap
			}
			res.Done = reply.Attributes
			return res, nil
		}
	}
}

// Login authenticates with the plain-text method of RouterOS 6.43 and later.
func (c *Connection) Login(ctx context.Context, username, password string) error {
	cmd := proto.NewCommand("/login").
		Attr("name", username).
		Attr("password", password)

	res, err := c.Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("routeros: login failed: %w", err)
	}
	if res.Ret() != "" {
		return ErrChallengeLogin
	}
	return nil
}

// IsClosed returns whether the connection is known to be unusable.
func (c *Connection) IsClosed() bool {
	return c.closed
}

// Close closes the connection
func (c *Connection) Close() error {
	c.closed = true
	return c.Conn.Close()
}

// readError keeps protocol errors as they are and wraps I/O failures.
func readError(err error) error {
	var st proto.ErrorWithConnectionState
	if errors.As(err, &st) {
		return err
	}
	if errors.Is(err, proto.ErrEmptySentence) || errors.Is(err, proto.ErrWordTooLarge) {
		return err
	}
	return &proto.ConnectionError{Op: "read", Err: err}
}
