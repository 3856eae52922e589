package routeros

import (
	"errors"

	"github.com/pior/routeros/proto"
)

// Result is the outcome of a successful command.
type Result struct {
	// Rows holds the attributes of each !re reply, in order.
	Rows []map[string]string

	// Done holds the attributes of the closing !done reply, nil if none.
	Done map[string]string
}

// Ret returns the =ret= attribute of the !done reply, such as the id of an
// item created by an add command.
func (r *Result) Ret() string {
	return r.Done[proto.AttrRet]
}

// IsTrap reports whether err is a !trap reply from the router.
func IsTrap(err error) bool {
	var trap *proto.TrapError
	return errors.As(err, &trap)
}

// IsFatal reports whether err is a !fatal reply from the router.
func IsFatal(err error) bool {
	var fatal *proto.FatalError
	return errors.As(err, &fatal)
}
