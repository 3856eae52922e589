package proto

// ReplyType is the discriminant word that opens every reply sentence.
type ReplyType string

// Reply discriminants.
const (
	// ReplyDone closes the reply to a command. It may carry attributes
	// (for example =ret= after an add).
	ReplyDone ReplyType = "!done"

	// ReplyData carries one row of result data.
	ReplyData ReplyType = "!re"

	// ReplyTrap reports a command-scoped error. A !done always follows it.
	ReplyTrap ReplyType = "!trap"

	// ReplyFatal reports a connection-terminating error. The router closes
	// the connection right after sending it.
	ReplyFatal ReplyType = "!fatal"
)

// Word prefixes.
const (
	// AttributePrefix starts an attribute word: =key=value
	AttributePrefix = '='

	// QueryPrefix starts a query word: ?key=value
	QueryPrefix = '?'

	// APIPrefix starts an API attribute word: .key=value (e.g. .tag)
	APIPrefix = '.'
)

// Well known attribute keys.
const (
	AttrMessage  = "message"
	AttrCategory = "category"
	AttrRet      = "ret"
	AttrTag      = ".tag"
)

// Default messages used when a trap or fatal reply carries no message.
const (
	DefaultTrapMessage  = "Unknown error"
	DefaultFatalMessage = "Fatal error"
)

// Length limits
const (
	// MaxLength is the largest value the length prefix can express (35 bits).
	MaxLength int64 = 0x7FFFFFFFF

	// MaxLengthSize is the size in bytes of the largest length prefix.
	MaxLengthSize = 5

	// DefaultMaxWordSize bounds the content of a single decoded word.
	DefaultMaxWordSize = 64 << 20
)

// Category classifies a !trap reply.
type Category int

// Trap categories as defined by RouterOS.
const (
	// CategoryNone marks a trap without a category attribute.
	CategoryNone Category = -1

	CategoryMissingItem   Category = 0 // missing item or command
	CategoryArgumentValue Category = 1 // argument value failure
	CategoryInterrupted   Category = 2 // execution of command interrupted
	CategoryScripting     Category = 3 // scripting related failure
	CategoryGeneral       Category = 4 // general failure
	CategoryAPI           Category = 5 // API related failure
	CategoryTTY           Category = 6 // TTY related failure
	CategoryReturnValue   Category = 7 // value generated with :return command
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryMissingItem:
		return "missing item or command"
	case CategoryArgumentValue:
		return "argument value failure"
	case CategoryInterrupted:
		return "execution interrupted"
	case CategoryScripting:
		return "scripting failure"
	case CategoryGeneral:
		return "general failure"
	case CategoryAPI:
		return "API failure"
	case CategoryTTY:
		return "TTY failure"
	case CategoryReturnValue:
		return "return value"
	default:
		return "unknown"
	}
}
