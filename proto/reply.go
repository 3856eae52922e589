package proto

import (
	"strconv"
	"strings"
)

// Reply is a parsed reply sentence. Type selects which fields are set:
//
//   - ReplyDone: Attributes, nil when the router sent none
//   - ReplyData: Attributes, never nil
//   - ReplyTrap: Message, Category, and any remaining Attributes (nil when none)
//   - ReplyFatal: Message only
//
// Attribute words (=key=value) and API words (.key=value) share one map;
// API keys keep their leading dot, so =tag=x and .tag=x do not collide but
// nothing else separates the two namespaces.
type Reply struct {
	Type       ReplyType
	Attributes map[string]string
	Message    string
	Category   Category
}

// IsDone returns true for a !done reply.
func (r *Reply) IsDone() bool {
	return r.Type == ReplyDone
}

// IsData returns true for a !re reply.
func (r *Reply) IsData() bool {
	return r.Type == ReplyData
}

// IsTrap returns true for a !trap reply.
func (r *Reply) IsTrap() bool {
	return r.Type == ReplyTrap
}

// IsFatal returns true for a !fatal reply.
func (r *Reply) IsFatal() bool {
	return r.Type == ReplyFatal
}

// Get returns the value of an attribute and whether it was present.
func (r *Reply) Get(key string) (string, bool) {
	v, ok := r.Attributes[key]
	return v, ok
}

// Tag returns the .tag API attribute, or "" if the reply is untagged.
func (r *Reply) Tag() string {
	return r.Attributes[AttrTag]
}

// Err returns the reply as a Go error: *TrapError for !trap,
// *FatalError for !fatal and nil otherwise.
func (r *Reply) Err() error {
	switch r.Type {
	case ReplyTrap:
		return &TrapError{Message: r.Message, Category: r.Category, Attributes: r.Attributes}
	case ReplyFatal:
		return &FatalError{Message: r.Message}
	default:
		return nil
	}
}

// ParseReply maps the words of one reply sentence (without the empty
// terminator) to a Reply.
func ParseReply(words []string) (*Reply, error) {
	if len(words) == 0 {
		return nil, ErrEmptySentence
	}

	typ := ReplyType(words[0])
	switch typ {
	case ReplyDone, ReplyData, ReplyTrap, ReplyFatal:
	default:
		return nil, &FormatError{Message: "unknown reply type " + strconv.Quote(words[0])}
	}

	attrs, bare := parseAttributes(words[1:])

	switch typ {
	case ReplyDone:
		r := &Reply{Type: ReplyDone, Category: CategoryNone}
		if len(attrs) > 0 {
			r.Attributes = attrs
		}
		return r, nil

	case ReplyData:
		return &Reply{Type: ReplyData, Attributes: attrs, Category: CategoryNone}, nil

	case ReplyTrap:
		r := &Reply{Type: ReplyTrap, Message: DefaultTrapMessage, Category: CategoryNone}
		if msg, ok := attrs[AttrMessage]; ok {
			r.Message = msg
			delete(attrs, AttrMessage)
		}
		if raw, ok := attrs[AttrCategory]; ok {
			c, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &FormatError{Message: "invalid trap category", Err: err}
			}
			r.Category = Category(c)
			delete(attrs, AttrCategory)
		}
		if len(attrs) > 0 {
			r.Attributes = attrs
		}
		return r, nil

	default:
		r := &Reply{Type: ReplyFatal, Message: DefaultFatalMessage, Category: CategoryNone}
		if msg, ok := attrs[AttrMessage]; ok {
			r.Message = msg
		} else if bare != "" {
			// RouterOS sends the reason as a plain word: !fatal, "not logged in"
			r.Message = bare
		}
		return r, nil
	}
}

// parseAttributes collects =key=value and .key=value words into one map.
// It also returns the first word that is neither.
func parseAttributes(words []string) (map[string]string, string) {
	attrs := make(map[string]string, len(words))
	var bare string

	for _, w := range words {
		if w == "" {
			continue
		}

		var key, value string
		switch w[0] {
		case AttributePrefix:
			key, value = splitWord(w[1:])
		case APIPrefix:
			// the dot stays part of the key
			key, value = splitWord(w)
		default:
			if bare == "" {
				bare = w
			}
			continue
		}
		attrs[key] = value
	}

	return attrs, bare
}

// splitWord splits "key=value" at the first '='. A word without '=' is
// all key.
func splitWord(s string) (string, string) {
	key, value, _ := strings.Cut(s, "=")
	return key, value
}
