package proto

import (
	"strconv"
)

// Param is one key/value pair of a command. Value may be a string, a bool,
// or any integer or floating point kind.
type Param struct {
	Key   string
	Value any
}

// Options holds the parameters of a command. Slice order is word order.
type Options struct {
	Attributes []Param
	Queries    []Param
}

// Command is a RouterOS API command: a menu path such as
// "/interface/print" plus its attribute and query words.
//
// Keys and values are written verbatim. Nothing is escaped, so keys must
// not contain '=' or start with '?'.
type Command struct {
	Path string
	Options
}

// NewCommand creates a command for the given menu path.
func NewCommand(path string) *Command {
	return &Command{Path: path}
}

// Attr appends an attribute (=key=value) and returns the command.
func (c *Command) Attr(key string, value any) *Command {
	c.Attributes = append(c.Attributes, Param{Key: key, Value: value})
	return c
}

// Query appends a query (?key=value) and returns the command.
func (c *Command) Query(key string, value any) *Command {
	c.Queries = append(c.Queries, Param{Key: key, Value: value})
	return c
}

// Words returns the words of the command in wire order.
func (c *Command) Words() ([]string, error) {
	return BuildCommand(c.Path, c.Options)
}

// BuildCommand maps a path and its parameters to the ordered word list:
// the path, then one "=key=value" word per attribute, then one
// "?key=value" word per query.
func BuildCommand(path string, opts Options) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	words := make([]string, 0, 1+len(opts.Attributes)+len(opts.Queries))
	words = append(words, path)

	for _, p := range opts.Attributes {
		w, err := paramWord(AttributePrefix, p)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}

	for _, p := range opts.Queries {
		w, err := paramWord(QueryPrefix, p)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}

	return words, nil
}

func paramWord(prefix byte, p Param) (string, error) {
	v, err := stringify(p)
	if err != nil {
		return "", err
	}
	return string(prefix) + p.Key + "=" + v, nil
}

// stringify converts a parameter value to its literal text.
func stringify(p Param) (string, error) {
	switch v := p.Value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", &ValueError{Key: p.Key, Value: p.Value}
	}
}
