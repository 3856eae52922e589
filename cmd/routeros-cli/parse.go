package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pior/routeros/proto"
)

// parseLine turns "/path =key=value ?key=value" into a command. Words are
// split on whitespace, so values cannot contain spaces.
func parseLine(line string) (*proto.Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, proto.ErrEmptyPath
	}

	path := fields[0]
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("command must start with '/': %q", path)
	}

	cmd := proto.NewCommand(path)
	for _, word := range fields[1:] {
		prefix := word[0]
		if prefix != proto.AttributePrefix && prefix != proto.QueryPrefix {
			return nil, fmt.Errorf("word %q must start with '=' or '?'", word)
		}

		key, value, ok := strings.Cut(word[1:], "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("word %q must look like %ckey=value", word, prefix)
		}

		if prefix == proto.AttributePrefix {
			cmd.Attr(key, value)
		} else {
			cmd.Query(key, value)
		}
	}
	return cmd, nil
}

// formatRow prints attributes in key order, ids first.
func formatRow(row map[string]string) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if a == ".id" {
			return -1
		}
		if b == ".id" {
			return 1
		}
		return strings.Compare(a, b)
	})

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%s", k, row[k])
	}
	return sb.String()
}
