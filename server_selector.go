package routeros

import (
	"github.com/pior/routeros/internal"
	"github.com/zeebo/xxh3"
)

// ServerSelector picks the index of the router that handles a key.
// The key is whatever the caller shards on, such as a site or device name.
// It receives the key and the current number of routers.
type ServerSelector func(key string, serverCount int) int

// DefaultServerSelector uses Jump Hash for consistent server selection.
// Jump Hash provides good distribution and few key movements when routers are added/removed.
func DefaultServerSelector(key string, serverCount int) int {
	return internal.JumpHash(xxh3.HashString(key), serverCount)
}

// staticSelector is used in tests to always select a specific server.
func staticSelector(index int) ServerSelector {
	return func(key string, serverCount int) int {
		return index % serverCount
	}
}
