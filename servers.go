package routeros

import (
	"errors"
)

var ErrNoServers = errors.New("routeros: no servers available")

// Servers provides the router addresses a Client may talk to.
// List may return a different set over time (for example from discovery);
// pools are created lazily for new addresses.
type Servers interface {
	List() []string
}

type staticServers struct {
	addresses []string
}

// NewStaticServers returns a fixed list of router addresses (host:port).
func NewStaticServers(addresses ...string) Servers {
	return &staticServers{addresses: addresses}
}

func (s *staticServers) List() []string {
	return s.addresses
}
