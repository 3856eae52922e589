package routeros

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pior/routeros/proto"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Config holds configuration for the RouterOS client connection pools.
type Config struct {
	// MaxSize is the maximum number of connections per router.
	// Required: must be > 0.
	MaxSize int32

	// MaxConnLifetime is the maximum duration a connection can be reused.
	// Zero means no limit.
	MaxConnLifetime time.Duration

	// MaxConnIdleTime is the maximum duration a connection can be idle before being closed.
	// Zero means no limit.
	MaxConnIdleTime time.Duration

	// HealthCheckInterval is how often to check idle connections for health.
	// Zero disables health checks.
	HealthCheckInterval time.Duration

	// Dialer is the net.Dialer used to create new connections.
	// If nil, the default net.Dialer is used.
	Dialer *net.Dialer

	// Username and Password are sent with /login on every new connection.
	// An empty Username skips the login.
	Username string
	Password string

	// NewPool is the connection pool factory function.
	// If nil, uses the default channel-based pool.
	// To use puddle: NewPool: routeros.NewPuddlePool
	NewPool NewPoolFunc

	// SelectServer picks which router handles a key.
	// If nil, uses DefaultServerSelector.
	SelectServer ServerSelector

	// NewCircuitBreaker creates a circuit breaker for a router.
	// Called once per router address when the pool is created.
	// If nil, no circuit breaker is used.
	NewCircuitBreaker func(serverAddr string) *gobreaker.CircuitBreaker[*Result]

	// Logger receives connection lifecycle events. Nil disables logging.
	Logger *zerolog.Logger

	// for testing purposes only
	constructor func(ctx context.Context, addr string) (*Connection, error)
}

func (c Config) withDefaults() Config {
	if c.Dialer == nil {
		c.Dialer = &net.Dialer{}
	}
	if c.NewPool == nil {
		c.NewPool = NewChannelPool
	}
	if c.SelectServer == nil {
		c.SelectServer = DefaultServerSelector
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

var _ Querier = (*Client)(nil)

const (
	healthCheckPath    = "/system/identity/print"
	healthCheckTimeout = 5 * time.Second
)

// Client runs commands on a set of routers, with a connection pool per router.
type Client struct {
	*Commands

	servers Servers
	config  Config
	logger  zerolog.Logger

	pools *xsync.Map[string, *ServerPool]

	stopHealthCheck chan struct{}
	closeOnce       sync.Once

	stats clientStatsCollector
}

// NewClient creates a new client with the given routers and configuration.
// For a single router, use: NewClient(NewStaticServers("host:8728"), config)
func NewClient(servers Servers, config Config) (*Client, error) {
	if len(servers.List()) == 0 {
		return nil, ErrNoServers
	}

	config = config.withDefaults()

	client := &Client{
		servers:         servers,
		config:          config,
		logger:          *config.Logger,
		pools:           xsync.NewMap[string, *ServerPool](),
		stopHealthCheck: make(chan struct{}),
	}
	client.Commands = NewCommands(client)

	if config.HealthCheckInterval > 0 {
		go client.healthCheckLoop()
	}

	return client, nil
}

// Close stops health checks and destroys all connections in all pools.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.stopHealthCheck)

		c.pools.Range(func(addr string, sp *ServerPool) bool {
			sp.Close()
			return true
		})
	})
}

// Execute runs cmd on the router selected for key.
//
// A !trap reply is returned as *proto.TrapError, a !fatal one as
// *proto.FatalError. Use IsTrap and IsFatal to tell them apart.
func (c *Client) Execute(ctx context.Context, key string, cmd *proto.Command) (*Result, error) {
	addr, err := c.selectServerForKey(key)
	if err != nil {
		c.stats.recordError(err)
		return nil, err
	}
	return c.ExecuteOn(ctx, addr, cmd)
}

// ExecuteOn runs cmd on the router at addr, bypassing server selection.
// The address does not need to be part of the Servers list.
func (c *Client) ExecuteOn(ctx context.Context, addr string, cmd *proto.Command) (*Result, error) {
	sp, err := c.getOrCreatePool(addr)
	if err != nil {
		c.stats.recordError(err)
		return nil, err
	}

	res, err := sp.Execute(ctx, cmd)
	if err != nil {
		c.stats.recordError(err)
		return nil, err
	}

	c.stats.recordCommand(len(res.Rows))
	return res, nil
}

// selectServerForKey picks the router address for a given key.
func (c *Client) selectServerForKey(key string) (string, error) {
	servers := c.servers.List()
	if len(servers) == 0 {
		return "", ErrNoServers
	}
	if len(servers) == 1 {
		return servers[0], nil
	}
	return servers[c.config.SelectServer(key, len(servers))], nil
}

// getOrCreatePool gets or creates the pool for the given router address.
func (c *Client) getOrCreatePool(addr string) (*ServerPool, error) {
	if sp, ok := c.pools.Load(addr); ok {
		return sp, nil
	}

	sp, err := NewServerPool(addr, c.config)
	if err != nil {
		return nil, err
	}

	actual, loaded := c.pools.LoadOrStore(addr, sp)
	if loaded {
		// lost the race, nothing was dialed yet
		sp.Close()
	}
	return actual, nil
}

// healthCheckLoop periodically checks idle connections for health and lifecycle limits.
func (c *Client) healthCheckLoop() {
	ticker := time.NewTicker(c.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopHealthCheck:
			return
		case <-ticker.C:
			c.checkAllPools()
		}
	}
}

// checkAllPools runs health checks on all existing pools
func (c *Client) checkAllPools() {
	c.pools.Range(func(addr string, sp *ServerPool) bool {
		c.checkPoolConnections(sp)
		return true
	})
}

// checkPoolConnections checks all idle connections in a pool and destroys
// those that are stale or unhealthy.
func (c *Client) checkPoolConnections(sp *ServerPool) {
	now := time.Now()

	for _, res := range sp.pool.AcquireAllIdle() {
		if c.config.MaxConnLifetime > 0 && now.Sub(res.CreationTime()) > c.config.MaxConnLifetime {
			res.Destroy()
			continue
		}

		if c.config.MaxConnIdleTime > 0 && res.IdleDuration() > c.config.MaxConnIdleTime {
			res.Destroy()
			continue
		}

		if err := c.healthCheck(res.Value()); err != nil {
			c.logger.Warn().Err(err).Str("router", sp.addr).Msg("health check failed")
			res.Destroy()
			continue
		}

		res.ReleaseUnused()
	}
}

// healthCheck reads the router identity, the cheapest command every
// RouterOS version answers.
func (c *Client) healthCheck(conn *Connection) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	_, err := conn.Execute(ctx, proto.NewCommand(healthCheckPath))
	return err
}

// Stats returns a snapshot of client statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// AllPoolStats returns stats for all router pools
func (c *Client) AllPoolStats() []ServerPoolStats {
	var stats []ServerPoolStats
	c.pools.Range(func(addr string, sp *ServerPool) bool {
		stats = append(stats, sp.Stats())
		return true
	})
	return stats
}
