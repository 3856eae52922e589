package routeros

import (
	"context"

	"github.com/pior/routeros/proto"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// NewServerPool creates the pool and circuit breaker for one router.
// Connections are dialed with config.Dialer and logged in with
// config.Username/Password when a username is set.
func NewServerPool(addr string, config Config) (*ServerPool, error) {
	config = config.withDefaults()
	logger := config.Logger.With().Str("router", addr).Logger()

	constructor := func(ctx context.Context) (*Connection, error) {
		if config.constructor != nil {
			return config.constructor(ctx, addr)
		}

		netConn, err := config.Dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		conn := NewConnection(netConn)

		if config.Username != "" {
			if err := conn.Login(ctx, config.Username, config.Password); err != nil {
				conn.Close()
				logger.Warn().Err(err).Msg("login failed")
				return nil, err
			}
		}

		logger.Debug().Msg("connection established")
		return conn, nil
	}

	pool, err := config.NewPool(constructor, config.MaxSize)
	if err != nil {
		return nil, err
	}

	sp := &ServerPool{
		addr:   addr,
		pool:   pool,
		logger: logger,
	}
	if config.NewCircuitBreaker != nil {
		sp.circuitBreaker = config.NewCircuitBreaker(addr)
	}
	return sp, nil
}

// ServerPool wraps a pool, a circuit breaker with its router address.
type ServerPool struct {
	addr           string
	pool           Pool
	circuitBreaker *gobreaker.CircuitBreaker[*Result]
	logger         zerolog.Logger
}

func (sp *ServerPool) Address() string {
	return sp.addr
}

// ServerPoolStats contains stats for a single router pool
type ServerPoolStats struct {
	Addr                 string
	PoolStats            PoolStats
	CircuitBreakerState  gobreaker.State
	CircuitBreakerCounts gobreaker.Counts
}

func (sp *ServerPool) Stats() ServerPoolStats {
	stats := ServerPoolStats{
		Addr:      sp.addr,
		PoolStats: sp.pool.Stats(),
	}
	if sp.circuitBreaker != nil {
		stats.CircuitBreakerState = sp.circuitBreaker.State()
		stats.CircuitBreakerCounts = sp.circuitBreaker.Counts()
	}
	return stats
}

// Execute runs a single command with proper connection management.
// It handles acquiring a connection, running the command, and
// releasing/destroying the connection based on error conditions.
// The command is wrapped with the router's circuit breaker.
func (sp *ServerPool) Execute(ctx context.Context, cmd *proto.Command) (*Result, error) {
	if sp.circuitBreaker == nil {
		return sp.execDirect(ctx, cmd)
	}

	var cmdErr error
	res, err := sp.circuitBreaker.Execute(func() (*Result, error) {
		res, err := sp.execDirect(ctx, cmd)
		cmdErr = err
		return res, err
	})
	if cmdErr == nil && err != nil {
		// rejected by the breaker itself (open or too many requests)
		return nil, &proto.ConnectionError{Op: "acquire", Err: err}
	}
	return res, err
}

// execDirect performs the actual command execution without circuit breaker.
func (sp *ServerPool) execDirect(ctx context.Context, cmd *proto.Command) (*Result, error) {
	resource, err := sp.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	conn := resource.Value()

	res, err := conn.Execute(ctx, cmd)
	if err != nil {
		if proto.ShouldCloseConnection(err) {
			sp.logger.Debug().Err(err).Str("command", cmd.Path).Msg("destroying connection")
			resource.Destroy()
		} else {
			resource.Release()
		}
		return nil, err
	}

	resource.Release()
	return res, nil
}

// Close closes the underlying pool.
func (sp *ServerPool) Close() {
	sp.pool.Close()
}
