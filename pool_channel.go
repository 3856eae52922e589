package routeros

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pior/routeros/internal/coarsetime"
)

var ErrPoolClosed = errors.New("routeros: pool closed")

// NewChannelPool creates a new channel-based connection pool.
// This is the default pool implementation.
func NewChannelPool(constructor func(ctx context.Context) (*Connection, error), maxSize int32) (Pool, error) {
	if maxSize <= 0 {
		return nil, errors.New("routeros: pool max size must be > 0")
	}
	return &channelPool{
		constructor: constructor,
		slots:       make(chan struct{}, maxSize),
		resources:   make(chan *channelResource, maxSize),
	}, nil
}

// channelResource implements Resource for channel pool.
type channelResource struct {
	conn         *Connection
	pool         *channelPool
	creationTime time.Time
	lastUsedTime time.Time
}

func (r *channelResource) Value() *Connection {
	return r.conn
}

func (r *channelResource) Release() {
	r.lastUsedTime = coarsetime.Now()
	r.pool.put(r)
}

func (r *channelResource) ReleaseUnused() {
	// Don't update lastUsedTime for health checks
	r.pool.put(r)
}

func (r *channelResource) Destroy() {
	r.conn.Close()
	r.pool.stats.recordDeactivate()
	r.pool.removeResource()
}

func (r *channelResource) CreationTime() time.Time {
	return r.creationTime
}

func (r *channelResource) IdleDuration() time.Duration {
	return time.Since(r.lastUsedTime)
}

// channelPool is a simple, allocation-optimized connection pool using Go channels.
//
// Every live connection holds a token in slots. A waiter either takes an
// idle connection or a token freed by a destroyed one.
type channelPool struct {
	constructor func(ctx context.Context) (*Connection, error)

	slots     chan struct{}
	resources chan *channelResource

	mu     sync.Mutex // guards closed and sends on resources
	closed bool

	stats poolStatsCollector
}

func (p *channelPool) Acquire(ctx context.Context) (Resource, error) {
	p.stats.recordAcquire()

	if p.isClosed() {
		p.stats.recordAcquireError()
		return nil, ErrPoolClosed
	}

	// Try to get an idle connection from the pool first
	if res := p.takeIdle(); res != nil {
		return res, nil
	}

	// Then a free slot, without waiting
	select {
	case p.slots <- struct{}{}:
		return p.create(ctx)
	default:
	}

	// Pool is full, wait for a connection to be released or destroyed
	waitStart := coarsetime.Now()
	for {
		select {
		case res, ok := <-p.resources:
			if !ok {
				p.stats.recordAcquireError()
				return nil, ErrPoolClosed
			}
			p.stats.recordAcquireFromIdle()
			if res.conn.IsClosed() {
				res.Destroy()
				continue
			}
			p.stats.recordAcquireWait(time.Since(waitStart))
			return res, nil
		case p.slots <- struct{}{}:
			p.stats.recordAcquireWait(time.Since(waitStart))
			return p.create(ctx)
		case <-ctx.Done():
			p.stats.recordAcquireError()
			return nil, ctx.Err()
		}
	}
}

// create dials a connection for a slot the caller already holds.
func (p *channelPool) create(ctx context.Context) (Resource, error) {
	conn, err := p.constructor(ctx)
	if err != nil {
		<-p.slots
		p.stats.recordAcquireError()
		return nil, err
	}

	if p.isClosed() {
		conn.Close()
		<-p.slots
		p.stats.recordAcquireError()
		return nil, ErrPoolClosed
	}

	p.stats.recordCreate()
	p.stats.recordActivate() // New connection goes straight to active

	now := coarsetime.Now()
	return &channelResource{
		conn:         conn,
		pool:         p,
		creationTime: now,
		lastUsedTime: now,
	}, nil
}

func (p *channelPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *channelPool) put(res *channelResource) {
	// A !fatal or I/O error left it unusable
	if res.conn.IsClosed() {
		p.stats.recordDeactivate()
		p.removeResource()
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		res.conn.Close()
		p.stats.recordDeactivate()
		p.removeResource()
		return
	}

	// never blocks: resources has room for every slot
	p.resources <- res
	p.mu.Unlock()
	p.stats.recordRelease()
}

// takeIdle returns an idle connection, destroying idle ones that were
// closed while parked. Returns nil when none is left.
func (p *channelPool) takeIdle() *channelResource {
	for {
		select {
		case res, ok := <-p.resources:
			if !ok {
				return nil
			}
			p.stats.recordAcquireFromIdle()
			if res.conn.IsClosed() {
				res.Destroy()
				continue
			}
			return res
		default:
			return nil
		}
	}
}

func (p *channelPool) removeResource() {
	<-p.slots
	p.stats.recordDestroy()
}

func (p *channelPool) AcquireAllIdle() []Resource {
	var idle []Resource

	// Drain all idle connections from the channel
	for {
		select {
		case res, ok := <-p.resources:
			if !ok {
				return idle
			}
			p.stats.recordAcquireFromIdle()
			idle = append(idle, res)
		default:
			return idle
		}
	}
}

func (p *channelPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.resources)
	p.mu.Unlock()

	// Close all idle connections
	for res := range p.resources {
		res.conn.Close()
		p.stats.recordIdleClosed()
		p.removeResource()
	}
}

// Stats returns a snapshot of pool statistics.
func (p *channelPool) Stats() PoolStats {
	return p.stats.snapshot()
}
