package routeros

import (
	"sync/atomic"
	"time"
)

// PoolStats contains statistics about a connection pool.
//
// For Prometheus integration, expose these as:
//   - Gauges: TotalConns, IdleConns, ActiveConns
//   - Counters: AcquireCount, AcquireWaitCount, CreatedConns, DestroyedConns, AcquireErrors
//   - Histogram: AcquireWaitDuration (use AcquireWaitCount and AcquireWaitTimeNs to calculate)
type PoolStats struct {
	// Lifetime counters
	AcquireCount      uint64 // Total acquire attempts
	AcquireWaitCount  uint64 // Acquires that had to wait
	CreatedConns      uint64 // Total connections created
	DestroyedConns    uint64 // Total connections destroyed
	AcquireErrors     uint64 // Failed acquire attempts
	AcquireWaitTimeNs uint64 // Total nanoseconds spent waiting

	// Current state gauges
	TotalConns  int32 // Total connections in pool (active + idle)
	IdleConns   int32 // Idle connections available
	ActiveConns int32 // Connections currently in use
}

// ClientStats contains statistics about client operations.
//
// For Prometheus integration, expose these as counters. Traps and Fatals
// are router replies; Errors counts every failed command, traps included.
type ClientStats struct {
	Commands uint64 // Total commands executed
	Rows     uint64 // Total !re rows received
	Traps    uint64 // Commands answered with !trap
	Fatals   uint64 // Commands answered with !fatal
	Errors   uint64 // Total errors across all commands
}

// poolStatsCollector updates pool stats. The zero value is ready to use.
type poolStatsCollector struct {
	acquireCount      atomic.Uint64
	acquireWaitCount  atomic.Uint64
	createdConns      atomic.Uint64
	destroyedConns    atomic.Uint64
	acquireErrors     atomic.Uint64
	acquireWaitTimeNs atomic.Uint64

	totalConns  atomic.Int32
	idleConns   atomic.Int32
	activeConns atomic.Int32
}

func (c *poolStatsCollector) recordAcquire() {
	c.acquireCount.Add(1)
}

func (c *poolStatsCollector) recordAcquireWait(duration time.Duration) {
	c.acquireWaitCount.Add(1)
	c.acquireWaitTimeNs.Add(uint64(duration.Nanoseconds()))
}

func (c *poolStatsCollector) recordCreate() {
	c.createdConns.Add(1)
	c.totalConns.Add(1)
}

func (c *poolStatsCollector) recordDestroy() {
	c.destroyedConns.Add(1)
	c.totalConns.Add(-1)
}

func (c *poolStatsCollector) recordAcquireError() {
	c.acquireErrors.Add(1)
}

func (c *poolStatsCollector) recordAcquireFromIdle() {
	c.idleConns.Add(-1)
	c.activeConns.Add(1)
}

func (c *poolStatsCollector) recordActivate() {
	c.activeConns.Add(1)
}

// recordDeactivate marks an active connection as gone without returning
// it to the idle set.
func (c *poolStatsCollector) recordDeactivate() {
	c.activeConns.Add(-1)
}

func (c *poolStatsCollector) recordIdleClosed() {
	c.idleConns.Add(-1)
}

func (c *poolStatsCollector) recordRelease() {
	c.idleConns.Add(1)
	c.activeConns.Add(-1)
}

func (c *poolStatsCollector) snapshot() PoolStats {
	return PoolStats{
		TotalConns:        c.totalConns.Load(),
		IdleConns:         c.idleConns.Load(),
		ActiveConns:       c.activeConns.Load(),
		AcquireCount:      c.acquireCount.Load(),
		AcquireWaitCount:  c.acquireWaitCount.Load(),
		CreatedConns:      c.createdConns.Load(),
		DestroyedConns:    c.destroyedConns.Load(),
		AcquireErrors:     c.acquireErrors.Load(),
		AcquireWaitTimeNs: c.acquireWaitTimeNs.Load(),
	}
}

// clientStatsCollector updates client stats. The zero value is ready to use.
type clientStatsCollector struct {
	commands atomic.Uint64
	rows     atomic.Uint64
	traps    atomic.Uint64
	fatals   atomic.Uint64
	errors   atomic.Uint64
}

func (c *clientStatsCollector) recordCommand(rows int) {
	c.commands.Add(1)
	c.rows.Add(uint64(rows))
}

func (c *clientStatsCollector) recordError(err error) {
	c.commands.Add(1)
	c.errors.Add(1)
	switch {
	case IsTrap(err):
		c.traps.Add(1)
	case IsFatal(err):
		c.fatals.Add(1)
	}
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		Commands: c.commands.Load(),
		Rows:     c.rows.Load(),
		Traps:    c.traps.Load(),
		Fatals:   c.fatals.Load(),
		Errors:   c.errors.Load(),
	}
}
