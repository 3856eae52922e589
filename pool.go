package routeros

import (
	"context"
	"time"
)

// Resource is a connection checked out of a Pool. Exactly one of Release,
// ReleaseUnused or Destroy must be called when the caller is done with it.
type Resource interface {
	Value() *Connection
	Release()
	ReleaseUnused()
	Destroy()
	CreationTime() time.Time
	IdleDuration() time.Duration
}

// Pool manages the connections to one router.
type Pool interface {
	Acquire(ctx context.Context) (Resource, error)
	AcquireAllIdle() []Resource
	Close()
	Stats() PoolStats
}

// NewPoolFunc creates a Pool from a connection constructor.
type NewPoolFunc func(constructor func(ctx context.Context) (*Connection, error), maxSize int32) (Pool, error)
