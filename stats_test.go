package routeros

import (
	"errors"
	"testing"
	"time"

	"github.com/pior/routeros/proto"
	"github.com/stretchr/testify/require"
)

func TestPoolStatsCollector(t *testing.T) {
	var c poolStatsCollector

	c.recordAcquire()
	c.recordCreate()
	c.recordActivate()
	c.recordAcquire()
	c.recordAcquireWait(5 * time.Millisecond)
	c.recordCreate()
	c.recordActivate()
	c.recordRelease()
	c.recordAcquireError()

	stats := c.snapshot()
	require.Equal(t, PoolStats{
		AcquireCount:      2,
		AcquireWaitCount:  1,
		CreatedConns:      2,
		AcquireErrors:     1,
		AcquireWaitTimeNs: uint64(5 * time.Millisecond),
		TotalConns:        2,
		IdleConns:         1,
		ActiveConns:       1,
	}, stats)

	c.recordAcquireFromIdle()
	c.recordDeactivate()
	c.recordDestroy()

	stats = c.snapshot()
	require.Equal(t, int32(1), stats.TotalConns)
	require.Equal(t, int32(0), stats.IdleConns)
	require.Equal(t, int32(1), stats.ActiveConns)
	require.Equal(t, uint64(1), stats.DestroyedConns)
}

func TestClientStatsCollector(t *testing.T) {
	var c clientStatsCollector

	c.recordCommand(3)
	c.recordCommand(0)
	c.recordError(&proto.TrapError{Message: "no such item"})
	c.recordError(&proto.FatalError{Message: "too many commands before login"})
	c.recordError(errors.New("dial tcp: connection refused"))

	require.Equal(t, ClientStats{
		Commands: 5,
		Rows:     3,
		Traps:    1,
		Fatals:   1,
		Errors:   3,
	}, c.snapshot())
}
