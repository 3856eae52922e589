package routeros

import (
	"time"

	"github.com/pior/routeros/proto"
	"github.com/sony/gobreaker/v2"
)

// NewCircuitBreakerConfig returns a function that creates circuit breakers for routers.
// This is a helper for common use cases.
//
// Only errors that break the connection count as failures: a !trap is the
// router answering, so it leaves the breaker closed.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(string) *gobreaker.CircuitBreaker[*Result] {
	return func(serverAddr string) *gobreaker.CircuitBreaker[*Result] {
		settings := gobreaker.Settings{
			Name:        serverAddr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			IsSuccessful: isBreakerSuccess,
		}
		return gobreaker.NewCircuitBreaker[*Result](settings)
	}
}

func isBreakerSuccess(err error) bool {
	return !proto.ShouldCloseConnection(err)
}
