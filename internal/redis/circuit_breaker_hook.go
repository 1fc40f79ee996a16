package redis

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/pratikbuilds/account-socket/internal/metrics"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// CircuitBreakerHook implements redis.Hook to add circuit breaker protection
// to all Redis operations. Cache failures are already soft at the call sites;
// the breaker stops every caller from paying the connection timeout while
// Redis is down.
type CircuitBreakerHook struct {
	cb *gobreaker.CircuitBreaker
}

var _ goredis.Hook = (*CircuitBreakerHook)(nil)

// NewCircuitBreakerHook creates a breaker that opens after 5 consecutive
// failures and probes again after 30 seconds.
func NewCircuitBreakerHook() *CircuitBreakerHook {
	settings := gobreaker.Settings{
		Name:    "redis",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"component", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	return &CircuitBreakerHook{cb: gobreaker.NewCircuitBreaker(settings)}
}

// GetState returns the current breaker state.
func (h *CircuitBreakerHook) GetState() gobreaker.State {
	return h.cb.State()
}

// GetCounts returns the breaker's internal counters.
func (h *CircuitBreakerHook) GetCounts() gobreaker.Counts {
	return h.cb.Counts()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func (h *CircuitBreakerHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		result, err := h.cb.Execute(func() (interface{}, error) {
			return next(ctx, network, addr)
		})
		if err != nil {
			return nil, err
		}
		return result.(net.Conn), nil
	}
}

func (h *CircuitBreakerHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		_, err := h.cb.Execute(func() (interface{}, error) {
			err := next(ctx, cmd)
			// A key miss is a successful round trip, not a failure.
			if errors.Is(err, goredis.Nil) {
				return nil, nil
			}
			return nil, err
		})
		if err != nil {
			return err
		}
		return cmd.Err()
	}
}

func (h *CircuitBreakerHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		_, err := h.cb.Execute(func() (interface{}, error) {
			return nil, next(ctx, cmds)
		})
		return err
	}
}
