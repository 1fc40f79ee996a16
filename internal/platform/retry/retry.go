package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy controls bounded retries with exponential backoff.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	OnRetry        func(attempt int, err error, backoff time.Duration)
}

// Do runs op up to MaxAttempts times, doubling the backoff between attempts.
// Context cancellation aborts the wait.
func Do(ctx context.Context, p Policy, op func() error) error {
	backoff := p.InitialBackoff

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			return fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, err)
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, backoff)
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
			if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}
