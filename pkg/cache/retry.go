package cache

import (
	"context"
	"time"
)

// Backoff is an exponential retry schedule.
type Backoff struct {
	// Attempts is the total number of calls, including the first one.
	Attempts int
	// Delay is the wait after the first failure. It doubles after each
	// further failure.
	Delay time.Duration
	// MaxDelay caps the wait between attempts. Zero means no cap.
	MaxDelay time.Duration
}

// DefaultBackoff makes three attempts, waiting one and then two seconds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 30 * time.Second}

// Retry calls fn until it succeeds or returns an error that is not
// retryable. Once the attempts are used up the last error is returned.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		delay = b.next(delay)
	}
	return err
}

func (b Backoff) next(d time.Duration) time.Duration {
	d *= 2
	if b.MaxDelay > 0 && d > b.MaxDelay {
		return b.MaxDelay
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
