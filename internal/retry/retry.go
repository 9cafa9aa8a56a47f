package retry

import (
	"context"
	"math/rand"
	"time"
)

// Options configures exponential backoff for retries.
type Options struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// Default backoff settings used when opts are zero/invalid.
var Default = Options{
	MaxAttempts:  5,
	InitialDelay: 300 * time.Millisecond,
	MaxDelay:     8 * time.Second,
	Multiplier:   2.0,
	Jitter:       true,
}

type IsRetryableFunc func(error) bool

// Do runs fn until it succeeds, the error is not retryable, the context is
// done, or attempts are exhausted. The last error is returned.
func Do(ctx context.Context, opts Options, isRetryable IsRetryableFunc, fn func(context.Context) error) error {
	if opts.MaxAttempts <= 0 {
		opts = Default
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	delay := opts.InitialDelay

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if isRetryable != nil && !isRetryable(err) {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return err
		}

		if err := sleep(ctx, jittered(rng, delay, opts)); err != nil {
			return err
		}
		delay = nextDelay(delay, opts)
	}
}

// jittered applies +/-20% jitter and caps the result at MaxDelay.
func jittered(rng *rand.Rand, d time.Duration, opts Options) time.Duration {
	if opts.Jitter {
		delta := float64(d) * 0.2
		d = time.Duration(float64(d) + (rng.Float64()*2-1)*delta)
		if d < 0 {
			d = 0
		}
	}
	if d > opts.MaxDelay {
		d = opts.MaxDelay
	}
	return d
}

// nextDelay grows the backoff with an overflow guard and the MaxDelay cap.
func nextDelay(d time.Duration, opts Options) time.Duration {
	next := time.Duration(float64(d) * opts.Multiplier)
	if next < d {
		next = d
	}
	if next > opts.MaxDelay {
		next = opts.MaxDelay
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
