// Package retry runs an operation again with exponential backoff while its error is
// classified as retryable.
//
//	err := retry.Do(ctx, retry.Config{Attempts: 3, Delay: 250 * time.Millisecond}, func() error {
//	    return doSomeWork()
//	})
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Config controls Do. Zero values fall back to the defaults documented per field.
type Config struct {
	Attempts   int           // total attempts including the first; 0 or less means 1
	Delay      time.Duration // wait before the second attempt
	MaxDelay   time.Duration // cap for the growing delay; 0 means no cap
	Multiplier float64       // delay growth per attempt; below 1 means 2
	Jitter     bool          // add up to 25% random jitter to each wait

	// Retryable reports whether err is worth another attempt. Nil retries everything
	// except permanent errors.
	Retryable func(error) bool
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err so Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds, returns a non-retryable error, runs out of attempts, or
// ctx is done. The last error from fn is returned, unwrapped from Permanent.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	attempts := max(cfg.Attempts, 1)
	multiplier := cfg.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}

	delay := cfg.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt >= attempts || (cfg.Retryable != nil && !cfg.Retryable(err)) {
			return err
		}

		wait := delay
		if cfg.Jitter {
			wait = addJitter(wait)
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}

// addJitter adds random jitter (0-25% of delay).
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + time.Duration(rand.Int64N(int64(delay/4)))
}
