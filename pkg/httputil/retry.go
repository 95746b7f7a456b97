package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient download failure: a dropped connection,
// a 5xx response or a rate limit. After, when set, is the delay the server
// asked for with a Retry-After header.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// RetryPolicy controls how often a sheet download is attempted.
type RetryPolicy struct {
	// Attempts is the total number of tries, at least one.
	Attempts int
	// Delay is the wait before the second try. It doubles after every
	// further failure.
	Delay time.Duration
	// MaxDelay caps a single wait, including server requested ones.
	// Zero means no cap.
	MaxDelay time.Duration
}

// DefaultRetryPolicy tries three times, waiting one and then two seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: time.Second, MaxDelay: 30 * time.Second}
}

// Do calls fn until it succeeds, returns an error that is not a
// [RetryableError], or the attempts run out. It returns the last error, or
// ctx.Err() if ctx ends while waiting.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var err error
	for try := 1; ; try++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || try == attempts {
			return err
		}

		wait := max(delay, re.After)
		if p.MaxDelay > 0 {
			wait = min(wait, p.MaxDelay)
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
