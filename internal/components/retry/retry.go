// Package retry runs an operation under a bounded retry policy.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy is a bounded retry policy: at most MaxAttempts calls with a
// constant Delay between them.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Default is 3 attempts, 5 seconds apart.
var Default = Policy{MaxAttempts: 3, Delay: 5 * time.Second}

// Notify is called after a failed attempt that will be retried.
// `attempt` is the 1-based number of the attempt that failed.
type Notify func(err error, attempt int, next time.Duration)

// Permanent marks an error as not worth retrying, Do returns it as is
// (unwrapped) without making another attempt.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

func (p Policy) backoff(ctx context.Context) backoff.BackOff {
	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(retries))
	return backoff.WithContext(b, ctx)
}

// Do calls `op` until it succeeds, returns a Permanent error, the context is
// cancelled or the attempts are exhausted. the error of the last attempt is
// returned.
func (p Policy) Do(ctx context.Context, op func(attempt int) error, notify Notify) error {
	attempt := 0
	return backoff.RetryNotify(
		func() error {
			attempt++
			return op(attempt)
		},
		p.backoff(ctx),
		func(err error, next time.Duration) {
			if notify != nil {
				notify(err, attempt, next)
			}
		},
	)
}
