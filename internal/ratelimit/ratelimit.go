// Package ratelimit gates all upstream catalog calls behind one shared
// token bucket.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter is the acquisition contract the TMDB client depends on. Acquire
// blocks the calling goroutine until a token is available or ctx is done;
// it never fails for lack of tokens, only delays.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// TokenBucket is a Limiter over golang.org/x/time/rate. One instance is
// shared by every upstream caller in the process.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket creates a limiter allowing rps events per second with the
// given burst size.
func NewTokenBucket(rps float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (t *TokenBucket) Acquire(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Nop is a Limiter that never delays, for tests.
type Nop struct{}

func (Nop) Acquire(ctx context.Context) error {
	return ctx.Err()
}
