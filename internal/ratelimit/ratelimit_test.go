package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucket_BurstThenDelay(t *testing.T) {
	tb := NewTokenBucket(100, 2)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 2; i++ {
		if err := tb.Acquire(ctx); err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected burst acquisitions to be immediate, took %v", elapsed)
	}

	// Third token requires a refill at 100/s, so roughly 10ms.
	if err := tb.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("Expected third acquisition to wait for refill, took %v", elapsed)
	}
}

func TestTokenBucket_CancelledContext(t *testing.T) {
	tb := NewTokenBucket(0.001, 1)
	ctx := context.Background()

	// Drain the only token.
	if err := tb.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := tb.Acquire(cancelled); err == nil {
		t.Error("Expected error acquiring with cancelled context")
	}
}

func TestNop(t *testing.T) {
	if err := (Nop{}).Acquire(context.Background()); err != nil {
		t.Errorf("Nop.Acquire failed: %v", err)
	}
}
