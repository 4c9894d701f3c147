package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterWait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiterAllowExhaustsBurst(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow() {
		t.Fatal("first request should pass")
	}
	if limiter.Allow() {
		t.Error("second request should be throttled")
	}
}

func TestLimiterDisabled(t *testing.T) {
	limiter := NewLimiter(0, 0)

	for i := 0; i < 100; i++ {
		if !limiter.Allow() {
			t.Fatalf("request %d throttled with limiting disabled", i)
		}
	}
}

func TestLimiterWaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Drain the burst token, then the next wait must observe cancellation.
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected context error on second wait")
	}
}
