package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	limiter := NewMemoryLimiter()
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !limiter.Allow(ctx, "apply:job:user", 3, time.Minute) {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}
	if limiter.Allow(ctx, "apply:job:user", 3, time.Minute) {
		t.Fatalf("fourth hit should be limited")
	}
	if !limiter.Allow(ctx, "apply:job:other", 3, time.Minute) {
		t.Fatalf("keys must not share a window")
	}

	now = now.Add(time.Minute)
	if !limiter.Allow(ctx, "apply:job:user", 3, time.Minute) {
		t.Fatalf("new window should reset the count")
	}
}

func TestMemoryLimiterIgnoresEmptyKey(t *testing.T) {
	limiter := NewMemoryLimiter()
	for i := 0; i < 10; i++ {
		if !limiter.Allow(context.Background(), "", 1, time.Minute) {
			t.Fatalf("empty key must never be limited")
		}
	}
}

func TestNilRedisLimiterAllows(t *testing.T) {
	limiter := NewRedisLimiter(nil, "rolejet", nil)
	if limiter != nil {
		t.Fatalf("expected nil limiter without client")
	}
	if !limiter.Allow(context.Background(), "k", 1, time.Minute) {
		t.Fatalf("nil limiter must allow")
	}
}
