package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// TokenBucket keeps one bucket per caller key. Refill is fractional so a
// per-hour rate accrues continuously instead of in hourly steps.
type TokenBucket struct {
	capacity      float64
	refillPerHour float64
	buckets       map[string]*bucket
	mu            sync.Mutex
	now           func() time.Time
}

func NewTokenBucket(capacity int, refillPerHour float64) *TokenBucket {
	return &TokenBucket{
		capacity:      float64(capacity),
		refillPerHour: refillPerHour,
		buckets:       make(map[string]*bucket),
		now:           time.Now,
	}
}

func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, lastRefill: now}
		tb.buckets[key] = b
	} else {
		elapsed := now.Sub(b.lastRefill).Hours()
		if elapsed > 0 {
			b.tokens = min(b.tokens+elapsed*tb.refillPerHour, tb.capacity)
			b.lastRefill = now
		}
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
