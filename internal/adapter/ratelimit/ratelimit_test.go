package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucketExhaustion(t *testing.T) {
	tb := NewTokenBucket(10, 10)

	for i := 0; i < 10; i++ {
		if !tb.Allow("caller") {
			t.Fatalf("request %d should pass within capacity", i+1)
		}
	}
	if tb.Allow("caller") {
		t.Fatalf("11th request should be rejected")
	}
}

func TestTokenBucketPerKey(t *testing.T) {
	tb := NewTokenBucket(1, 1)

	if !tb.Allow("a") {
		t.Fatalf("first request for key a should pass")
	}
	if tb.Allow("a") {
		t.Fatalf("key a is exhausted")
	}
	if !tb.Allow("b") {
		t.Fatalf("key b has its own bucket")
	}
}

func TestTokenBucketFractionalRefill(t *testing.T) {
	tb := NewTokenBucket(10, 10)
	now := time.Now()
	tb.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		tb.Allow("caller")
	}
	if tb.Allow("caller") {
		t.Fatalf("bucket should be empty")
	}

	// 30 minutes at 10/hour accrues 5 tokens.
	now = now.Add(30 * time.Minute)
	for i := 0; i < 5; i++ {
		if !tb.Allow("caller") {
			t.Fatalf("refilled token %d should be available", i+1)
		}
	}
	if tb.Allow("caller") {
		t.Fatalf("only 5 tokens should have accrued")
	}

	// 3 minutes is half a token; not enough to spend.
	now = now.Add(3 * time.Minute)
	if tb.Allow("caller") {
		t.Fatalf("partial token must not be spendable")
	}
	now = now.Add(3 * time.Minute)
	if !tb.Allow("caller") {
		t.Fatalf("accumulated fraction should add up to a full token")
	}
}

func TestTokenBucketCapacityCap(t *testing.T) {
	tb := NewTokenBucket(10, 10)
	now := time.Now()
	tb.now = func() time.Time { return now }

	tb.Allow("caller")
	now = now.Add(48 * time.Hour)

	count := 0
	for tb.Allow("caller") {
		count++
		if count > 20 {
			break
		}
	}
	if count != 10 {
		t.Fatalf("refill must cap at capacity, got %d tokens", count)
	}
}
