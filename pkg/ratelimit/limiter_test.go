package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(0.001, 3)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Request 4 should be blocked")
	}

	tb.Reset()
	if !tb.Allow() {
		t.Error("Request after reset should be allowed")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(50, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, tb.Wait(ctx))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestTokenBucketWaitHonoursContext(t *testing.T) {
	tb := NewTokenBucket(0.001, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, tb.Wait(ctx))
}

func TestKeyedLimiter(t *testing.T) {
	k := NewKeyed(0.001, 2, time.Minute)

	assert.True(t, k.Allow("10.0.0.1"))
	assert.True(t, k.Allow("10.0.0.1"))
	assert.False(t, k.Allow("10.0.0.1"))

	assert.True(t, k.Allow("10.0.0.2"), "clients do not share buckets")
	assert.Equal(t, 2, k.Len())
	assert.Same(t, k.Get("10.0.0.1"), k.Get("10.0.0.1"))
}
