package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit
	Allow() bool
	// Wait blocks until the rate limit allows another request or ctx ends
	Wait(ctx context.Context) error
	// Reset refills the limiter
	Reset()
}

// TokenBucket is a Limiter refilling perSecond tokens up to burst.
type TokenBucket struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	perSecond float64
	burst     int
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(perSecond float64, burst int) *TokenBucket {
	tb := &TokenBucket{perSecond: perSecond, burst: burst}
	tb.Reset()
	return tb
}

func (tb *TokenBucket) current() *rate.Limiter {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.limiter
}

func (tb *TokenBucket) Allow() bool {
	return tb.current().Allow()
}

func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.current().Wait(ctx)
}

// Reset restores a full bucket
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.limiter = rate.NewLimiter(rate.Limit(tb.perSecond), tb.burst)
}

// KeyedLimiter keeps one TokenBucket per key (a client address, typically).
// Buckets unused for idle are evicted.
type KeyedLimiter struct {
	mu        sync.Mutex
	perSecond float64
	burst     int
	buckets   *cache.Cache
}

// NewKeyed creates a per-key limiter
func NewKeyed(perSecond float64, burst int, idle time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		perSecond: perSecond,
		burst:     burst,
		buckets:   cache.New(idle, 2*idle),
	}
}

// Get returns the bucket for key, creating it on first use
func (k *KeyedLimiter) Get(key string) Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	if v, ok := k.buckets.Get(key); ok {
		k.buckets.SetDefault(key, v)
		return v.(*TokenBucket)
	}
	tb := NewTokenBucket(k.perSecond, k.burst)
	k.buckets.SetDefault(key, tb)
	return tb
}

// Allow consumes a token from key's bucket
func (k *KeyedLimiter) Allow(key string) bool {
	return k.Get(key).Allow()
}

// Len returns the number of live buckets
func (k *KeyedLimiter) Len() int {
	return k.buckets.ItemCount()
}
