// Package ratelimit throttles search requests.
//
// TokenBucket wraps golang.org/x/time/rate behind the small Limiter
// interface. KeyedLimiter holds one bucket per client key in a go-cache
// store so idle clients are forgotten; the API server uses it per remote
// address because every search drives a real browser tab.
package ratelimit
