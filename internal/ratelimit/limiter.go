// Package ratelimit throttles requests per endpoint. Bitget enforces its quotas per
// API path and per key, so every path gets its own token bucket.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out per-endpoint token buckets. A Limiter built with zero requests
// never blocks.
type Limiter struct {
	buckets   sync.Map
	limit     rate.Limit
	burst     int
	overrides map[string]rate.Limit
	metrics   *Metrics
}

// Metrics tracks statistics about limiter usage.
type Metrics struct {
	totalRequests   atomic.Int64
	allowedRequests atomic.Int64
	deniedRequests  atomic.Int64
	bucketCount     atomic.Int32
}

// New creates a Limiter allowing requests per period on each endpoint.
func New(requests int, period time.Duration) *Limiter {
	l := &Limiter{
		limit:     rate.Inf,
		overrides: make(map[string]rate.Limit),
		metrics:   &Metrics{},
	}
	if requests > 0 && period > 0 {
		l.limit = perSecond(requests, period)
		l.burst = requests
	}
	return l
}

// WithEndpointLimit sets a dedicated limit for one endpoint. It must be called before
// the limiter is shared.
func (l *Limiter) WithEndpointLimit(endpoint string, requests int, period time.Duration) *Limiter {
	if requests > 0 && period > 0 {
		l.overrides[endpoint] = perSecond(requests, period)
	}
	return l
}

// Wait blocks until the endpoint's bucket allows a request or ctx ends.
func (l *Limiter) Wait(ctx context.Context, endpoint string) error {
	l.metrics.totalRequests.Add(1)
	if err := l.bucket(endpoint).Wait(ctx); err != nil {
		l.metrics.deniedRequests.Add(1)
		return err
	}
	l.metrics.allowedRequests.Add(1)
	return nil
}

// Allow reports whether the endpoint's bucket permits a request immediately.
func (l *Limiter) Allow(endpoint string) bool {
	l.metrics.totalRequests.Add(1)
	allowed := l.bucket(endpoint).Allow()
	if allowed {
		l.metrics.allowedRequests.Add(1)
	} else {
		l.metrics.deniedRequests.Add(1)
	}
	return allowed
}

func (l *Limiter) bucket(endpoint string) *rate.Limiter {
	if v, ok := l.buckets.Load(endpoint); ok {
		return v.(*rate.Limiter)
	}

	limit, burst := l.limit, l.burst
	if override, ok := l.overrides[endpoint]; ok {
		limit = override
		burst = max(int(override), 1)
	}
	actual, loaded := l.buckets.LoadOrStore(endpoint, rate.NewLimiter(limit, burst))
	if !loaded {
		l.metrics.bucketCount.Add(1)
	}
	return actual.(*rate.Limiter)
}

func perSecond(requests int, period time.Duration) rate.Limit {
	return rate.Limit(float64(requests) / period.Seconds())
}

// Metrics returns a snapshot of the current limiter statistics.
func (l *Limiter) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests:   l.metrics.totalRequests.Load(),
		AllowedRequests: l.metrics.allowedRequests.Load(),
		DeniedRequests:  l.metrics.deniedRequests.Load(),
		BucketCount:     l.metrics.bucketCount.Load(),
	}
}

// MetricsSnapshot is a point-in-time capture of limiter statistics.
type MetricsSnapshot struct {
	// TotalRequests is the total number of checks performed.
	TotalRequests int64
	// AllowedRequests is the number of requests that were allowed.
	AllowedRequests int64
	// DeniedRequests is the number of requests that were denied or abandoned.
	DeniedRequests int64
	// BucketCount is the number of endpoints seen so far.
	BucketCount int32
}
