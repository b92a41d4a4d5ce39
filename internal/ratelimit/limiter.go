// Package ratelimit implements sliding-window request limiting with
// per-endpoint overrides attached through huma operation metadata.
package ratelimit

import (
	"context"
	"time"
)

// Store records requests and reports how many fall inside the current window.
type Store interface {
	// Record adds one request under key and returns the count of requests in
	// the window, pruning expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// LimitConfig is one limit: at most Max requests per Window.
type LimitConfig struct {
	Max    int64
	Window time.Duration
}

// Limiter checks whether a request identified by key should be allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// SlidingWindowLimiter allows up to a fixed number of requests per sliding
// window.
type SlidingWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewSlidingWindowLimiter creates a limiter over the given store.
func NewSlidingWindowLimiter(store Store, limit int64, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{store: store, limit: limit, window: window}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Record(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.limit, nil
}
