package gateway

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerMinute = 600
	defaultBurst             = 50
	limiterIdleTimeout       = 10 * time.Minute
	limiterCleanupInterval   = time.Minute
)

type callerLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter hands out one token bucket per caller and forgets callers that stay idle.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*callerLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewLimiter(requestsPerMinute, burst int) *Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRequestsPerMinute
	}

	if burst <= 0 {
		burst = defaultBurst
	}

	return &Limiter{
		limiters: make(map[string]*callerLimiter),
		limit:    rate.Limit(float64(requestsPerMinute) / time.Minute.Seconds()),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[key]
	if !ok {
		entry = &callerLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}

	now := l.now()
	entry.lastAccess = now

	return entry.limiter.AllowN(now, 1)
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.limiters)
}

// Cleanup drops limiters idle for longer than the idle timeout.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	deadline := l.now().Add(-limiterIdleTimeout)
	for key, entry := range l.limiters {
		if entry.lastAccess.Before(deadline) {
			delete(l.limiters, key)
		}
	}
}

// Run cleans up periodically until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}
