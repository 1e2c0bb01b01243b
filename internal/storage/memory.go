package storage

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ RateLimiter = (*MemoryRateLimiter)(nil)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryRateLimiter keeps one token bucket per key in process memory.
type MemoryRateLimiter struct {
	limiters  map[string]*limiterEntry
	mu        sync.Mutex
	rateLimit rate.Limit
	rateBurst int

	done chan struct{}
}

func NewMemoryRateLimiter(ratePerSec float64, burst int) *MemoryRateLimiter {
	m := &MemoryRateLimiter{
		limiters:  make(map[string]*limiterEntry),
		rateLimit: rate.Limit(ratePerSec),
		rateBurst: burst,
		done:      make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

func (m *MemoryRateLimiter) Allow(_ context.Context, key string) (RateLimitResult, error) {
	m.mu.Lock()
	entry, exists := m.limiters[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(m.rateLimit, m.rateBurst)}
		m.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	m.mu.Unlock()

	reservation := entry.limiter.Reserve()
	if !reservation.OK() {
		return RateLimitResult{Allowed: false, RetryAfter: time.Second}, nil
	}
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return RateLimitResult{Allowed: false, RetryAfter: delay}, nil
	}
	return RateLimitResult{Allowed: true}, nil
}

func (m *MemoryRateLimiter) Close() error {
	close(m.done)
	return nil
}

func (m *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for key, entry := range m.limiters {
				if now.Sub(entry.lastSeen) > limiterIdleTTL {
					delete(m.limiters, key)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}
