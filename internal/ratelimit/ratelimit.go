// Package ratelimit provides a fixed-window rate limiter used to throttle
// credential attempts per client address.
package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Limiter defines the interface for rate limiters.
type Limiter interface {
	// Allow checks if a request is allowed for the given key.
	// Returns true if allowed, false if rate limited.
	Allow(ctx context.Context, key string) (bool, error)

	// Reset clears the counter for the given key.
	Reset(ctx context.Context, key string) error

	// Close releases any resources held by the limiter.
	Close() error
}

// ClientIP extracts the client IP from an HTTP request. X-Forwarded-For and
// X-Real-IP take precedence over RemoteAddr so the limiter keys on the real
// client behind a proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
		if addr[i] == ']' {
			// IPv6 address without a port
			break
		}
	}
	return addr
}

// entry is the counter for a single key.
type entry struct {
	count    int
	windowAt time.Time
}

// MemoryLimiter is an in-memory fixed-window rate limiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	rate    int
	window  time.Duration
	done    chan struct{}
}

// NewMemoryLimiter creates a limiter allowing rate requests per window.
func NewMemoryLimiter(rate int, window time.Duration) *MemoryLimiter {
	ml := &MemoryLimiter{
		entries: make(map[string]*entry),
		rate:    rate,
		window:  window,
		done:    make(chan struct{}),
	}
	go ml.janitor()
	return ml
}

// Allow checks if a request is allowed for the given key.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	e, exists := m.entries[key]

	if !exists || now.After(e.windowAt) {
		m.entries[key] = &entry{count: 1, windowAt: now.Add(m.window)}
		return m.rate >= 1, nil
	}

	if e.count >= m.rate {
		return false, nil
	}
	e.count++
	return true, nil
}

// Reset clears the counter for the given key.
func (m *MemoryLimiter) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Close stops the janitor goroutine.
func (m *MemoryLimiter) Close() error {
	close(m.done)
	return nil
}

// janitor periodically drops entries whose window has passed.
func (m *MemoryLimiter) janitor() {
	ticker := time.NewTicker(m.window)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *MemoryLimiter) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, e := range m.entries {
		if now.After(e.windowAt) {
			delete(m.entries, key)
		}
	}
}
