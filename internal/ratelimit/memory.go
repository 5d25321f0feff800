package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is the single-process fallback used when no Redis address is
// configured. Buckets are never evicted eagerly; a stale bucket is reset on
// its next hit.
type Memory struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string]*bucket
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		clients: make(map[string]*bucket),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.clients[key]

	if !ok || now.After(b.windowEnd) {
		m.clients[key] = &bucket{
			count:     1,
			windowEnd: now.Add(m.window),
		}

		return Decision{Allowed: true}, nil
	}

	if b.count >= m.limit {
		retryAfter := time.Until(b.windowEnd)

		if retryAfter < 0 {
			retryAfter = 0
		}

		return Decision{RetryAfter: retryAfter}, nil
	}

	b.count++

	return Decision{Allowed: true}, nil
}
