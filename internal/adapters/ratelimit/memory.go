package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count int
	start time.Time
}

// MemoryLimiter counts requests per policy and client in a fixed window, in
// process. The window opens on the first request of a key and the count
// resets once it has passed.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string, policy Policy) (Decision, error) {
	now := m.now()
	k := bucketKey(policy, key)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[k]
	if !ok || !now.Before(entry.start.Add(policy.Window)) {
		entry = &memoryEntry{start: now}
		m.entries[k] = entry
	}
	entry.count++

	return Decision{
		Allowed:   entry.count <= policy.Max,
		Limit:     policy.Max,
		Remaining: max(0, policy.Max-entry.count),
		Reset:     entry.start.Add(policy.Window).Sub(now),
	}, nil
}

// Evict drops entries whose window started more than idle ago. idle must be
// at least the longest policy window or a live window is cut short.
func (m *MemoryLimiter) Evict(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for k, e := range m.entries {
		if e.start.Before(cutoff) {
			delete(m.entries, k)
			evicted++
		}
	}
	return evicted
}

// Run evicts stale entries every interval until ctx is done.
func (m *MemoryLimiter) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Evict(idle)
		}
	}
}

func (m *MemoryLimiter) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
