package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// entry is the internal storage record. A zero ExpiresAt means the
// entry never expires.
type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is an in-process TTL cache with a background janitor that
// sweeps expired entries.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry

	hits      int64
	misses    int64
	evictions int64

	stop chan struct{}
	once sync.Once
}

// NewMemoryCache creates a MemoryCache whose janitor sweeps expired
// entries every sweepInterval. A non-positive interval disables the
// janitor; expired entries are then only reclaimed lazily on Get.
func NewMemoryCache(sweepInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go c.janitor(sweepInterval)
	}
	return c
}

// Get returns the live value for key. Expired entries are removed on
// access and counted as misses.
func (c *MemoryCache) Get(_ context.Context, key string) (any, bool) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, false
	}
	if e.expired(now) {
		c.mu.Lock()
		delete(c.entries, key)
		c.misses++
		c.evictions++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return e.value, true
}

// Set stores value under key for ttl.
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// HealthCheck always reports healthy for the in-memory implementation.
func (c *MemoryCache) HealthCheck(_ context.Context) types.HealthStatus {
	return types.Healthy()
}

// GetStats returns a snapshot of cache activity counters.
func (c *MemoryCache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Close stops the janitor. Safe to call more than once.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

func (c *MemoryCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			c.evictions++
		}
	}
}

var _ Cache = (*MemoryCache)(nil)
