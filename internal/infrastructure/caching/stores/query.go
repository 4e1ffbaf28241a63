package stores

import (
	"sync"
	"time"

	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/interfaces"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
)

type queryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryQueryCache is an in-memory TTL-bound response cache. Expired
// entries are dropped lazily on read and swept by the cleanup routine.
type MemoryQueryCache struct {
	entries map[string]queryEntry
	mu      sync.RWMutex
	logger  *logging.ChanneledLogger

	hits    int64
	misses  int64
	sets    int64
	evicted int64

	stopOnce sync.Once
	stop     chan struct{}
}

var (
	_ interfaces.QueryCache   = (*MemoryQueryCache)(nil)
	_ interfaces.Availability = (*MemoryQueryCache)(nil)
)

// NewMemoryQueryCache creates an empty query cache.
func NewMemoryQueryCache(logger *logging.ChanneledLogger) *MemoryQueryCache {
	return &MemoryQueryCache{
		entries: make(map[string]queryEntry),
		logger:  logger,
		stop:    make(chan struct{}),
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *MemoryQueryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		if exists {
			delete(c.entries, key)
			c.evicted++
		}
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return entry.value, true
}

// SetWithTTL stores value under key for ttl. A non-positive ttl is a no-op.
func (c *MemoryQueryCache) SetWithTTL(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = queryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.sets++
	c.mu.Unlock()
}

// Stats returns hit/miss telemetry.
func (c *MemoryQueryCache) Stats() interfaces.QueryCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return interfaces.QueryCacheStats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		Sets:    c.sets,
		Evicted: c.evicted,
	}
}

// IsAvailable reports whether the cache backend can serve requests.
func (c *MemoryQueryCache) IsAvailable() bool {
	return c != nil
}

// StartCleanupRoutine sweeps expired entries every interval until Stop.
func (c *MemoryQueryCache) StartCleanupRoutine(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.sweep()
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop terminates the cleanup routine.
func (c *MemoryQueryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *MemoryQueryCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.evicted += int64(removed)
	c.mu.Unlock()

	if removed > 0 && c.logger != nil {
		c.logger.Cache().Debug("Query cache sweep", "removed", removed)
	}
}
