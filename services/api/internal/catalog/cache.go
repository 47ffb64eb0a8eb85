package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Cache is the read/write interface for the catalog list cache.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]Media, bool)
	Set(key string, items []Media)
}

type cacheItem struct {
	items     []Media
	expiresAt time.Time
}

// TTLCache is an in-memory Cache with per-entry expiry and optional NATS
// key-level invalidation. Stale entries are ignored on read and overwritten
// on the next refresh rather than proactively evicted; the key space is the
// small fixed set of catalog queries, so the map stays bounded.
type TTLCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	ttl   time.Duration
	now   func() time.Time
}

// NewTTLCache creates a TTLCache and wires up NATS invalidation when nc is
// non-nil. An invalidation message carries a single key, or "ALL" to flush.
func NewTTLCache(ttl time.Duration, nc *nats.Conn, subj string) *TTLCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &TTLCache{
		items: make(map[string]cacheItem),
		ttl:   ttl,
		now:   time.Now,
	}
	if nc != nil && subj != "" {
		_, _ = nc.Subscribe(subj, func(m *nats.Msg) {
			key := string(m.Data)
			c.mu.Lock()
			defer c.mu.Unlock()
			if key == "" || strings.EqualFold(key, "ALL") {
				c.items = make(map[string]cacheItem)
				return
			}
			delete(c.items, key)
		})
	}
	return c
}

func (c *TTLCache) Get(key string) ([]Media, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(it.expiresAt) {
		return nil, false
	}
	return it.items, true
}

func (c *TTLCache) Set(key string, items []Media) {
	c.mu.Lock()
	c.items[key] = cacheItem{items: items, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
