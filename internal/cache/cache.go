// Package cache implements the in-memory TTL cache shared by the search
// engine and the store resolver. Entries expire lazily on read; mutations
// in the admin API invalidate by key prefix instead of waiting for expiry.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default TTLs for the directory collections.
const (
	MallListTTL  = 10 * time.Minute
	StoreListTTL = 5 * time.Minute
	AllStoresTTL = 5 * time.Minute
)

// Cache keys. Per-mall keys share the "stores:" prefix so a mall mutation
// can clear every store list in one call.
const (
	KeyMalls     = "malls"
	KeyAllStores = "stores:all"
)

// KeyStores returns the cache key for one mall's store list.
func KeyStores(mallID string) string {
	return "stores:" + mallID
}

// KeyMall returns the cache key for a single mall document. It shares the
// "malls" prefix with the list key so one mall mutation clears both.
func KeyMall(mallID string) string {
	return "malls:" + mallID
}

// KeyFloors returns the cache key for one mall's floor list.
func KeyFloors(mallID string) string {
	return "floors:" + mallID
}

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haanaihang_cache_hits_total",
			Help: "Cache lookups that returned a live entry",
		},
		[]string{"key_prefix"},
	)
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haanaihang_cache_misses_total",
			Help: "Cache lookups that found nothing or an expired entry",
		},
		[]string{"key_prefix"},
	)
)

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL key-value store. The zero value is not usable; construct
// with New. Unbounded by design — the directory dataset is small.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock substitutes the time source, used by tests to step past
// expiry deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the live value for key. An entry past its expiry behaves as
// absent and is purged on the spot.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		cacheMisses.WithLabelValues(keyPrefix(key)).Inc()
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// replaced the entry since the read.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		cacheMisses.WithLabelValues(keyPrefix(key)).Inc()
		return nil, false
	}
	cacheHits.WithLabelValues(keyPrefix(key)).Inc()
	return e.value, true
}

// Set stores value under key for ttl. Concurrent writers for the same key
// race benignly; last write wins.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// ClearByPrefix removes every entry whose key starts with prefix. Called
// synchronously by mutation handlers so the next read is guaranteed fresh.
func (c *Cache) ClearByPrefix(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
