// Package cache holds answers keyed by lowercased question text.
package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/musaed-ai/musaed/pkg/models"
)

// Cache is an exact-match response cache held in process memory.
// With maxEntries and ttl both zero it never evicts.
type Cache struct {
	mu     sync.Mutex // serializes writers
	lru    *expirable.LRU[string, models.CacheEntry]
	now    func() time.Time
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Cache. maxEntries bounds it with LRU eviction and ttl marks
// entries stale after the given age; zero disables either limit.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, models.CacheEntry](maxEntries, nil, ttl),
		now: time.Now,
	}
}

// Key normalizes a question into its cache key. Only case is folded;
// whitespace is kept as given.
func Key(question string) string {
	return strings.ToLower(question)
}

// Get retrieves a cached answer.
func (c *Cache) Get(question string) (models.CacheEntry, bool) {
	entry, ok := c.lru.Get(Key(question))
	if !ok {
		c.misses.Add(1)
		return models.CacheEntry{}, false
	}
	c.hits.Add(1)
	return entry, true
}

// Put stores an answer, replacing any previous one for the same key.
func (c *Cache) Put(question, answer string) {
	key := Key(question)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, c.entry(key, answer))
}

// PutIfAbsent stores answer unless a live entry already exists for the key,
// and returns the answer that ends up cached. Concurrent callers racing on
// one key all get the first writer's answer.
func (c *Cache) PutIfAbsent(question, answer string) string {
	key := Key(question)
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.lru.Peek(key); ok {
		return existing.Answer
	}
	c.lru.Add(key, c.entry(key, answer))
	return answer
}

func (c *Cache) entry(key, answer string) models.CacheEntry {
	return models.CacheEntry{
		Question:  key,
		Answer:    answer,
		CreatedAt: c.now().UTC(),
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Stats returns cache performance metrics.
func (c *Cache) Stats() models.CacheStats {
	return models.CacheStats{
		Entries: int64(c.lru.Len()),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// Clear removes every entry. Hit and miss counters are kept.
func (c *Cache) Clear() {
	c.lru.Purge()
}
