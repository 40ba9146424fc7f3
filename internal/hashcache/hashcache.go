// Package hashcache memoizes the slow secret key derivation.
//
// Entries map a plaintext secret key to its derived hash. The cache is bounded
// by capacity (least recently used entries are evicted) and optionally by age.
// Expired entries are dropped lazily on lookup, so the cache owns no goroutines.
package hashcache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is used when a non-positive size is configured.
const DefaultSize = 10000

type entry struct {
	hash      string
	expiresAt time.Time
}

// Cache is safe for concurrent use. Concurrent Set calls for the same key are
// idempotent overwrites.
type Cache struct {
	entries *lru.Cache[string, entry]
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache holding at most size entries. A zero ttl disables expiry.
func New(size int, ttl time.Duration) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}

	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}

	return &Cache{entries: entries, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached hash for secretKey.
func (c *Cache) Get(secretKey string) (string, bool) {
	e, ok := c.entries.Get(secretKey)
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.entries.Remove(secretKey)
		return "", false
	}
	return e.hash, true
}

// Set stores hash for secretKey. Callers only store hashes that matched a row.
func (c *Cache) Set(secretKey, hash string) {
	e := entry{hash: hash}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.entries.Add(secretKey, e)
}

// Delete removes secretKey from the cache.
func (c *Cache) Delete(secretKey string) {
	c.entries.Remove(secretKey)
}

// Len returns the number of entries, including expired ones not yet dropped.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge removes every entry.
func (c *Cache) Purge() {
	c.entries.Purge()
}
