package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// defaultSweepInterval is how often the background sweep evicts expired
// entries that were never looked up again.
const defaultSweepInterval = time.Minute

// TokenCache memoizes introspection results per token for a bounded TTL so
// repeated requests with the same token do not trigger redundant network
// calls. Tokens are keyed by their SHA-256 hash; the raw token is never
// stored. Only active results belong in the cache - negative verdicts must
// be re-checked every time.
type TokenCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	result    *IntrospectionResult
	expiresAt time.Time
}

// NewTokenCache creates a TokenCache with the given maximum entry lifetime
// and starts its background sweeper. A non-positive ttl disables caching
// entirely: Set becomes a no-op and every Get misses.
func NewTokenCache(ttl time.Duration) *TokenCache {
	c := &TokenCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	if ttl > 0 {
		go c.sweep(defaultSweepInterval)
	}

	return c
}

// Get returns the cached introspection result for the token, or nil on a
// miss. Expired entries are evicted lazily here.
func (c *TokenCache) Get(token string) *IntrospectionResult {
	key := hashToken(token)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil
	}

	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil
	}

	return entry.result
}

// Set stores an introspection result for the token. The entry lifetime is
// the smaller of the configured TTL and the token's own expiry, so a cached
// verdict is never served past the point the token itself expires.
func (c *TokenCache) Set(token string, result *IntrospectionResult) {
	if c.ttl <= 0 {
		return
	}

	expiresAt := time.Now().Add(c.ttl)
	if !result.ExpiresAt.IsZero() && result.ExpiresAt.Before(expiresAt) {
		expiresAt = result.ExpiresAt
	}
	if !expiresAt.After(time.Now()) {
		return
	}

	c.mu.Lock()
	c.entries[hashToken(token)] = &cacheEntry{result: result, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Stop terminates the background sweeper. Safe to call more than once.
func (c *TokenCache) Stop() {
	c.once.Do(func() { close(c.done) })
}

func (c *TokenCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
