package status

import (
	"sync"
	"time"
)

// QueryCache memoizes per-request query outcomes, keyed by the raw URL query
// string. The outcome's own timestamp is authoritative for expiry. Two
// concurrent misses may both evaluate and store; the last writer wins.
type QueryCache struct {
	lock    sync.Mutex
	entries map[string]Outcome
}

func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string]Outcome)}
}

// Lookup returns the cached outcome for key if it is no older than ttl.
func (c *QueryCache) Lookup(key string, ttl time.Duration) (Outcome, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	outcome, ok := c.entries[key]
	if !ok || time.Since(outcome.Timestamp) > ttl {
		return Outcome{}, false
	}

	return outcome, true
}

func (c *QueryCache) Store(key string, outcome Outcome) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.entries[key] = outcome
}

// Sweep removes all entries older than ttl and returns how many were
// removed.
func (c *QueryCache) Sweep(ttl time.Duration) int {
	c.lock.Lock()
	defer c.lock.Unlock()

	removed := 0
	for key, outcome := range c.entries {
		if time.Since(outcome.Timestamp) > ttl {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}
