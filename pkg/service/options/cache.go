package options

import (
	"strings"
	"sync"
)

// FetchCache records which fetch keys have already been issued so repeated
// resolution passes do not re-query unchanged data sources. Keys are
// "<fieldID>|<serialized data source>"; invalidation happens by exact key
// or by field-ID prefix when a parent value change supersedes everything a
// field has fetched so far.
//
// A cache instance is owned by one Resolver for one form-rendering session;
// it is never shared process-wide.
type FetchCache interface {
	Has(key string) bool
	Add(key string)
	Delete(key string)
	DeletePrefix(prefix string)
}

type memoryCache struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewMemoryCache returns the default in-memory FetchCache
func NewMemoryCache() FetchCache {
	return &memoryCache{keys: make(map[string]struct{})}
}

func (c *memoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.keys[key]
	return ok
}

func (c *memoryCache) Add(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[key] = struct{}{}
}

func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, key)
}

func (c *memoryCache) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.keys {
		if strings.HasPrefix(key, prefix) {
			delete(c.keys, key)
		}
	}
}
