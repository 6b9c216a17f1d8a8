package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/iwvelando/amortize/pkg/constants"
)

type memoryEntry struct {
	key     string
	value   string
	expires time.Time
}

// MemoryCache is a process-local Cache holding at most maxEntries values.
// Entries are kept in write order, so with a single TTL the oldest entry is
// also the first to expire and the first evicted when the cache is full.
// A zero TTL keeps entries until they are evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache returns an empty MemoryCache with the default size limit.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCacheWithLimit(ttl, constants.DefaultCacheMaxEntries)
}

// NewMemoryCacheWithLimit returns an empty MemoryCache holding at most
// maxEntries values. A non-positive limit uses the default.
func NewMemoryCacheWithLimit(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = constants.DefaultCacheMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value stored under key if it has not expired.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return "", false
	}
	entry := elem.Value.(*memoryEntry)
	if c.expired(entry, c.now()) {
		c.remove(elem)
		return "", false
	}
	return entry.value, true
}

// Set stores value under key, dropping expired entries and then the oldest
// entries beyond the size limit.
func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweep(now)

	var expires time.Time
	if c.ttl > 0 {
		expires = now.Add(c.ttl)
	}

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expires = expires
		c.order.MoveToBack(elem)
	} else {
		c.entries[key] = c.order.PushBack(&memoryEntry{key: key, value: value, expires: expires})
	}

	for c.order.Len() > c.maxEntries {
		c.remove(c.order.Front())
	}
	return nil
}

// Len reports the number of live entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep(c.now())
	return len(c.entries)
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) expired(entry *memoryEntry, now time.Time) bool {
	return !entry.expires.IsZero() && !now.Before(entry.expires)
}

// sweep removes expired entries from the front of the write order.
func (c *MemoryCache) sweep(now time.Time) {
	for elem := c.order.Front(); elem != nil; elem = c.order.Front() {
		if !c.expired(elem.Value.(*memoryEntry), now) {
			return
		}
		c.remove(elem)
	}
}

func (c *MemoryCache) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*memoryEntry).key)
}
