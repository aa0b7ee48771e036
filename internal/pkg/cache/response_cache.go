package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

// ResponseCache keeps rendered GET responses keyed by request URI. It is
// bounded in size and entries expire after ttl; writers call Purge.
type ResponseCache struct {
	lru *expirable.LRU[string, Entry]

	mu         sync.Mutex
	generation uint64 // bumped by every Purge
}

func NewResponseCache(size int, ttl time.Duration) *ResponseCache {
	if size <= 0 {
		size = 256
	}
	return &ResponseCache{lru: expirable.NewLRU[string, Entry](size, nil, ttl)}
}

func (c *ResponseCache) Get(key string) (Entry, bool) {
	return c.lru.Get(key)
}

func (c *ResponseCache) Set(key string, e Entry) {
	c.lru.Add(key, e)
}

// Generation identifies the cache contents between two purges. Capture it
// before rendering a response and hand it to SetIfCurrent.
func (c *ResponseCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// SetIfCurrent stores e only if no Purge happened since gen was taken, so a
// response rendered before a write cannot outlive it.
func (c *ResponseCache) SetIfCurrent(key string, e Entry, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.lru.Add(key, e)
	return true
}

func (c *ResponseCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.lru.Purge()
}

func (c *ResponseCache) Len() int {
	return c.lru.Len()
}
