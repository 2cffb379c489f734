package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"contractiq/internal/domain"
)

// AnswerCache is an LRU cache for generated answers with TTL expiry and
// generation-based invalidation. Uploading or deleting a contract bumps
// the generation, which lazily discards every answer computed against
// the old corpus.
type AnswerCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
	gen     uint64
}

type cacheEntry struct {
	answer    domain.Answer
	timestamp time.Time
	gen       uint64
}

func NewAnswerCache(maxSize int, ttl time.Duration) *AnswerCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(query string, topK int) string {
	data := []byte(query)
	data = append(data, byte(topK>>8), byte(topK))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *AnswerCache) Get(query string, topK int) (domain.Answer, bool) {
	c.mu.RLock()
	key := cacheKey(query, topK)
	entry, exists := c.entries[key]
	currentGen := c.gen
	c.mu.RUnlock()

	if !exists {
		return domain.Answer{}, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.gen != currentGen {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return domain.Answer{}, false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return entry.answer, true
}

func (c *AnswerCache) Put(query string, topK int, answer domain.Answer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, topK)

	if _, exists := c.entries[key]; exists {
		c.entries[key] = &cacheEntry{
			answer:    answer,
			timestamp: time.Now(),
			gen:       c.gen,
		}
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &cacheEntry{
		answer:    answer,
		timestamp: time.Now(),
		gen:       c.gen,
	}
	c.order = append(c.order, key)
}

// Invalidate drops all entries and bumps the generation so that any
// concurrent reader holding a stale entry misses on its next lookup.
func (c *AnswerCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.gen++
}

func (c *AnswerCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *AnswerCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *AnswerCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *AnswerCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
