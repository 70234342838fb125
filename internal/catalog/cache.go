// Package catalog keeps the book list fetched from the backend and answers
// filter and search queries against it without touching the network.
package catalog

import (
	"sync"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

// Cache holds the last fetched catalog in memory.
// The list is replaced wholesale on every fetch; there is no per-book patching.
type Cache struct {
	mu        sync.RWMutex
	books     []domain.Book
	loaded    bool
	fetchedAt time.Time
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps in a freshly fetched list
func (c *Cache) Replace(books []domain.Book) {
	cp := make([]domain.Book, len(books))
	copy(cp, books)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.books = cp
	c.loaded = true
	c.fetchedAt = time.Now()
}

// Books returns a copy of the cached list and whether a fetch has completed
func (c *Cache) Books() ([]domain.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, false
	}
	cp := make([]domain.Book, len(c.books))
	copy(cp, c.books)
	return cp, true
}

// FetchedAt returns when the cache was last replaced (zero if never)
func (c *Cache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// Invalidate drops the cached list
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books = nil
	c.loaded = false
	c.fetchedAt = time.Time{}
}
