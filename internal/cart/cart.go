// Package cart holds the local borrowing list: an ordered set of books with
// a per-book count. Every operation is total; a missing item is a no-op.
package cart

import (
	"sync"

	"github.com/mmcdole/shelf/internal/domain"
)

// Item is a book in the cart with its count (always >= 1)
type Item struct {
	Book  domain.Book
	Count int
}

// Cart is an insertion-ordered collection with at most one item per book ID.
type Cart struct {
	mu    sync.RWMutex
	items []Item
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// Add appends the book with count 1 unless it is already present
func (c *Cart) Add(book domain.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(book.ID) >= 0 {
		return
	}
	c.items = append(c.items, Item{Book: book, Count: 1})
}

// Increase bumps the count of the item by one
func (c *Cart) Increase(bookID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(bookID); i >= 0 {
		c.items[i].Count++
	}
}

// Decrease lowers the count by one, never below 1.
// Removing an item takes an explicit Remove.
func (c *Cart) Decrease(bookID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(bookID); i >= 0 && c.items[i].Count > 1 {
		c.items[i].Count--
	}
}

// Remove deletes the item for bookID, preserving the order of the rest
func (c *Cart) Remove(bookID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(bookID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Replace clears the cart and adds each book in order
func (c *Cart) Replace(books []domain.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	for _, b := range books {
		if c.indexOf(b.ID) >= 0 {
			continue
		}
		c.items = append(c.items, Item{Book: b, Count: 1})
	}
}

// Items returns a copy of the items in insertion order
func (c *Cart) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of distinct books
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Find returns the item for bookID
func (c *Cart) Find(bookID string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(bookID); i >= 0 {
		return c.items[i], true
	}
	return Item{}, false
}

// FindByISBN returns the item whose book has the given ISBN
func (c *Cart) FindByISBN(isbn string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, it := range c.items {
		if it.Book.ISBN == isbn {
			return it, true
		}
	}
	return Item{}, false
}

// indexOf must be called with mu held
func (c *Cart) indexOf(bookID string) int {
	for i, it := range c.items {
		if it.Book.ID == bookID {
			return i
		}
	}
	return -1
}
