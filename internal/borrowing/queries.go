package borrowing

import (
	"github.com/mmcdole/shelf/internal/cart"
)

// Queries provides synchronous reads of the local cart
type Queries struct {
	cart *cart.Cart
}

// NewQueries creates a new Queries instance.
func NewQueries(c *cart.Cart) *Queries {
	return &Queries{cart: c}
}

func (q *Queries) Items() []cart.Item {
	return q.cart.Items()
}

func (q *Queries) Len() int {
	return q.cart.Len()
}

// Copies returns the total count across all items
func (q *Queries) Copies() int {
	n := 0
	for _, it := range q.cart.Items() {
		n += it.Count
	}
	return n
}

// InCart reports whether bookID has a cart item
func (q *Queries) InCart(bookID string) bool {
	_, ok := q.cart.Find(bookID)
	return ok
}
