package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/domain"
)

func book(id string) domain.Book {
	return domain.Book{ID: id, Title: "Book " + id, ISBN: "isbn-" + id}
}

func TestAdd_Idempotent(t *testing.T) {
	c := New()
	c.Add(book("A"))
	c.Add(book("A"))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Book.ID)
	assert.Equal(t, 1, items[0].Count)
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	c := New()
	for _, id := range []string{"C", "A", "B", "A"} {
		c.Add(book(id))
	}

	var ids []string
	for _, it := range c.Items() {
		ids = append(ids, it.Book.ID)
	}
	assert.Equal(t, []string{"C", "A", "B"}, ids)
}

func TestDecrease_FloorAtOne(t *testing.T) {
	c := New()
	c.Add(book("A"))
	c.Decrease("A")

	it, ok := c.Find("A")
	require.True(t, ok)
	assert.Equal(t, 1, it.Count)
}

func TestIncreaseDecrease_RoundTrip(t *testing.T) {
	c := New()
	c.Add(book("A"))
	c.Increase("A")
	c.Increase("A")

	before, _ := c.Find("A")
	c.Increase("A")
	c.Decrease("A")
	after, _ := c.Find("A")

	assert.Equal(t, before.Count, after.Count)
}

func TestMissingItem_NoOp(t *testing.T) {
	c := New()
	c.Add(book("A"))

	c.Increase("missing")
	c.Decrease("missing")
	c.Remove("missing")

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Count)
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add(book("A"))
	c.Add(book("B"))
	c.Add(book("C"))
	c.Remove("B")

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Book.ID)
	assert.Equal(t, "C", items[1].Book.ID)
}

func TestClear(t *testing.T) {
	c := New()
	c.Clear()
	assert.True(t, c.IsEmpty())

	c.Add(book("A"))
	c.Increase("A")
	c.Add(book("B"))
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Items())
}

func TestReplace_DropsDuplicates(t *testing.T) {
	c := New()
	c.Add(book("Z"))
	c.Replace([]domain.Book{book("A"), book("B"), book("A")})

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Book.ID)
	assert.Equal(t, "B", items[1].Book.ID)
}

func TestFindByISBN(t *testing.T) {
	c := New()
	c.Add(book("A"))

	it, ok := c.FindByISBN("isbn-A")
	require.True(t, ok)
	assert.Equal(t, "A", it.Book.ID)

	_, ok = c.FindByISBN("isbn-B")
	assert.False(t, ok)
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := New()
	c.Add(book("A"))

	items := c.Items()
	items[0].Count = 99

	it, _ := c.Find("A")
	assert.Equal(t, 1, it.Count)
}

func TestScenario(t *testing.T) {
	c := New()
	assert.True(t, c.IsEmpty())

	c.Add(domain.Book{ID: "A"})
	it, _ := c.Find("A")
	assert.Equal(t, 1, it.Count)

	c.Add(domain.Book{ID: "A"})
	assert.Equal(t, 1, c.Len())

	c.Increase("A")
	it, _ = c.Find("A")
	assert.Equal(t, 2, it.Count)

	c.Decrease("A")
	it, _ = c.Find("A")
	assert.Equal(t, 1, it.Count)

	c.Decrease("A")
	it, _ = c.Find("A")
	assert.Equal(t, 1, it.Count)
}
