package domain

import "context"

// CatalogQueries: Synchronous, cache-only reads.
// All methods return instantly. NEVER block on network.
// Safe to call from View() and navigation code.
type CatalogQueries interface {
	GetCachedBooks() ([]Book, bool)
	Filter(query string, filter BookFilter) []Book
	Genres() []string
	Years() []int
}

// CatalogCommands: Asynchronous operations that may hit network.
// Must be called from tea.Cmd functions, never from View().
type CatalogCommands interface {
	// Always fetch, replacing the whole cached list
	FetchAll(ctx context.Context) ([]Book, error)

	// Admin CRUD (each refreshes the cache after success)
	SaveBook(ctx context.Context, in BookInput) (*Book, error)
	UpdateBook(ctx context.Context, isbn string, in BookInput) (*Book, error)
	DeleteBook(ctx context.Context, isbn string) error
}
