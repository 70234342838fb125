package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmcdole/shelf/internal/domain"
)

// GetBorrowingList returns the books on the user's server-side list.
// The server answers 404 when the list is empty; that surfaces as domain.ErrNotFound.
func (c *Client) GetBorrowingList(ctx context.Context) ([]domain.Book, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/borrowing-list", nil, true)
	if err != nil {
		return nil, err
	}

	var resp borrowingListResponse
	if err := c.decode(body, &resp); err != nil {
		return nil, err
	}
	return MapBooks(resp.Books), nil
}

// AddToBorrowingList puts the book with this ISBN on the list
func (c *Client) AddToBorrowingList(ctx context.Context, isbn string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/borrowing-list/add", isbnRequest{ISBN: isbn}, true)
	return err
}

// RemoveFromBorrowingList takes the book with this ISBN off the list
func (c *Client) RemoveFromBorrowingList(ctx context.Context, isbn string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/borrowing-list/remove/"+url.PathEscape(isbn), nil, true)
	return err
}

// Borrow records a borrow transaction for one book
func (c *Client) Borrow(ctx context.Context, userID, bookID string) (*domain.Transaction, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/transactions/borrow",
		borrowRequest{UserID: userID, BookID: bookID}, true)
	if err != nil {
		return nil, err
	}

	var env transactionEnvelope
	if len(body) > 0 && c.decode(body, &env) == nil && env.Transaction != nil {
		return mapTransaction(*env.Transaction), nil
	}
	// Servers that answer with only a message still committed the borrow
	return &domain.Transaction{UserID: userID, BookID: bookID}, nil
}
