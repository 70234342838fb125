package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmcdole/shelf/internal/domain"
)

// GetAllBooks returns the whole catalog
func (c *Client) GetAllBooks(ctx context.Context) ([]domain.Book, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/books/all", nil, false)
	if err != nil {
		return nil, err
	}

	var dtos []bookDTO
	if err := c.decode(body, &dtos); err != nil {
		return nil, err
	}
	return MapBooks(dtos), nil
}

// SaveBook creates a catalog record (admin)
func (c *Client) SaveBook(ctx context.Context, in domain.BookInput) (*domain.Book, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/books/save", bookInputDTO(in), true)
	if err != nil {
		return nil, err
	}
	return c.parseBook(body)
}

// UpdateBook replaces the editable fields of the book with this ISBN (admin)
func (c *Client) UpdateBook(ctx context.Context, isbn string, in domain.BookInput) (*domain.Book, error) {
	body, err := c.doRequest(ctx, http.MethodPut, "/books/update/"+url.PathEscape(isbn), bookInputDTO(in), true)
	if err != nil {
		return nil, err
	}
	return c.parseBook(body)
}

// DeleteBook removes the book with this ISBN (admin)
func (c *Client) DeleteBook(ctx context.Context, isbn string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/books/delete/"+url.PathEscape(isbn), nil, true)
	return err
}

// parseBook accepts both {"book": {...}} and a bare book object
func (c *Client) parseBook(body []byte) (*domain.Book, error) {
	var env bookEnvelope
	if err := c.decode(body, &env); err != nil {
		return nil, err
	}
	if env.Book != nil {
		b := mapBook(*env.Book)
		return &b, nil
	}
	var d bookDTO
	if err := c.decode(body, &d); err != nil {
		return nil, err
	}
	b := mapBook(d)
	return &b, nil
}
