package api

import (
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

// MapBooks converts book DTOs to domain books, skipping records without an ID
func MapBooks(dtos []bookDTO) []domain.Book {
	books := make([]domain.Book, 0, len(dtos))
	for _, d := range dtos {
		b := mapBook(d)
		if b.ID == "" {
			continue
		}
		books = append(books, b)
	}
	return books
}

func mapBook(d bookDTO) domain.Book {
	return domain.Book{
		ID:              firstNonEmpty(d.ID, d.MongoID),
		Title:           d.Title,
		Author:          d.Author,
		ISBN:            d.ISBN,
		Genre:           d.Genre,
		PublicationYear: d.PublicationYear,
		Available:       d.Available,
		ReviewCount:     d.ReviewCount,
		AverageRating:   d.AverageRating,
		CoverImage:      d.CoverImage,
		CreatedAt:       parseTime(d.CreatedAt),
	}
}

func bookInputDTO(in domain.BookInput) bookDTO {
	return bookDTO{
		Title:           in.Title,
		Author:          in.Author,
		ISBN:            in.ISBN,
		Genre:           in.Genre,
		PublicationYear: in.PublicationYear,
		Available:       in.Available,
		CoverImage:      in.CoverImage,
	}
}

func mapUser(d userDTO) *domain.UserProfile {
	return &domain.UserProfile{
		ID:        firstNonEmpty(d.ID, d.MongoID),
		Name:      d.Name,
		Email:     d.Email,
		Role:      domain.Role(d.Role),
		CreatedAt: parseTime(d.CreatedAt),
	}
}

func mapTransaction(d transactionDTO) *domain.Transaction {
	return &domain.Transaction{
		ID:         firstNonEmpty(d.ID, d.MongoID),
		UserID:     d.UserID,
		BookID:     d.BookID,
		BorrowedAt: parseTime(d.BorrowedAt),
		DueAt:      parseTime(d.DueAt),
	}
}

// parseTime accepts RFC 3339 timestamps; anything else maps to the zero time
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
