package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the authorization level carried by a session
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Book represents a catalog record as served by the backend.
// Availability is the only field that flips server-side without client action.
type Book struct {
	ID              string    // Server-assigned identifier
	Title           string    // Display title
	Author          string    // Primary author
	ISBN            string    // Unique business key
	Genre           string    // Free-form genre label
	PublicationYear int       // 0 if unknown
	Available       bool      // Whether a copy can currently be borrowed
	ReviewCount     int       // Number of reviews
	AverageRating   float64   // 0-5 scale
	CoverImage      string    // Cover image URL or reference
	CreatedAt       time.Time // When the record was added
}

// DisplayYear returns the publication year, or an empty string if unknown
func (b Book) DisplayYear() string {
	if b.PublicationYear <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", b.PublicationYear)
}

// Description returns secondary info for list rendering (e.g., "Orwell · 1949")
func (b Book) Description() string {
	parts := make([]string, 0, 2)
	if b.Author != "" {
		parts = append(parts, b.Author)
	}
	if y := b.DisplayYear(); y != "" {
		parts = append(parts, y)
	}
	return strings.Join(parts, " · ")
}

// FormattedRating returns the average rating with review count (e.g., "4.2 (17)")
func (b Book) FormattedRating() string {
	if b.ReviewCount == 0 {
		return "no reviews"
	}
	return fmt.Sprintf("%.1f (%d)", b.AverageRating, b.ReviewCount)
}

// BookInput carries the editable fields of a book for admin save/update calls
type BookInput struct {
	Title           string
	Author          string
	ISBN            string
	Genre           string
	PublicationYear int
	Available       bool
	CoverImage      string
}

// Session is the authenticated identity of the current user
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Name         string
	Role         Role
}

// IsValid returns true if the session carries an access token
func (s Session) IsValid() bool {
	return s.AccessToken != ""
}

// IsAdmin returns true if the session has the admin role
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// TokenPair is returned by login and refresh calls
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserProfile is a server-owned user account
type UserProfile struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// ProfileUpdate carries the fields a profile update may change.
// Empty fields are left unchanged by the server.
type ProfileUpdate struct {
	Name     string
	Email    string
	Password string
}

// Transaction is the server record of a confirmed borrow
type Transaction struct {
	ID         string
	UserID     string
	BookID     string
	BorrowedAt time.Time
	DueAt      time.Time
}
